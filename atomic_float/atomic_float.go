// Package atomic_float provides a lock-free float64 box, used by the reward
// accumulator so a monitoring goroutine can poll the running total without a
// mutex while the driver's single calling goroutine keeps updating it.
package atomic_float

import (
	"math"
	"sync/atomic"
	"unsafe"
)

// Notes:
// - no unsafe pointer here outlives the statement that derives it, since the
//   gc is free to move af.val between calls and a stashed pointer would then
//   refer to a stale location.

// AtomicFloat64 encapsulates a float64 for non-locking atomic operations.
type AtomicFloat64 struct {
	val float64
}

// NewAtomicFloat64 wraps val for atomic operations.
func NewAtomicFloat64(val float64) *AtomicFloat64 {
	return &AtomicFloat64{
		val: val,
	}
}

// AtomicRead returns the current value, synchronized with main memory.
func (af *AtomicFloat64) AtomicRead() (value float64) {
	bits := atomic.LoadUint64((*uint64)(unsafe.Pointer(&af.val)))
	return math.Float64frombits(bits)
}

// AtomicAdd adds addend to the value via compare-and-swap against a freshly
// read old value. If the pointee changed between the read and the swap, the
// CAS fails and succeeded is false; the caller decides whether to retry.
func (af *AtomicFloat64) AtomicAdd(addend float64) (newVal float64, succeeded bool) {
	old := af.AtomicRead()
	newVal = old + addend
	succeeded = atomic.CompareAndSwapUint64(
		(*uint64)(unsafe.Pointer(&af.val)),
		math.Float64bits(old),
		math.Float64bits(newVal))
	return
}

// AtomicSet sets the value, returning true on success.
func (af *AtomicFloat64) AtomicSet(newVal float64) (succeeded bool) {
	old := af.AtomicRead()
	succeeded = atomic.CompareAndSwapUint64(
		(*uint64)(unsafe.Pointer(&af.val)),
		math.Float64bits(old),
		math.Float64bits(newVal))
	return
}
