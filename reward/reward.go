// Package reward implements the step reward accumulator (spec §4.5): burning
// populated cells caught by fire, and crediting surviving non-evacuees.
package reward

import (
	"wildfireevac/atomic_float"
	"wildfireevac/gridstate"
)

const burnedPopulationPenalty = -100.0

// Accumulator holds the running reward total in a lock-free float, adapted
// from the teacher's atomic_float.AtomicFloat64, so a monitoring goroutine
// can poll it without taking a lock on the simulation's single caller.
type Accumulator struct {
	total *atomic_float.AtomicFloat64
}

// NewAccumulator returns a zeroed Accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{total: atomic_float.NewAtomicFloat64(0)}
}

// Update finalizes burned populations for this step and accumulates the
// resulting reward delta (spec §4.5). It must run after fire.Propagate and
// evac.Manager.Update for the step. It returns the count of populated cells
// newly caught by fire this step, for callers that report it (e.g. metrics).
func (a *Accumulator) Update(s *gridstate.State) (burnedThisStep int) {
	burned := 0
	survivingNonEvacuees := 0

	for row := 0; row < s.NumRows; row++ {
		for col := 0; col < s.NumCols; col++ {
			if s.At(gridstate.Populated, row, col) != 1 {
				continue
			}

			if s.At(gridstate.Fire, row, col) == 1 {
				burned++
				i := row*s.NumCols + col
				s.Channel(gridstate.Populated)[i] = 0
				s.Channel(gridstate.Evacuating)[i] = 0
				delete(s.Populated, gridstate.Cell{Row: row, Col: col})
				continue
			}

			if s.At(gridstate.Evacuating, row, col) == 0 {
				survivingNonEvacuees++
			}
		}
	}

	delta := burnedPopulationPenalty*float64(burned) + float64(survivingNonEvacuees)
	// Update runs only on the driver's single calling goroutine (spec §5), so
	// a single AtomicAdd attempt never contends; the CAS inside it always
	// succeeds against its own freshly-read old value.
	a.total.AtomicAdd(delta)
	return burned
}

// ReadAndClear returns the accumulated reward and resets the counter to 0,
// matching the "read-and-cleared by the external collaborator" contract of
// spec §4.5.
func (a *Accumulator) ReadAndClear() float64 {
	val := a.total.AtomicRead()
	a.total.AtomicSet(0)
	return val
}
