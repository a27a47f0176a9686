// Package fire implements the one-step stochastic fire propagation kernel
// (spec §4.3): fuel burn-down, extinguishment, kernel-weighted ignition, and
// the fire channel update.
package fire

import (
	"runtime"

	"wildfireevac/gridstate"
	"wildfireevac/kernel"

	channerics "github.com/niceyeti/channerics/channels"
)

// Propagate advances the fire/fuel channels of s by one step in place.
//
// The new fire/fuel values are staged into scratch buffers and committed to
// s in a single pass at the end, per spec §5's cancellation model ("operations
// on the tensor should be staged and committed"). The kernel convolution and
// per-cell ignition draw are independent per cell (spec §5: "embarrassingly
// parallel per cell"); the convolution is fanned out across row bands and
// joined with channerics, while the random draws themselves are taken
// serially, in row-major order, from the state's own PRNG before fan-out so
// the result is identical regardless of how the goroutines are scheduled.
func Propagate(s *gridstate.State) {
	n := s.NumRows * s.NumCols

	fuel := append([]float64(nil), s.Channel(gridstate.Fuel)...)
	fireAfterBurn := append([]float64(nil), s.Channel(gridstate.Fire)...)

	// Step 1: burn down fuel on cells currently on fire, clamped at 0.
	for i := 0; i < n; i++ {
		if fireAfterBurn[i] == 1 {
			fuel[i]--
			if fuel[i] < 0 {
				fuel[i] = 0
			}
		}
	}
	// Step 2: extinguish cells that have run out of fuel.
	for i := 0; i < n; i++ {
		if fuel[i] <= 0 {
			fireAfterBurn[i] = 0
		}
	}

	// Draw one uniform per cell, serially, before any parallel work begins.
	draws := make([]float64, n)
	for i := 0; i < n; i++ {
		draws[i] = s.Rand.Float64()
	}

	newFire := make([]float64, n)
	computeIgnitions(s.NumRows, s.NumCols, fireAfterBurn, s.Kernel, draws, newFire)

	// Step 7: fire becomes the elementwise max of the new draw and the
	// post-extinguish fire (burning cells stay burning).
	for i := 0; i < n; i++ {
		if fireAfterBurn[i] > newFire[i] {
			newFire[i] = fireAfterBurn[i]
		}
	}

	copy(s.Channel(gridstate.Fuel), fuel)
	copy(s.Channel(gridstate.Fire), newFire)
}

// computeIgnitions fills out[i] with the step-6 ignition draw result for
// every cell, fanning the row range out across a worker per CPU (capped at
// the number of rows) and joining with channerics.Merge.
func computeIgnitions(numRows, numCols int, fire []float64, k kernel.Mask, draws, out []float64) {
	workers := runtime.GOMAXPROCS(0)
	if workers > numRows {
		workers = numRows
	}
	if workers < 1 {
		workers = 1
	}

	done := make(chan struct{})
	defer close(done)

	bandSize := (numRows + workers - 1) / workers
	chans := make([]<-chan int, 0, workers)
	for start := 0; start < numRows; start += bandSize {
		end := start + bandSize
		if end > numRows {
			end = numRows
		}
		ch := make(chan int, 1)
		go func(rowStart, rowEnd int) {
			defer close(ch)
			ignitionBand(numRows, numCols, rowStart, rowEnd, fire, k, draws, out)
			ch <- rowEnd - rowStart
		}(start, end)
		chans = append(chans, ch)
	}

	merged := channerics.Merge(done, chans...)
	remaining := numRows
	for remaining > 0 {
		n, ok := <-merged
		if !ok {
			break
		}
		remaining -= n
	}
}

// ignitionBand computes the survival-probability product and ignition draw
// for rows [rowStart, rowEnd).
func ignitionBand(numRows, numCols, rowStart, rowEnd int, fire []float64, k kernel.Mask, draws, out []float64) {
	for r := rowStart; r < rowEnd; r++ {
		for c := 0; c < numCols; c++ {
			survival := 1.0
			for di := -2; di <= 2; di++ {
				nr := r + di
				for dj := -2; dj <= 2; dj++ {
					nc := c + dj
					kIdx := (di+2)*kernel.Size + (dj + 2)
					burning := false
					if nr >= 0 && nr < numRows && nc >= 0 && nc < numCols {
						burning = fire[nr*numCols+nc] == 1
					}
					if burning {
						survival *= k[kIdx]
					}
					// else: neutral contribution (multiply by 1), per spec §4.3 step 4.
				}
			}
			ignitionProb := 1 - survival
			i := r*numCols + c
			if ignitionProb > draws[i] {
				out[i] = 1
			} else {
				out[i] = 0
			}
		}
	}
}
