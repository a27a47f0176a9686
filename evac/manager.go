// Package evac implements the path/evacuation state machine (spec §4.4): path
// destruction, evacuation countdowns, and action application.
package evac

import "wildfireevac/gridstate"

// Manager applies per-step path destruction/countdown updates to a
// gridstate.State and accepts agent actions via SetAction.
//
// cellToPath is a reverse index ("which path is cell X evacuating on")
// recovered from original_source/'s environment, which keeps an equivalent
// per-cell pointer. SetAction, countdown and clearEvacuation keep it in step
// with EvacuatingPaths; no Manager method reads it (SetAction recognises an
// already-evacuating cell by its finite timestamp).
type Manager struct {
	state      *gridstate.State
	cellToPath map[gridstate.Cell]int
}

// NewManager wraps s, deriving the reverse index from its current
// EvacuatingPaths bookkeeping.
func NewManager(s *gridstate.State) *Manager {
	m := &Manager{state: s, cellToPath: map[gridstate.Cell]int{}}
	for p, cells := range s.EvacuatingPaths {
		for _, c := range cells {
			m.cellToPath[c] = p
		}
	}
	return m
}

// Update performs, in ascending path-index order, path destruction (A) then
// evacuation countdown (B) for every path, per spec §4.4. It must be called
// after fire.Propagate has mutated the fire channel for this step.
func (m *Manager) Update() {
	s := m.state
	for p := range s.PathRecords {
		rec := &s.PathRecords[p]
		if !rec.Live {
			continue
		}

		if m.pathIsBurning(rec) {
			m.destroy(p, rec)
			continue
		}

		if cells, ok := s.EvacuatingPaths[p]; ok && len(cells) > 0 {
			m.countdown(p, cells)
		}
	}
}

func (m *Manager) pathIsBurning(rec *gridstate.PathRecord) bool {
	s := m.state
	for _, c := range rec.Cells {
		if s.At(gridstate.Fire, c.Row, c.Col) == 1 {
			return true
		}
	}
	return false
}

// destroy marks path p dead, subtracts its mask from the Paths channel, and
// evicts every cell currently evacuating on it back to "not evacuating"
// (spec §4.4 step A).
func (m *Manager) destroy(p int, rec *gridstate.PathRecord) {
	s := m.state
	rec.Live = false
	for row := 0; row < s.NumRows; row++ {
		for col := 0; col < s.NumCols; col++ {
			if rec.Covers(s.NumCols, row, col) {
				s.Channel(gridstate.Paths)[row*s.NumCols+col]--
			}
		}
	}

	for _, c := range s.EvacuatingPaths[p] {
		m.clearEvacuation(c)
	}
	delete(s.EvacuatingPaths, p)
}

// countdown decrements the evacuation timestamp of every cell on path p,
// completing evacuation for any cell reaching 0 (spec §4.4 step B).
func (m *Manager) countdown(p int, cells []gridstate.Cell) {
	s := m.state
	remaining := make([]gridstate.Cell, 0, len(cells))
	for _, c := range cells {
		i := c.Row*s.NumCols + c.Col
		s.EvacuatingTimestamps[i]--
		if s.EvacuatingTimestamps[i] == 0 {
			s.Channel(gridstate.Evacuating)[i] = 0
			s.Channel(gridstate.Populated)[i] = 0
			delete(s.Populated, c)
			s.EvacuatingTimestamps[i] = gridstate.Infinity
			delete(m.cellToPath, c)
			s.FinishedEvacuating = append(s.FinishedEvacuating, c)
			continue
		}
		remaining = append(remaining, c)
	}

	if len(remaining) == 0 {
		delete(s.EvacuatingPaths, p)
	} else {
		s.EvacuatingPaths[p] = remaining
	}
}

// clearEvacuation resets a cell's evacuation bookkeeping to "not evacuating"
// without touching populated/finished state (used when its path is
// destroyed, not completed).
func (m *Manager) clearEvacuation(c gridstate.Cell) {
	s := m.state
	i := c.Row*s.NumCols + c.Col
	s.EvacuatingTimestamps[i] = gridstate.Infinity
	s.Channel(gridstate.Evacuating)[i] = 0
	delete(m.cellToPath, c)
}

// SetAction applies an agent action before a step begins (spec §4.4).
// Invalid, infeasible, or no-op actions are silent no-ops: SetAction never
// returns an error, matching the external agent contract (spec §7, §9).
func (m *Manager) SetAction(action int) {
	s := m.state
	if action < 0 || action >= len(s.ActionTable) {
		return // no-op id or unrecognized id
	}
	entry := s.ActionTable[action]

	if !s.Populated[entry.Cell] {
		return
	}
	if entry.PathIndex < 0 || entry.PathIndex >= len(s.PathRecords) || !s.PathRecords[entry.PathIndex].Live {
		return
	}
	i := entry.Cell.Row*s.NumCols + entry.Cell.Col
	if s.EvacuatingTimestamps[i] != gridstate.Infinity {
		return // already evacuating
	}

	s.EvacuatingPaths[entry.PathIndex] = append(s.EvacuatingPaths[entry.PathIndex], entry.Cell)
	s.Channel(gridstate.Evacuating)[i] = 1
	s.EvacuatingTimestamps[i] = s.EvacuationDuration
	m.cellToPath[entry.Cell] = entry.PathIndex
}
