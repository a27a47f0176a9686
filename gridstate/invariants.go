package gridstate

import "fmt"

// CheckInvariants verifies the spec §3/§8 invariants hold. It is used by
// tests after every step; it is not called on the hot path.
func (s *State) CheckInvariants() error {
	for row := 0; row < s.NumRows; row++ {
		for col := 0; col < s.NumCols; col++ {
			fire := s.At(Fire, row, col)
			fuel := s.At(Fuel, row, col)
			populated := s.At(Populated, row, col)
			evacuating := s.At(Evacuating, row, col)

			if fuel < 0 {
				return fmt.Errorf("fuel(%d,%d)=%v < 0", row, col, fuel)
			}
			if fire != 0 && fire != 1 {
				return fmt.Errorf("fire(%d,%d)=%v not in {0,1}", row, col, fire)
			}
			if populated != 0 && populated != 1 {
				return fmt.Errorf("populated(%d,%d)=%v not in {0,1}", row, col, populated)
			}
			if evacuating != 0 && evacuating != 1 {
				return fmt.Errorf("evacuating(%d,%d)=%v not in {0,1}", row, col, evacuating)
			}

			wantPaths := 0.0
			for _, p := range s.PathRecords {
				if p.Live && p.Covers(s.NumCols, row, col) {
					wantPaths++
				}
			}
			if got := s.At(Paths, row, col); got != wantPaths {
				return fmt.Errorf("paths(%d,%d)=%v want %v", row, col, got, wantPaths)
			}

			ts := s.EvacuatingTimestamps[idx(s.NumCols, row, col)]
			c := Cell{Row: row, Col: col}
			if evacuating == 1 {
				if populated != 1 {
					return fmt.Errorf("evacuating(%d,%d)=1 but populated=0", row, col)
				}
				if ts <= 0 || ts == Infinity {
					return fmt.Errorf("evacuating(%d,%d)=1 but timestamp=%v", row, col, ts)
				}
				count := 0
				for _, cells := range s.EvacuatingPaths {
					for _, ec := range cells {
						if ec == c {
							count++
						}
					}
				}
				if count != 1 {
					return fmt.Errorf("evacuating(%d,%d)=1 appears in %d evacuating_paths lists, want 1", row, col, count)
				}
			}
			if populated == 0 {
				if evacuating != 0 {
					return fmt.Errorf("populated(%d,%d)=0 but evacuating=%v", row, col, evacuating)
				}
				if ts != Infinity {
					return fmt.Errorf("populated(%d,%d)=0 but timestamp=%v", row, col, ts)
				}
			}
		}
	}
	return nil
}
