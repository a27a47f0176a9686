package gridstate

// Observation is the read-only view exposed to external collaborators: a copy
// of the five channels with Paths clipped to {0,1} (spec §4.6, §8 "Observation
// clipping" law).
type Observation struct {
	NumRows, NumCols int
	Fire             []float64 `json:"fire"`
	Fuel             []float64 `json:"fuel"`
	Populated        []float64 `json:"populated"`
	Evacuating       []float64 `json:"evacuating"`
	Paths            []float64 `json:"paths"`
}

// Observe returns a defensive copy of the current state, with Paths clipped
// elementwise into {0,1}.
func (s *State) Observe() Observation {
	clipPaths := make([]float64, len(s.channels[Paths]))
	for i, v := range s.channels[Paths] {
		if v > 1 {
			clipPaths[i] = 1
		} else {
			clipPaths[i] = v
		}
	}
	return Observation{
		NumRows:    s.NumRows,
		NumCols:    s.NumCols,
		Fire:       append([]float64(nil), s.channels[Fire]...),
		Fuel:       append([]float64(nil), s.channels[Fuel]...),
		Populated:  append([]float64(nil), s.channels[Populated]...),
		Evacuating: append([]float64(nil), s.channels[Evacuating]...),
		Paths:      clipPaths,
	}
}
