package experiment

// Result is everything a run produced. Inputs[i] is the input that led to
// Frames[i].
type Result struct {
	Model   string             `json:"model"`
	Mode    string             `json:"mode"`
	Dt      float64            `json:"dt"`
	Initial Frame              `json:"initial"`
	Frames  []Frame            `json:"frames"`
	Inputs  [][]float64        `json:"inputs"`
	Metrics map[string]float64 `json:"metrics"`
}

// Series returns component i of every frame, with 0 where a frame has
// fewer components.
func (r *Result) Series(i int) []float64 {
	out := make([]float64, len(r.Frames))
	for k, f := range r.Frames {
		if i < len(f.Values) {
			out[k] = f.Values[i]
		}
	}
	return out
}

func (r *Result) Times() []float64 {
	out := make([]float64, len(r.Frames))
	for k, f := range r.Frames {
		out[k] = f.Time
	}
	return out
}

// Dim is the number of state components in the first frame.
func (r *Result) Dim() int {
	if len(r.Frames) == 0 {
		return len(r.Initial.Values)
	}
	return len(r.Frames[0].Values)
}

func (r *Result) Last() (Frame, bool) {
	if len(r.Frames) == 0 {
		return Frame{}, false
	}
	return r.Frames[len(r.Frames)-1], true
}
