// Package export writes run results as CSV, JSON or SVG. It only writes
// to an io.Writer; where the bytes go is up to the caller.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/stepsim/internal/config"
	"github.com/san-kum/stepsim/internal/experiment"
)

type Data struct {
	Model      string             `json:"model"`
	Integrator string             `json:"integrator"`
	Controller string             `json:"controller"`
	Mode       string             `json:"mode"`
	Dt         float64            `json:"dt"`
	Seed       int64              `json:"seed"`
	Steps      int                `json:"steps"`
	Times      []float64          `json:"times"`
	States     [][]float64        `json:"states"`
	Inputs     [][]float64        `json:"inputs"`
	Metrics    map[string]float64 `json:"metrics"`
}

func NewData(cfg *config.Config, res *experiment.Result) Data {
	states := make([][]float64, len(res.Frames))
	for i, f := range res.Frames {
		states[i] = f.Values
	}
	return Data{
		Model:      res.Model,
		Integrator: cfg.Integrator,
		Controller: cfg.Controller,
		Mode:       res.Mode,
		Dt:         res.Dt,
		Seed:       cfg.Seed,
		Steps:      len(res.Frames),
		Times:      res.Times(),
		States:     states,
		Inputs:     res.Inputs,
		Metrics:    res.Metrics,
	}
}

func WriteJSON(w io.Writer, cfg *config.Config, res *experiment.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewData(cfg, res))
}

// WriteCSV writes one row per frame: time, x0..xn, u0..um. Missing inputs
// are written as 0.
func WriteCSV(w io.Writer, res *experiment.Result) error {
	cw := csv.NewWriter(w)

	numStates := res.Dim()
	numInputs := 0
	for _, u := range res.Inputs {
		numInputs = max(numInputs, len(u))
	}

	header := []string{"time"}
	for i := 0; i < numStates; i++ {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	for i := 0; i < numInputs; i++ {
		header = append(header, fmt.Sprintf("u%d", i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, 0, len(header))
	for k, f := range res.Frames {
		row = append(row[:0], formatFloat(f.Time))
		for i := 0; i < numStates; i++ {
			v := 0.0
			if i < len(f.Values) {
				v = f.Values[i]
			}
			row = append(row, formatFloat(v))
		}
		for i := 0; i < numInputs; i++ {
			v := 0.0
			if k < len(res.Inputs) && i < len(res.Inputs[k]) {
				v = res.Inputs[k][i]
			}
			row = append(row, formatFloat(v))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
