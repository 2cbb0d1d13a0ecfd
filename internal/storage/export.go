package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/phasependulum/internal/dynamo"
)

type ExportData struct {
	Name    string             `json:"name"`
	Params  dynamo.Params      `json:"params"`
	Steps   int                `json:"steps"`
	Times   []float64          `json:"times"`
	States  [][]float64        `json:"states"`
	Metrics map[string]float64 `json:"metrics"`
}

// ExportJSON writes tr with states flattened to
// [theta, theta_dot, theta_ddot, length, drift_x].
func ExportJSON(w io.Writer, name string, p dynamo.Params, tr *Trace) error {
	data := ExportData{
		Name:    name,
		Params:  p,
		Steps:   len(tr.Times),
		Times:   tr.Times,
		States:  make([][]float64, len(tr.States)),
		Metrics: tr.Metrics,
	}

	for i, s := range tr.States {
		data.States[i] = []float64{s.Theta, s.ThetaDot, s.ThetaDoubleDot, s.PivotLength, s.DriftX}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
