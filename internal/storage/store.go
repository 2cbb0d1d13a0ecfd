package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/phasependulum/internal/dynamo"
)

// Trace is a recorded run: one state per frame and the simulated time
// at which it was reached.
type Trace struct {
	Times   []float64
	States  []dynamo.State
	Metrics map[string]float64
}

func NewTrace() *Trace {
	return &Trace{Metrics: make(map[string]float64)}
}

// Append records s at time t.
func (tr *Trace) Append(t float64, s dynamo.State) {
	tr.Times = append(tr.Times, t)
	tr.States = append(tr.States, s)
}

// Thetas returns the angle series.
func (tr *Trace) Thetas() []float64 {
	out := make([]float64, len(tr.States))
	for i, s := range tr.States {
		out[i] = s.Theta
	}
	return out
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Params    dynamo.Params      `json:"params"`
	Frames    int                `json:"frames"`
	Metrics   map[string]float64 `json:"metrics"`
}

var csvHeader = []string{"time", "theta", "theta_dot", "theta_ddot", "length", "drift_x"}

// Save writes metadata.json and states.csv under a new run directory
// and returns the run ID.
func (s *Store) Save(name string, p dynamo.Params, tr *Trace) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Name:      name,
		Timestamp: now,
		Params:    p,
		Frames:    len(tr.States),
		Metrics:   tr.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, tr); err != nil {
		return "", err
	}
	return runID, nil
}

// WriteCSV writes one row per recorded frame.
func WriteCSV(w io.Writer, tr *Trace) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i, st := range tr.States {
		row := []string{strconv.FormatFloat(tr.Times[i], 'f', 6, 64)}
		for _, val := range []float64{st.Theta, st.ThetaDot, st.ThetaDoubleDot, st.PivotLength, st.DriftX} {
			row = append(row, strconv.FormatFloat(val, 'g', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTrace reads a run's states back. Rows that fail to parse are
// skipped.
func (s *Store) LoadTrace(runID string) (*Trace, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	tr := NewTrace()
	if meta, err := s.Load(runID); err == nil && meta.Metrics != nil {
		tr.Metrics = meta.Metrics
	}
	for i := 1; i < len(records); i++ {
		vals, ok := parseRow(records[i])
		if !ok {
			continue
		}
		tr.Append(vals[0], dynamo.State{
			Theta:          vals[1],
			ThetaDot:       vals[2],
			ThetaDoubleDot: vals[3],
			PivotLength:    vals[4],
			DriftX:         vals[5],
		})
	}
	return tr, nil
}

func parseRow(record []string) ([]float64, bool) {
	if len(record) != len(csvHeader) {
		return nil, false
	}
	vals := make([]float64, len(record))
	for j, field := range record {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, false
		}
		vals[j] = v
	}
	return vals, true
}
