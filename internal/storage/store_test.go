package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/phasependulum/internal/dynamo"
)

func sampleTrace() *Trace {
	tr := NewTrace()
	tr.Append(0, dynamo.State{Theta: 1.0, PivotLength: 100})
	tr.Append(0.1, dynamo.State{Theta: 0.9, ThetaDot: -1, ThetaDoubleDot: -0.25, PivotLength: 100, DriftX: 3})
	tr.Metrics["energy_drift"] = 0.02
	return tr
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("swing", dynamo.DefaultParams(), sampleTrace())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Name != "swing" {
		t.Errorf("expected name 'swing', got '%s'", meta.Name)
	}
	if meta.Frames != 2 {
		t.Errorf("expected 2 frames, got %d", meta.Frames)
	}
	if meta.Params != dynamo.DefaultParams() {
		t.Errorf("params = %+v", meta.Params)
	}
	if meta.Metrics["energy_drift"] != 0.02 {
		t.Errorf("expected drift 0.02, got %f", meta.Metrics["energy_drift"])
	}

	tr, err := st.LoadTrace(runID)
	if err != nil {
		t.Fatalf("load trace failed: %v", err)
	}

	if len(tr.States) != 2 || len(tr.Times) != 2 {
		t.Fatalf("expected 2 states, got %d", len(tr.States))
	}
	want := sampleTrace().States[1]
	if tr.States[1] != want {
		t.Errorf("state 1 = %+v, want %+v", tr.States[1], want)
	}
	if tr.Times[1] != 0.1 {
		t.Errorf("time 1 = %v", tr.Times[1])
	}
	if got := tr.Thetas(); got[0] != 1.0 || got[1] != 0.9 {
		t.Errorf("thetas = %v", got)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	for _, name := range []string{"rest", "spin"} {
		if _, err := st.Save(name, dynamo.DefaultParams(), sampleTrace()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(tmpDir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Name != "rest" || runs[1].Name != "spin" {
		t.Errorf("runs out of order: %s, %s", runs[0].Name, runs[1].Name)
	}
}

func TestListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "absent")).List()
	if err != nil || len(runs) != 0 {
		t.Errorf("List on a missing dir = %v, %v", runs, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("rest", dynamo.DefaultParams(), NewTrace())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{"metadata.json", "states.csv"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}

	tr, err := st.LoadTrace(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(tr.States) != 0 {
		t.Errorf("empty run loaded %d states", len(tr.States))
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleTrace()); err != nil {
		t.Fatal(err)
	}
	want := "time,theta,theta_dot,theta_ddot,length,drift_x\n" +
		"0.000000,1,0,0,100,0\n" +
		"0.100000,0.9,-1,-0.25,100,3\n"
	if buf.String() != want {
		t.Errorf("csv =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSON(&buf, "swing", dynamo.DefaultParams(), sampleTrace()); err != nil {
		t.Fatal(err)
	}

	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Steps != 2 || len(got.States) != 2 {
		t.Fatalf("steps = %d, states = %d", got.Steps, len(got.States))
	}
	if s := got.States[1]; s[0] != 0.9 || s[4] != 3 {
		t.Errorf("state 1 = %v", s)
	}
}
