package automation

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/phasependulum/internal/config"
	"github.com/san-kum/phasependulum/internal/dynamo"
	"github.com/san-kum/phasependulum/internal/pendulum"
	"github.com/san-kum/phasependulum/internal/session"
)

const flingScenario = `name: fling
description: grab the bob, pull it sideways and let go
steps:
  - frames: 5
  - press: [0, -100]
    move:
      - [30, -95]
      - [47.9425538604203, -87.7582561890373]
    frames: 3
  - release: true
    set:
      gravity: 1000
      damping: 0.5
    live: true
    frames: 20
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunScenario(t *testing.T) {
	scenario, err := LoadScenario(writeScenario(t, flingScenario))
	if err != nil {
		t.Fatal(err)
	}
	if scenario.Name != "fling" || len(scenario.Steps) != 3 {
		t.Fatalf("scenario = %+v", scenario)
	}

	sess, err := session.Setup(config.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if err := RunScenario(context.Background(), scenario, sess); err != nil {
		t.Fatal(err)
	}

	if sess.Frames() != 28 {
		t.Errorf("frames = %d, want 28", sess.Frames())
	}
	if sess.Pendulum.Mode() != pendulum.Free {
		t.Errorf("mode = %v, want free after release", sess.Pendulum.Mode())
	}
	if gMax := sess.Panel.Find("gravity").Max; math.Abs(sess.Params.Gravity-gMax) > 1e-9 {
		t.Errorf("gravity = %v, want clamped to %v", sess.Params.Gravity, gMax)
	}
	if !sess.Field.Live() || sess.Field.Stale() {
		t.Error("expected live field re-sampled after the change")
	}
	if sess.State.Theta == 0 {
		t.Error("pendulum never moved")
	}
}

func TestRunScenarioMissedPress(t *testing.T) {
	sess, err := session.Setup(config.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	scenario := &Scenario{Steps: []ScenarioStep{{Press: &[2]float64{250, 250}}}}
	if err := RunScenario(context.Background(), scenario, sess); err == nil {
		t.Error("expected error for a press that misses the bob")
	}
}

func TestLoadScenarioInvalid(t *testing.T) {
	path := writeScenario(t, "steps:\n  - frames: -3\n")
	if _, err := LoadScenario(path); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}

func TestRunSweep(t *testing.T) {
	base := config.GetPreset("swing")
	sweep := &ParameterSweep{ParamName: "damping", ParamMin: 0, ParamMax: 1, NumSteps: 3, Frames: 200}

	results, err := RunSweep(context.Background(), sweep, base)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	if results[1].ParamValue != 0.5 {
		t.Errorf("middle value = %v, want 0.5", results[1].ParamValue)
	}
	if !(results[2].MinEnergy < results[1].MinEnergy && results[1].MinEnergy < results[0].MinEnergy) {
		t.Errorf("energy should fall with damping: %+v", results)
	}
	if !base.Controls.Enabled {
		t.Error("sweep modified the base config")
	}

	if _, err := RunSweep(context.Background(), &ParameterSweep{ParamName: "mass", NumSteps: 1}, base); err == nil {
		t.Error("expected error for unknown parameter")
	}
}
