package dynamo

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"zero", State{}, true},
		{"normal", State{Theta: 1, ThetaDot: 2, PivotLength: 100}, true},
		{"with NaN", State{Theta: math.NaN()}, false},
		{"with +Inf", State{ThetaDot: math.Inf(1)}, false},
		{"with -Inf", State{ThetaDoubleDot: math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr bool
	}{
		{"defaults", DefaultParams(), false},
		{"negative damping", Params{Damping: -1, Gravity: 9.8, TimeStep: 0.1}, true},
		{"zero dt", Params{Damping: 0, Gravity: 9.8, TimeStep: 0}, true},
		{"nan gravity", Params{Damping: 0, Gravity: math.NaN(), TimeStep: 0.1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}
}

func TestParams_SetParam(t *testing.T) {
	p := DefaultParams()
	if err := p.SetParam("gravity", 9.81); err != nil {
		t.Fatalf("SetParam failed: %v", err)
	}
	if p.Gravity != 9.81 {
		t.Errorf("gravity = %f, want 9.81", p.Gravity)
	}
	if err := p.SetParam("mass", 1); err == nil {
		t.Error("expected error for unknown param")
	}
	if got := p.GetParams()["gravity"]; got != 9.81 {
		t.Errorf("GetParams()[gravity] = %f", got)
	}
}

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Frame: 3, State: State{PivotLength: 1}, Wrapped: ErrDivisionByZero}
	if !errors.Is(err, ErrDivisionByZero) {
		t.Error("SimulationError does not unwrap to its cause")
	}
}

func TestParallelFor(t *testing.T) {
	n := 1000
	out := make([]int, n)
	var calls int32
	ParallelFor(n, 10, func(start, end int) {
		atomic.AddInt32(&calls, 1)
		for i := start; i < end; i++ {
			out[i] = i * 2
		}
	})
	for i, v := range out {
		if v != i*2 {
			t.Fatalf("out[%d] = %d, want %d", i, v, i*2)
		}
	}
	if calls == 0 {
		t.Error("fn never called")
	}
}
