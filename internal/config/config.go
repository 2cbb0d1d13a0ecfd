package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/phasependulum/internal/dynamo"
	"github.com/san-kum/phasependulum/internal/field"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

const (
	DefaultLength = 100.0
	DefaultFPS    = 60
	DefaultWidth  = 600.0
	DefaultHeight = 600.0

	// PlaceDrag derives the initial state from a bob position, as a drag would.
	PlaceDrag = "drag"
	// PlaceAngle sets theta and theta-dot directly.
	PlaceAngle = "angle"
)

type Config struct {
	Params    ParamsConfig    `yaml:"params"`
	InitState InitStateConfig `yaml:"init_state"`
	Field     FieldConfig     `yaml:"field"`
	Display   DisplayConfig   `yaml:"display"`
	Controls  ControlsConfig  `yaml:"controls"`
}

type ParamsConfig struct {
	Damping  float64 `yaml:"damping"`
	Gravity  float64 `yaml:"gravity"`
	TimeStep float64 `yaml:"time_step"`
}

type InitStateConfig struct {
	Placement string  `yaml:"placement"`
	Length    float64 `yaml:"length"`
	DriftX    float64 `yaml:"drift_x"`
	Theta     float64 `yaml:"theta"`
	ThetaDot  float64 `yaml:"theta_dot"`
}

type FieldConfig struct {
	Spacing      float64 `yaml:"spacing"`
	Bounds       string  `yaml:"bounds"`
	Live         bool    `yaml:"live"`
	ArrowLength  float64 `yaml:"arrow_length"`
	DisplayScale float64 `yaml:"display_scale"`
	MarkerScale  float64 `yaml:"marker_scale"`
}

type DisplayConfig struct {
	Background     string  `yaml:"background"`
	Grid           bool    `yaml:"grid"`
	Numbers        bool    `yaml:"numbers"`
	FPS            int     `yaml:"fps"`
	PendulumWidth  float64 `yaml:"pendulum_width"`
	PendulumHeight float64 `yaml:"pendulum_height"`
	FieldWidth     float64 `yaml:"field_width"`
	FieldHeight    float64 `yaml:"field_height"`
}

type ControlsConfig struct {
	Enabled bool `yaml:"enabled"`
}

func DefaultConfig() *Config {
	p := dynamo.DefaultParams()
	f := field.DefaultOptions()
	return &Config{
		Params: ParamsConfig{
			Damping:  p.Damping,
			Gravity:  p.Gravity,
			TimeStep: p.TimeStep,
		},
		InitState: InitStateConfig{
			Placement: PlaceDrag,
			Length:    DefaultLength,
		},
		Field: FieldConfig{
			Spacing:      f.Spacing,
			Bounds:       f.Bounds.String(),
			ArrowLength:  f.ArrowLength,
			DisplayScale: f.DisplayScale,
			MarkerScale:  f.MarkerScale,
		},
		Display: DisplayConfig{
			Background:     "#000000",
			Grid:           true,
			FPS:            DefaultFPS,
			PendulumWidth:  DefaultWidth,
			PendulumHeight: DefaultHeight,
			FieldWidth:     DefaultWidth,
			FieldHeight:    DefaultHeight,
		},
		Controls: ControlsConfig{Enabled: true},
	}
}

// Load reads a YAML or INI file, chosen by extension, over the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini":
		file, err := ini.Load(path)
		if err != nil {
			return nil, err
		}
		loadINI(file, cfg)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func loadINI(file *ini.File, cfg *Config) {
	params := file.Section("params")
	cfg.Params = ParamsConfig{
		Damping:  params.Key("damping").MustFloat64(cfg.Params.Damping),
		Gravity:  params.Key("gravity").MustFloat64(cfg.Params.Gravity),
		TimeStep: params.Key("time_step").MustFloat64(cfg.Params.TimeStep),
	}

	st := file.Section("init_state")
	cfg.InitState = InitStateConfig{
		Placement: st.Key("placement").MustString(cfg.InitState.Placement),
		Length:    st.Key("length").MustFloat64(cfg.InitState.Length),
		DriftX:    st.Key("drift_x").MustFloat64(cfg.InitState.DriftX),
		Theta:     st.Key("theta").MustFloat64(cfg.InitState.Theta),
		ThetaDot:  st.Key("theta_dot").MustFloat64(cfg.InitState.ThetaDot),
	}

	fld := file.Section("field")
	cfg.Field = FieldConfig{
		Spacing:      fld.Key("spacing").MustFloat64(cfg.Field.Spacing),
		Bounds:       fld.Key("bounds").MustString(cfg.Field.Bounds),
		Live:         fld.Key("live").MustBool(cfg.Field.Live),
		ArrowLength:  fld.Key("arrow_length").MustFloat64(cfg.Field.ArrowLength),
		DisplayScale: fld.Key("display_scale").MustFloat64(cfg.Field.DisplayScale),
		MarkerScale:  fld.Key("marker_scale").MustFloat64(cfg.Field.MarkerScale),
	}

	disp := file.Section("display")
	cfg.Display = DisplayConfig{
		Background:     disp.Key("background").MustString(cfg.Display.Background),
		Grid:           disp.Key("grid").MustBool(cfg.Display.Grid),
		Numbers:        disp.Key("numbers").MustBool(cfg.Display.Numbers),
		FPS:            disp.Key("fps").MustInt(cfg.Display.FPS),
		PendulumWidth:  disp.Key("pendulum_width").MustFloat64(cfg.Display.PendulumWidth),
		PendulumHeight: disp.Key("pendulum_height").MustFloat64(cfg.Display.PendulumHeight),
		FieldWidth:     disp.Key("field_width").MustFloat64(cfg.Display.FieldWidth),
		FieldHeight:    disp.Key("field_height").MustFloat64(cfg.Display.FieldHeight),
	}

	cfg.Controls.Enabled = file.Section("controls").Key("enabled").MustBool(cfg.Controls.Enabled)
}

// Save writes cfg as YAML, or INI when path ends in .ini.
func Save(path string, cfg *Config) error {
	if strings.ToLower(filepath.Ext(path)) == ".ini" {
		return saveINI(path, cfg)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func saveINI(path string, cfg *Config) error {
	file := ini.Empty()
	sections := []struct {
		name string
		keys [][2]string
	}{
		{"params", [][2]string{
			{"damping", ftoa(cfg.Params.Damping)},
			{"gravity", ftoa(cfg.Params.Gravity)},
			{"time_step", ftoa(cfg.Params.TimeStep)},
		}},
		{"init_state", [][2]string{
			{"placement", cfg.InitState.Placement},
			{"length", ftoa(cfg.InitState.Length)},
			{"drift_x", ftoa(cfg.InitState.DriftX)},
			{"theta", ftoa(cfg.InitState.Theta)},
			{"theta_dot", ftoa(cfg.InitState.ThetaDot)},
		}},
		{"field", [][2]string{
			{"spacing", ftoa(cfg.Field.Spacing)},
			{"bounds", cfg.Field.Bounds},
			{"live", fmt.Sprint(cfg.Field.Live)},
			{"arrow_length", ftoa(cfg.Field.ArrowLength)},
			{"display_scale", ftoa(cfg.Field.DisplayScale)},
			{"marker_scale", ftoa(cfg.Field.MarkerScale)},
		}},
		{"display", [][2]string{
			{"background", cfg.Display.Background},
			{"grid", fmt.Sprint(cfg.Display.Grid)},
			{"numbers", fmt.Sprint(cfg.Display.Numbers)},
			{"fps", fmt.Sprint(cfg.Display.FPS)},
			{"pendulum_width", ftoa(cfg.Display.PendulumWidth)},
			{"pendulum_height", ftoa(cfg.Display.PendulumHeight)},
			{"field_width", ftoa(cfg.Display.FieldWidth)},
			{"field_height", ftoa(cfg.Display.FieldHeight)},
		}},
		{"controls", [][2]string{
			{"enabled", fmt.Sprint(cfg.Controls.Enabled)},
		}},
	}
	for _, s := range sections {
		sec, err := file.NewSection(s.name)
		if err != nil {
			return err
		}
		for _, kv := range s.keys {
			if _, err := sec.NewKey(kv[0], kv[1]); err != nil {
				return err
			}
		}
	}
	return file.SaveTo(path)
}

func ftoa(v float64) string {
	return fmt.Sprintf("%g", v)
}

func (c *Config) Validate() error {
	if err := c.DynamoParams().Validate(); err != nil {
		return err
	}
	switch c.InitState.Placement {
	case PlaceDrag:
		if !(c.InitState.Length >= dynamo.MinPivotLength) {
			return fmt.Errorf("%w: init_state.length must be at least %g, got %f",
				dynamo.ErrParameterBounds, dynamo.MinPivotLength, c.InitState.Length)
		}
	case PlaceAngle:
		if !(c.InitState.Length >= dynamo.MinPivotLength) {
			return fmt.Errorf("%w: init_state.length must be at least %g, got %f",
				dynamo.ErrParameterBounds, dynamo.MinPivotLength, c.InitState.Length)
		}
		if math.IsNaN(c.InitState.Theta) || math.IsNaN(c.InitState.ThetaDot) {
			return fmt.Errorf("%w: init_state angles must be numbers", dynamo.ErrParameterBounds)
		}
	default:
		return fmt.Errorf("%w: unknown placement %q", dynamo.ErrParameterBounds, c.InitState.Placement)
	}
	if _, err := c.FieldOptions(); err != nil {
		return err
	}
	if !(c.Field.Spacing > 0) || !(c.Field.ArrowLength > 0) {
		return fmt.Errorf("%w: field spacing and arrow_length must be positive", dynamo.ErrParameterBounds)
	}
	if c.Display.FPS <= 0 {
		return fmt.Errorf("%w: display.fps must be positive, got %d", dynamo.ErrParameterBounds, c.Display.FPS)
	}
	for _, v := range []float64{c.Display.PendulumWidth, c.Display.PendulumHeight, c.Display.FieldWidth, c.Display.FieldHeight} {
		if !(v > 0) {
			return fmt.Errorf("%w: viewport sizes must be positive", dynamo.ErrParameterBounds)
		}
	}
	return nil
}

func (c *Config) DynamoParams() dynamo.Params {
	return dynamo.Params{
		Damping:  c.Params.Damping,
		Gravity:  c.Params.Gravity,
		TimeStep: c.Params.TimeStep,
	}
}

func (c *Config) FieldOptions() (field.Options, error) {
	bounds, err := field.ParseBounds(c.Field.Bounds)
	if err != nil {
		return field.Options{}, err
	}
	return field.Options{
		Spacing:      c.Field.Spacing,
		Bounds:       bounds,
		ArrowLength:  c.Field.ArrowLength,
		DisplayScale: c.Field.DisplayScale,
		MarkerScale:  c.Field.MarkerScale,
		Live:         c.Field.Live,
	}, nil
}
