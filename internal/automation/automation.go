package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/san-kum/phasependulum/internal/config"
	"github.com/san-kum/phasependulum/internal/dynamo"
	"github.com/san-kum/phasependulum/internal/physics"
	"github.com/san-kum/phasependulum/internal/scene"
	"github.com/san-kum/phasependulum/internal/session"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted interaction with a running session
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep performs its actions in field order: set, live, press,
// move, release, then frames.
type ScenarioStep struct {
	Set     map[string]float64 `yaml:"set"`
	Live    *bool              `yaml:"live"`
	Press   *[2]float64        `yaml:"press"`
	Move    [][2]float64       `yaml:"move"`
	Release bool               `yaml:"release"`
	Frames  int                `yaml:"frames"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}

	return &scenario, nil
}

func (s *Scenario) Validate() error {
	for i, step := range s.Steps {
		if step.Frames < 0 {
			return fmt.Errorf("%w: step %d: frames must be non-negative", dynamo.ErrParameterBounds, i+1)
		}
	}
	return nil
}

// RunScenario drives sess through every step. Out-of-range slider values
// are clamped and logged; a press that misses the bob fails the step.
func RunScenario(ctx context.Context, scenario *Scenario, sess *session.Session) error {
	for i, step := range scenario.Steps {
		log.WithFields(log.Fields{
			"scenario": scenario.Name,
			"step":     i + 1,
			"of":       len(scenario.Steps),
		}).Debug("running step")

		keys := make([]string, 0, len(step.Set))
		for k := range step.Set {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := sess.SetParam(k, step.Set[k]); err != nil {
				if !isOutOfRange(err) {
					return fmt.Errorf("step %d: %w", i+1, err)
				}
				log.WithError(err).Warn("slider value clamped")
			}
		}

		if step.Live != nil {
			sess.Field.SetLive(*step.Live)
		}

		if step.Press != nil {
			if !sess.Press(scene.Vec{step.Press[0], step.Press[1]}) {
				return fmt.Errorf("step %d: press at %v missed the bob", i+1, *step.Press)
			}
		}
		last := sess.Pendulum.Bob.Position
		for _, m := range step.Move {
			last = scene.Vec{m[0], m[1]}
			sess.Move(last)
		}
		if step.Release {
			sess.Release(last)
		}

		if err := sess.Run(ctx, step.Frames); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func isOutOfRange(err error) bool {
	return err != nil && errors.Is(err, dynamo.ErrOutOfRange)
}

// ParameterSweep runs one headless session per parameter value
type ParameterSweep struct {
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Frames    int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue float64
	FinalState dynamo.State
	MaxEnergy  float64
	MinEnergy  float64
}

// RunSweep executes a parameter sweep. Controls are bypassed so the swept
// value is not clamped to slider ranges.
func RunSweep(ctx context.Context, sweep *ParameterSweep, base *config.Config) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("%w: sweep needs at least one step", dynamo.ErrParameterBounds)
	}
	if _, ok := base.DynamoParams().GetParams()[sweep.ParamName]; !ok {
		return nil, fmt.Errorf("%w: unknown param %q", dynamo.ErrParameterBounds, sweep.ParamName)
	}
	results := make([]SweepResult, 0, sweep.NumSteps)

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg := *base
		cfg.Controls.Enabled = false
		params := cfg.DynamoParams()
		if err := params.SetParam(sweep.ParamName, paramVal); err != nil {
			return nil, err
		}
		cfg.Params = config.ParamsConfig{Damping: params.Damping, Gravity: params.Gravity, TimeStep: params.TimeStep}

		sess, err := session.Setup(&cfg)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}

		minE, maxE := math.Inf(1), math.Inf(-1)
		sess.Observe(func(frame int, x dynamo.State) {
			e := physics.Energy(x.Theta, x.ThetaDot, x.PivotLength, sess.Params.Gravity)
			minE = math.Min(minE, e)
			maxE = math.Max(maxE, e)
		})
		if err := sess.Run(ctx, sweep.Frames); err != nil {
			return nil, err
		}
		if sweep.Frames == 0 {
			minE, maxE = sess.Energy(), sess.Energy()
		}

		results = append(results, SweepResult{
			ParamValue: paramVal,
			FinalState: *sess.State,
			MaxEnergy:  maxE,
			MinEnergy:  minE,
		})

		log.WithFields(log.Fields{
			"param": sweep.ParamName,
			"value": paramVal,
			"step":  i + 1,
		}).Debug("sweep point done")
	}

	return results, nil
}
