package heron

import (
	"fmt"
	"math"
	"time"

	"github.com/ChristopherRabotin/ode"
	kitlog "github.com/go-kit/kit/log"
)

const (
	// StepSize is the default integration step.
	StepSize = 10 * time.Second
)

// Propagator is the boundary contract to a numerical orbit propagator: an
// integration method name, a dynamics model name, a time span in seconds, an
// initial Cartesian state and a tolerance in; timestamps and states out. The
// orbit core only supplies the initial state and consumes the final one.
type Propagator interface {
	Propagate(method, model string, tSpan [2]float64, y0 []float64, tol float64) (t []float64, y [][]float64, err error)
}

// RK4Propagator integrates the requested dynamics with a fixed-step
// Runge-Kutta 4. The tolerance argument is accepted for contract
// compatibility and ignored: the step is fixed.
type RK4Propagator struct {
	Body   CelestialObject
	Step   time.Duration
	logger kitlog.Logger
}

// NewRK4Propagator returns a propagator around the given body. A nil logger
// silences it.
func NewRK4Propagator(body CelestialObject, step time.Duration, logger kitlog.Logger) *RK4Propagator {
	if step <= 0 {
		step = StepSize
	}
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &RK4Propagator{Body: body, Step: step, logger: kitlog.With(logger, "subsys", "astro")}
}

// Propagate implements the Propagator contract. The only supported method is
// "RK4" and the only supported dynamics model is "twobody".
func (p *RK4Propagator) Propagate(method, model string, tSpan [2]float64, y0 []float64, tol float64) ([]float64, [][]float64, error) {
	if method != "RK4" {
		return nil, nil, fmt.Errorf("prop: unsupported integration method %q", method)
	}
	if model != "twobody" {
		return nil, nil, fmt.Errorf("prop: unsupported dynamics model %q", model)
	}
	if len(y0) != 6 {
		return nil, nil, fmt.Errorf("prop: initial state must have six components, got %d", len(y0))
	}
	if tSpan[1] <= tSpan[0] {
		return nil, nil, fmt.Errorf("prop: time span end %f not after start %f", tSpan[1], tSpan[0])
	}
	tb := &twoBody{μ: p.Body.μ, step: p.Step.Seconds(), elapsed: tSpan[0], end: tSpan[1], state: append([]float64(nil), y0...)}
	tb.record(tSpan[0], y0)
	p.logger.Log("level", "info", "status", "started", "duration(s)", tSpan[1]-tSpan[0], "step", p.Step)
	ode.NewRK4(tSpan[0], p.Step.Seconds(), tb).Solve() // Blocking.
	p.logger.Log("level", "info", "status", "finished", "steps", len(tb.ts))
	return tb.ts, tb.history, nil
}

// twoBody holds the integrator state for the restricted two-body problem.
// It implements ode.Integrable. The integrator does not hand a wall time to
// Stop or SetState, so the elapsed time is tracked here and advanced on each
// Stop call, one step ahead of the state the next SetState will deliver.
type twoBody struct {
	μ       float64
	step    float64
	elapsed float64
	end     float64
	state   []float64
	ts      []float64
	history [][]float64
}

func (tb *twoBody) record(t float64, s []float64) {
	tb.ts = append(tb.ts, t)
	tb.history = append(tb.history, append([]float64(nil), s[:6]...))
}

// GetState returns the state for the integrator.
func (tb *twoBody) GetState() []float64 {
	return append([]float64(nil), tb.state...)
}

// SetState stores the updated state.
func (tb *twoBody) SetState(t float64, s []float64) {
	copy(tb.state, s)
	tb.record(tb.elapsed, s)
}

// Stop implements the stop call of the integrator. It runs before each step,
// so the elapsed time is advanced here, like the clock bookkeeping in the
// integrator's other users.
func (tb *twoBody) Stop(t float64) bool {
	tb.elapsed += tb.step
	return tb.elapsed > tb.end
}

// Func is the integration function: point-mass gravity only.
func (tb *twoBody) Func(t float64, s []float64) (sDot []float64) {
	r := norm(s[:3])
	bodyAcc := -tb.μ / math.Pow(r, 3)
	return []float64{s[3], s[4], s[5], bodyAcc * s[0], bodyAcc * s[1], bodyAcc * s[2]}
}

// PropagateTLE advances a record by the given number of days and derives a
// new record from the final state, carrying the identification and drag
// fields over. The epoch day rolls into the next year past day 365.
func PropagateTLE(t TLE, days float64, prop Propagator) (TLE, error) {
	after, _, _, err := PropagateTLETrajectory(t, days, prop)
	return after, err
}

// PropagateTLETrajectory is PropagateTLE keeping the full trajectory: the
// derived record plus every timestamped state the propagator produced, for
// callers which export or plot the path rather than just its endpoint.
func PropagateTLETrajectory(t TLE, days float64, prop Propagator) (TLE, []float64, [][]float64, error) {
	R, V, err := t.CartesianState()
	if err != nil {
		return TLE{}, nil, nil, err
	}
	y0 := append(append([]float64(nil), R...), V...)
	ts, y, err := prop.Propagate("RK4", "twobody", [2]float64{0, 86400 * days}, y0, 1e-6)
	if err != nil {
		return TLE{}, nil, nil, err
	}
	final := y[len(y)-1]

	// The fixed step may not divide the requested span: the new epoch comes
	// from the timestamp of the final state, not from the request.
	year := t.EpochYear
	day := t.EpochDay + ts[len(ts)-1]/86400
	if day > 365 {
		year++
		day -= 365
	}
	after, err := TLEFromCartesianState(final[:3], final[3:6], t, year, day)
	if err != nil {
		return TLE{}, nil, nil, err
	}
	return after, ts, y, nil
}
