// Package dynamo provides the shared primitives of the pendulum simulation.
//
// The package defines the data every other package passes around:
//
//   - [State]: the single mutable simulation state (theta, theta-dot,
//     theta-double-dot, pivot length)
//   - [Params]: process-wide physical parameters tuned by the controls
//   - [Acceleration]: the signature steppers integrate
//   - domain errors such as [ErrDivisionByZero] and [ErrOutOfRange]
//
// # Example
//
//	params := dynamo.DefaultParams()
//	st := &dynamo.State{PivotLength: 100}
//	acc := physics.Acceleration(st.PivotLength, &params)
//	next, _ := integrators.NewSemiImplicitEuler().Step(acc, *st, params.TimeStep)
//
// # Thread Safety
//
// State and Params are NOT thread-safe. They are written from a single frame
// loop; see [ParallelFor] for the one place work is fanned out.
package dynamo
