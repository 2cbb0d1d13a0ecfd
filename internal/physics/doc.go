// Package physics implements the damped pendulum model.
//
// The model is a single second-order ODE,
//
//	θ̈ = -b·θ̇ - (g/L)·sin θ
//
// exposed as plain functions ([AngularAcceleration], [IntegrateThetaDot])
// plus helpers converting between angles and the bob's Cartesian position
// ([BobPosition], [AngleFromPosition]).
//
// # Energy
//
// [Energy] returns mechanical energy per unit mass. The frame stepper does
// not conserve it exactly; drift from the Euler scheme is expected:
//
//	e0 := physics.Energy(st.Theta, st.ThetaDot, st.PivotLength, p.Gravity)
package physics
