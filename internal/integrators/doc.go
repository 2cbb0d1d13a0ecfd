// Package integrators provides the fixed-step Euler schemes used by the
// pendulum: [Euler] evaluates the acceleration at the start of the step,
// [SemiImplicitEuler] after the angle update, which is the order of the live
// frame update.
package integrators
