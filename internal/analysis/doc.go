// Package analysis turns pendulum trajectories into summaries.
//
// The package includes:
//
//   - [GeneratePhasePortrait]: the (θ, θ̇) trajectory from a starting state
//   - [TurningPoints]: the swing extremes, where θ̇ changes sign
//   - [DominantPeriod]: the oscillation period from a power spectrum
//
// # Oscillation Period
//
// For small swings the period approaches 2π·sqrt(L/g):
//
//	portrait, _ := analysis.GeneratePhasePortrait(x0, params, 4096)
//	period, _ := analysis.DominantPeriod(portrait.Thetas(), params.TimeStep)
package analysis
