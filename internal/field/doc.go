// Package field samples the pendulum's phase-space vector field on a
// regular display grid and tracks the live state with a marker.
//
// Display coordinates map to phase coordinates by theta = x·dt and
// theta-dot = y·dt. Each grid arrow points along (θ̇, θ̈)·DisplayScale,
// drawn at a fixed length and coloured by its magnitude.
package field
