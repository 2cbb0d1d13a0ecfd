// Package scene is the 2D drawing model shared by every front-end.
//
// A [Canvas] holds shapes ([Circle], [Arrow]) in display units with the
// origin at the viewport centre and y pointing up. Views implement
// [Renderable] and are composed by a [Driver], which runs one frame at a
// time and routes pointer drags to the view owning the grabbed handle.
//
// Front-ends (terminal, raylib, exporters) only read shapes; they never
// mutate simulation state directly.
package scene
