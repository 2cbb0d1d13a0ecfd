// Package viz is the terminal front-end: a Bubble Tea program that draws
// the pendulum and its phase field side by side on braille canvases.
//
// Each pane is rasterized from a scene.Canvas, with one colour per
// terminal cell. Mouse cells are mapped back to display units, so the
// bob can be dragged with the left button and the field panned.
//
// # Key Bindings
//
//	Space  - Pause/Resume
//	.      - Step one frame while paused
//	Tab/↑↓ - Select slider
//	←/→    - Adjust slider
//	F      - Toggle live field resampling
//	C      - Recentre the field view
//	R      - Reset to the initial placement
//	T      - Cycle color themes
//	G      - Toggle GIF recording
//	?      - Show help
package viz
