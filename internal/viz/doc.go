// Package viz draws rulial graphs in the terminal and records them as GIFs.
//
// The package implements an animated sweep viewer using the Bubble Tea
// framework:
//
//   - [SweepModel]: rebuilds the graph for step limits 0, 1, 2, ... and plays
//     the frames back
//   - [Canvas]: Braille-based pixel canvas for high-fidelity rendering
//   - [SpaceTime]: tape history of a single machine, one row per step
//   - Theme selection with 4 built-in color schemes
//
// # Key Bindings
//
//	Space       - Pause/Resume playback
//	Left/Right  - Step through built frames
//	T           - Cycle color themes
//	G           - Toggle GIF recording
//	?           - Show help overlay
//	Q           - Quit
//
// # Recording
//
// Frames shown while recording are written as a GIF animation when recording
// stops or the viewer exits.
package viz
