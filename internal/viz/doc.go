// Package viz renders particle clouds and field maps in the terminal.
//
//   - [Canvas]: braille sub-pixel canvas (2x4 dots per cell)
//   - [Scatter] and [NodeMap]: static renderings of a state and a sampled field
//   - [Model]: Bubble Tea program that steps a simulator once per tick
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset to the initial scatter
//	S     - Single step while paused
//	O     - Toggle node ring overlay
//	Q     - Quit
package viz
