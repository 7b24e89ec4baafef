// Package ui renders the now-playing kiosk in a terminal.
//
// # Architecture Overview
//
// The reconciliation pipeline never touches the terminal directly. It writes
// into a Bridge, a thread-safe surface that implements both controller.View
// and artwork.Surface. The Bubble Tea program reads the Bridge back as a
// Frame whenever the Bridge signals a change, and on every tick.
//
// When stdout is not a terminal, LogView replaces the Bridge and the program.
// It logs every surface write instead of drawing it.
//
// # Package Structure
//
//   - app.go: Bubble Tea Model, layout and the Run function
//   - bridge.go: Frame and the thread-safe Bridge surface
//   - keys.go: key bindings
//   - list.go: width-aware track list rows
//   - thumbnail.go: half-block artwork thumbnail with crossfade
//   - theme.go: static palettes and the artwork-derived theme
//   - logview.go: headless surface
//
// # Screen
//
//   - Header: context, device, volume and the reconnecting notice
//   - Body: artwork thumbnail, track info and the visible track list
//   - Footer: progress bar and the optional time label
//   - Idle: centered clock when fullscreen-clock is enabled
//
// # Key Bindings
//
//   - space/p: Play/pause
//   - n/→, b/←: Next/previous track
//   - tab: Cycle preference preset
//   - l, t, c, H: Toggle track list, timestamps, idle clock, HD artwork
//   - T: Cycle theme
//   - h/?: Help
//   - q or Ctrl+C: Exit
package ui
