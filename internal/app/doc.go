// Package app provides the orchestration layer for the marquee kiosk.
//
// # Overview
//
// This package wires together configuration, the transport, the
// reconciliation controller and the surface. It is the composition root
// where all dependencies are initialized and connected.
//
// # Sessions
//
// Everything stateful lives in a session: the state store, the preference
// store, the artwork pipeline, the track list reconciler, the progress
// extrapolator, the controller and the transport. Run builds a session,
// runs it under an errgroup, and builds a fresh one whenever the controller
// asks for a hard reload (backend redeployed, or a "reload" toggle entry).
//
//	┌──────────────┐
//	│   Run()      │ lock, backend client, TUI or headless
//	└──────┬───────┘
//	       │  loop
//	       ▼
//	┌──────────────────────────────────────────┐
//	│ runSession()                             │
//	│  ├─> transport.Run()   poll or push      │
//	│  │     └─> controller.Submit()           │
//	│  ├─> extrapolator.Run() progress ticks   │
//	│  ├─> prefs.Watch()     hot reload        │
//	│  └─> ui.Run()          unless headless   │
//	└──────────────────────────────────────────┘
//	       │
//	       ├─ ErrReload  -> next session
//	       ├─ ErrQuit    -> return nil
//	       └─ ctx done   -> return nil
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Another instance holds the lock
//   - Backend client initialization failure
//   - Any component error other than a reload or a quit
//
// Recoverable errors stay inside their component: transport failures retry
// with backoff, render failures keep the previous background, and a broken
// preference file degrades to defaults.
package app
