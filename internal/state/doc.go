// Package state holds the kiosk's single committed player state.
//
// # Overview
//
// The Store is the coordination point between the sync controller, which is
// the only writer, and everything that reads the committed state: the UI
// refresh loop, the transports deciding between full and partial fetches,
// and the CLI.
//
//	Writer (controller):           Readers (UI, transport):
//	┌────────────────────┐        ┌────────────────────┐
//	│ reconcile stages   │        │                    │
//	│        ↓           │        │                    │
//	│ store.Commit()     │───────→│ store.Current()    │
//	└────────────────────┘ (mutex)└────────────────────┘
//
// # Commit Semantics
//
// Commit replaces the whole snapshot at once after every reconciliation
// stage for a delivery has finished. Readers never see a snapshot that is
// half old and half new.
//
// Transport health is tracked separately with RecordSuccess and RecordError.
// An error keeps the committed snapshot so the display stays on the last
// known state while the transport retries:
//
//	store.RecordError(err)
//	→ current.Snapshot = <unchanged>
//	→ current.LastError = err
//	→ current.ConsecutiveFailures++
//
// # Defensive Copying
//
// Commit, Current and Snapshot deep-copy the track slices and artist lists,
// so no caller can mutate the committed state through a returned value.
//
// # Testing Considerations
//
// The zero Store is ready to use:
//
//	store := &state.Store{}
package state
