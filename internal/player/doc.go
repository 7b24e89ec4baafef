// Package player defines the now-playing snapshot model and the clients that
// exchange it with the backend.
//
// # Overview
//
// The backend publishes the state of a media player as JSON snapshots. A
// snapshot groups its fields under currentlyPlaying, trackData and
// playbackContext, plus a settingsToToggle list of one-shot preference
// commands. Transports may deliver partial snapshots: a field that is absent
// means "unchanged", never "cleared".
//
// # Types
//
//   - Snapshot: the complete, merged state the kiosk renders from
//   - Partial: a snapshot as delivered, with pointer fields so absence is visible
//   - Track, ImageData, Context: nested value types shared by both
//
// # Transport
//
//   - Client.FetchSnapshot: GET /playback-info (pull)
//   - Dial / Stream.Next: websocket at /playback-stream (push)
//   - Client.SendCommand: POST /modify-playback/{command}
//   - Client.ReportSettings: POST /settings/current
//
// Every request carries a User-Agent and a per-process client id so the
// backend can compute partial snapshots per kiosk.
package player
