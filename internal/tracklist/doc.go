// Package tracklist turns the player's track data into the rows shown under
// the playing track.
//
// # Modes
//
// The list is shown in one of three modes. SingleTrack hides the list.
// Queue lists the upcoming queue with its head highlighted. Album lists the
// album or playlist the track belongs to, with the playing track highlighted
// and optional disc separators or album spacers.
//
// # Reconciliation
//
// [Reconcile] compares the new snapshot with the previous [State] and emits a
// [Plan]: keep the rows, shift the queue by one, or relist. The shift is only
// used when it produces the same rows a relist would.
//
// # Layout
//
// [Layout] derives a row scale that fits the rows into the available height
// and [ScrollOffset] centers the highlighted row.
package tracklist
