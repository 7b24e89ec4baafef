package tracklist

import (
	"slices"

	"github.com/five82/marquee/internal/player"
	"github.com/five82/marquee/internal/prefs"
)

// Capabilities answers preference lookups.
type Capabilities interface {
	IsEnabled(id string) bool
}

// Mode is the list display strategy.
type Mode int

const (
	ModeSingleTrack Mode = iota
	ModeQueue
	ModeAlbum
)

func (m Mode) String() string {
	switch m {
	case ModeQueue:
		return "queue"
	case ModeAlbum:
		return "album"
	default:
		return "single"
	}
}

// Op is the kind of update a plan asks the surface to perform.
type Op int

const (
	// OpKeep leaves the rows in place; only the highlight may move.
	OpKeep Op = iota
	// OpShift drops the head row and appends Appended at the tail.
	OpShift
	// OpRelist replaces every row.
	OpRelist
)

func (o Op) String() string {
	switch o {
	case OpShift:
		return "shift"
	case OpRelist:
		return "relist"
	default:
		return "keep"
	}
}

// State is the list as last rendered.
type State struct {
	Mode        Mode
	IDs         []string
	Rows        []Row
	Highlighted int
	opts        rowOptions
	built       bool
}

// Plan describes how to move the surface from the previous State to the new
// one. Rows and Highlighted always hold the complete result.
type Plan struct {
	Op          Op
	Mode        Mode
	Rows        []Row
	Highlighted int
	Removed     int
	Appended    []Row
}

// SelectMode picks the display strategy for snap.
func SelectMode(snap player.Snapshot, caps Capabilities) Mode {
	if !caps.IsEnabled(prefs.ShowTrackList) {
		return ModeSingleTrack
	}
	td := snap.TrackData
	switch {
	case snap.PlaybackContext.Context.Type == player.ContextQueueInAlbum,
		td.TrackListView == player.ViewQueue,
		len(td.ListTracks) == 0,
		td.TrackNumber == 0,
		!caps.IsEnabled(prefs.AlbumView):
		return ModeQueue
	default:
		return ModeAlbum
	}
}

// Reconcile computes the plan for snap given the previous state, and returns
// the state to pass to the next call.
func Reconcile(prev State, snap player.Snapshot, caps Capabilities) (Plan, State) {
	mode := SelectMode(snap, caps)
	source := sourceTracks(mode, snap)
	ids := trackIDs(source)
	opts := optionsFor(mode, snap, caps)

	next := State{Mode: mode, IDs: ids, opts: opts, built: true}

	sameShape := prev.built && prev.Mode == mode && prev.opts == opts
	switch {
	case sameShape && sameIDs(prev.IDs, ids):
		next.Rows = prev.Rows
		next.Highlighted = highlight(mode, next.Rows, snap.CurrentlyPlaying.ID)
		return plan(OpKeep, next), next

	case sameShape && mode == ModeQueue && shifted(prev.IDs, ids, snap.CurrentlyPlaying.ID):
		appended := buildRows(source[len(prev.IDs)-1:], opts)
		next.Rows = append(slices.Clone(prev.Rows[1:]), appended...)
		next.Highlighted = highlight(mode, next.Rows, snap.CurrentlyPlaying.ID)
		p := plan(OpShift, next)
		p.Removed = 1
		p.Appended = appended
		return p, next
	}

	next.Rows = buildRows(source, opts)
	next.Highlighted = highlight(mode, next.Rows, snap.CurrentlyPlaying.ID)
	return plan(OpRelist, next), next
}

func plan(op Op, s State) Plan {
	return Plan{Op: op, Mode: s.Mode, Rows: s.Rows, Highlighted: s.Highlighted}
}

// shifted reports whether the player advanced exactly one queue entry: the
// new current track is the old head and the new queue is the old tail plus at
// most one new entry.
func shifted(prev, next []string, currentID string) bool {
	if len(prev) == 0 || currentID == "" || prev[0] != currentID {
		return false
	}
	rest := prev[1:]
	switch len(next) {
	case len(rest):
		return slices.Equal(rest, next)
	case len(rest) + 1:
		return slices.Equal(rest, next[:len(rest)])
	default:
		return false
	}
}

func sourceTracks(mode Mode, snap player.Snapshot) []player.Track {
	switch mode {
	case ModeQueue:
		return snap.TrackData.Queue
	case ModeAlbum:
		return snap.TrackData.ListTracks
	default:
		return nil
	}
}

func highlight(mode Mode, rows []Row, currentID string) int {
	switch mode {
	case ModeQueue:
		for i, r := range rows {
			if r.Kind == RowTrack {
				return i
			}
		}
	case ModeAlbum:
		for i, r := range rows {
			if r.Kind == RowTrack && r.ID == currentID {
				return i
			}
		}
	}
	return -1
}

func trackIDs(tracks []player.Track) []string {
	if len(tracks) == 0 {
		return nil
	}
	ids := make([]string, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}
	return ids
}

// sameIDs is the cheap sequence comparison: length, then tail, then the rest.
func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	if a[len(a)-1] != b[len(b)-1] {
		return false
	}
	return slices.Equal(a, b)
}
