package tracklist

import (
	"strconv"
	"strings"

	"github.com/five82/marquee/internal/player"
	"github.com/five82/marquee/internal/prefs"
	"github.com/five82/marquee/internal/progress"
)

// RowKind distinguishes track rows from decoration rows.
type RowKind int

const (
	RowTrack RowKind = iota
	RowDisc
	RowSpacer
)

// Row is one line of the rendered list.
type Row struct {
	Kind     RowKind
	ID       string
	Number   string
	Artist   string
	Title    string
	Extra    string
	Duration string
	Album    string
	Disc     int
}

// rowOptions are the preference-dependent inputs of row construction. Rows are
// rebuilt whenever these change.
type rowOptions struct {
	numbers    bool
	featured   bool
	strip      bool
	aggressive bool
	discs      bool
	spacers    bool
}

func optionsFor(mode Mode, snap player.Snapshot, caps Capabilities) rowOptions {
	opts := rowOptions{
		featured:   caps.IsEnabled(prefs.FeaturedArtists),
		strip:      caps.IsEnabled(prefs.StripTitles),
		aggressive: caps.IsEnabled(prefs.StripTitlesAggressive),
	}
	if mode != ModeAlbum {
		return opts
	}
	opts.numbers = true
	if snap.TrackData.TrackListView == player.ViewPlaylist {
		opts.numbers = false
		opts.spacers = caps.IsEnabled(prefs.AlbumSpacers)
	} else {
		opts.discs = snap.TrackData.TotalDiscCount > 1 && !snap.PlaybackContext.Shuffle
	}
	return opts
}

func buildRows(tracks []player.Track, opts rowOptions) []Row {
	if len(tracks) == 0 {
		return nil
	}
	width := 0
	if opts.numbers {
		width = numberWidth(tracks)
	}
	spacers := opts.spacers && wantSpacers(tracks)

	rows := make([]Row, 0, len(tracks))
	for i, t := range tracks {
		if opts.discs && (i == 0 || t.DiscNumber != tracks[i-1].DiscNumber) {
			rows = append(rows, Row{Kind: RowDisc, Disc: t.DiscNumber})
		}
		if spacers && i > 0 && t.Album != tracks[i-1].Album {
			rows = append(rows, Row{Kind: RowSpacer, Album: t.Album})
		}
		rows = append(rows, trackRow(t, width, opts))
	}
	return rows
}

func trackRow(t player.Track, width int, opts rowOptions) Row {
	row := Row{
		Kind:     RowTrack,
		ID:       t.ID,
		Artist:   artistLine(t.Artists, opts.featured),
		Title:    t.Title,
		Album:    t.Album,
		Disc:     t.DiscNumber,
		Duration: progress.FormatTime(t.TimeTotal, t.TimeTotal),
	}
	if width > 0 {
		row.Number = padNumber(t.TrackNumber, width)
	}
	if opts.strip {
		row.Title, row.Extra = SplitTitle(t.Title, opts.aggressive)
	}
	return row
}

func artistLine(artists []string, featured bool) string {
	switch {
	case len(artists) == 0:
		return ""
	case !featured || len(artists) == 1:
		return artists[0]
	default:
		return artists[0] + " feat. " + strings.Join(artists[1:], ", ")
	}
}

func numberWidth(tracks []player.Track) int {
	width := 1
	for _, t := range tracks {
		width = max(width, len(strconv.Itoa(t.TrackNumber)))
	}
	return width
}

func padNumber(n, width int) string {
	s := strconv.Itoa(n)
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

// wantSpacers reports whether album spacers help readability: only when the
// list is made of a few longer album runs.
func wantSpacers(tracks []player.Track) bool {
	boundaries := 0
	for i := 1; i < len(tracks); i++ {
		if tracks[i].Album != tracks[i-1].Album {
			boundaries++
		}
	}
	return boundaries > 0 && boundaries*4 <= len(tracks)
}
