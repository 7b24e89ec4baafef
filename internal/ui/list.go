package ui

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/five82/marquee/internal/tracklist"
)

const ellipsis = "…"

// renderList draws the visible rows of vp into width columns. Each row takes
// the viewport scale in lines, rounded down.
func renderList(vp tracklist.Viewport, width int, styles Styles, extraMuted bool) []string {
	if width <= 0 || vp.Visible <= 0 {
		return nil
	}
	lines := max(1, int(vp.Scale))
	end := min(len(vp.Rows), vp.Offset+vp.Visible)

	var out []string
	for i := vp.Offset; i < end; i++ {
		row := vp.Rows[i]
		text := formatRow(row, width, extraMuted, styles)
		switch {
		case i == vp.Highlighted && row.Kind == tracklist.RowTrack:
			text = styles.Selected.Render(runewidth.FillRight(plainRow(row, width), width))
		case row.Kind == tracklist.RowDisc:
			text = styles.AccentText.Render(text)
		case row.Kind == tracklist.RowSpacer:
			text = styles.FaintText.Render(text)
		}
		out = append(out, text)
		for range lines - 1 {
			out = append(out, "")
		}
	}
	return out
}

// formatRow renders one row with per-part styles.
func formatRow(row tracklist.Row, width int, extraMuted bool, styles Styles) string {
	switch row.Kind {
	case tracklist.RowDisc:
		return fit("Disc "+strconv.Itoa(row.Disc), width)
	case tracklist.RowSpacer:
		return fit(row.Album, width)
	}
	plain := plainRow(row, width)
	if row.Extra == "" {
		return styles.Text.Render(plain)
	}
	// Style the extra part separately when it survived truncation.
	idx := strings.LastIndex(plain, row.Extra)
	if idx < 0 {
		return styles.Text.Render(plain)
	}
	extraStyle := styles.MutedText
	if extraMuted {
		extraStyle = styles.FaintText
	}
	return styles.Text.Render(plain[:idx]) + extraStyle.Render(row.Extra) + styles.Text.Render(plain[idx+len(row.Extra):])
}

// plainRow renders "number title extra · artist" with the duration
// right-aligned, truncated to width.
func plainRow(row tracklist.Row, width int) string {
	var left strings.Builder
	if row.Number != "" {
		left.WriteString(row.Number)
		left.WriteString("  ")
	}
	left.WriteString(row.Title)
	if row.Extra != "" {
		left.WriteString(" ")
		left.WriteString(row.Extra)
	}
	if row.Artist != "" {
		left.WriteString(" · ")
		left.WriteString(row.Artist)
	}

	right := row.Duration
	if right == "" {
		return fit(left.String(), width)
	}
	room := width - runewidth.StringWidth(right) - 1
	if room <= 0 {
		return fit(right, width)
	}
	return runewidth.FillRight(runewidth.Truncate(left.String(), room, ellipsis), room) + " " + right
}

// fit truncates s to width cells.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, ellipsis)
}

// contextLabel renders a backend context type for display:
// "PLAYLIST" becomes "Playlist", "QUEUE_IN_ALBUM" becomes "Queue In Album".
func contextLabel(kind string) string {
	if kind == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(strings.ToLower(kind), "_", " "))
}
