package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/marquee/internal/diff"
	"github.com/five82/marquee/internal/player"
	"github.com/five82/marquee/internal/progress"
)

func newSnapshotCommand(ctx *commandContext) *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Fetch one full snapshot from the backend and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.loadConfig()
			if err != nil {
				return err
			}
			if b := strings.TrimSpace(backend); b != "" {
				cfg.BackendURL = b
			}
			client, err := player.NewClient(cfg.BackendURL)
			if err != nil {
				return fmt.Errorf("init backend client: %w", err)
			}
			p, err := client.FetchSnapshot(cmd.Context(), true)
			if err != nil {
				return fmt.Errorf("fetch snapshot: %w", err)
			}
			if !p.HasData() {
				fmt.Fprintf(cmd.OutOrStdout(), "backend answered with %s, no player data\n", p.Type)
				return nil
			}
			snap, _ := diff.Merge(player.Snapshot{}, &p)
			fmt.Fprintln(cmd.OutOrStdout(), renderSnapshot(snap))
			if tracks, totalMs := snapshotTracks(snap); len(tracks) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					trackColumns,
					tracks,
					"", fmt.Sprintf("%d tracks", len(tracks)), "", "", progress.FormatTime(totalMs, totalMs),
				))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&backend, "backend", "", "Backend URL (overrides backend_url)")
	return cmd
}

func renderSnapshot(s player.Snapshot) string {
	cp, td, pc := s.CurrentlyPlaying, s.TrackData, s.PlaybackContext
	rows := [][]string{
		{"Title", cp.Title},
		{"Artists", strings.Join(cp.Artists, ", ")},
		{"Album", cp.Album},
		{"Release date", cp.ReleaseDate},
		{"Position", progress.FormatTime(cp.TimeCurrent, cp.TimeTotal) + " / " + progress.FormatTime(cp.TimeTotal, cp.TimeTotal)},
		{"Artwork", cp.ImageData.URL},
		{"Context", strings.TrimSpace(pc.Context.Type + " " + pc.Context.Name)},
		{"Device", pc.Device},
		{"Volume", strconv.Itoa(pc.Volume)},
		{"Paused", strconv.FormatBool(pc.Paused)},
		{"Shuffle", strconv.FormatBool(pc.Shuffle)},
		{"Repeat", pc.Repeat},
		{"List view", td.TrackListView},
		{"Track", fmt.Sprintf("%d/%d (disc %d of %d)", td.TrackNumber, td.TrackCount, td.DiscNumber, td.TotalDiscCount)},
		{"Deploy time", strconv.FormatInt(s.DeployTime, 10)},
	}
	return renderTable([]column{{title: "Field"}, {title: "Value"}}, rows)
}

var trackColumns = []column{
	{title: "#", right: true},
	{title: "Title"},
	{title: "Artists"},
	{title: "Album"},
	{title: "Time", right: true},
}

// snapshotTracks lists the album tracks, or the queue when there are none,
// with their summed length.
func snapshotTracks(s player.Snapshot) ([][]string, int64) {
	tracks := s.TrackData.ListTracks
	if len(tracks) == 0 {
		tracks = s.TrackData.Queue
	}
	rows := make([][]string, 0, len(tracks))
	var totalMs int64
	for i, t := range tracks {
		totalMs += max(0, t.TimeTotal)
		number := strconv.Itoa(i + 1)
		if t.TrackNumber > 0 {
			number = strconv.Itoa(t.TrackNumber)
		}
		rows = append(rows, []string{
			number,
			t.Title,
			strings.Join(t.Artists, ", "),
			t.Album,
			progress.FormatTime(t.TimeTotal, t.TimeTotal),
		})
	}
	return rows, totalMs
}
