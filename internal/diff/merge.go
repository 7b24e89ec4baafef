package diff

import "github.com/five82/marquee/internal/player"

type merger interface {
	merge(dst *player.Snapshot, next *player.Partial) bool
	path() string
}

var mergers = []merger{
	DeployTime,
	TrackID, Artists, Title, Album, ReleaseDate, Description, TimeCurrent, TimeTotal, ImageData,
	TrackNumber, DiscNumber, TotalDiscCount, TrackCount, CombinedTime, ListTracks, Queue, TrackListView, NextImageData,
	Context, Device, Paused, Repeat, Shuffle, Volume, ThumbnailURL,
}

// Merge applies every field present in next on top of old and returns the
// merged snapshot together with the paths whose value changed. Neither
// argument is modified and the result shares no slices with them.
func Merge(old player.Snapshot, next *player.Partial) (player.Snapshot, []string) {
	merged := old.Clone()
	if next == nil {
		return merged, nil
	}
	var changed []string
	for _, m := range mergers {
		if m.merge(&merged, next) {
			changed = append(changed, m.path())
		}
	}
	merged.Type = player.TypeData
	return merged.Clone(), changed
}

// Paths lists every dotted path the package knows about.
func Paths() []string {
	paths := make([]string, len(mergers))
	for i, m := range mergers {
		paths[i] = m.path()
	}
	return paths
}
