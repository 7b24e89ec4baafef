package diff

import "github.com/five82/marquee/internal/player"

// Fields of currentlyPlaying.
var (
	TrackID = playing("id",
		func(c *player.CurrentlyPlaying) *string { return &c.ID },
		func(c *player.PartialCurrentlyPlaying) *string { return c.ID })
	Artists = playing("artists",
		func(c *player.CurrentlyPlaying) *[]string { return &c.Artists },
		func(c *player.PartialCurrentlyPlaying) *[]string { return c.Artists })
	Title = playing("title",
		func(c *player.CurrentlyPlaying) *string { return &c.Title },
		func(c *player.PartialCurrentlyPlaying) *string { return c.Title })
	Album = playing("album",
		func(c *player.CurrentlyPlaying) *string { return &c.Album },
		func(c *player.PartialCurrentlyPlaying) *string { return c.Album })
	ReleaseDate = playing("releaseDate",
		func(c *player.CurrentlyPlaying) *string { return &c.ReleaseDate },
		func(c *player.PartialCurrentlyPlaying) *string { return c.ReleaseDate })
	Description = playing("description",
		func(c *player.CurrentlyPlaying) *string { return &c.Description },
		func(c *player.PartialCurrentlyPlaying) *string { return c.Description })
	TimeCurrent = playing("timeCurrent",
		func(c *player.CurrentlyPlaying) *int64 { return &c.TimeCurrent },
		func(c *player.PartialCurrentlyPlaying) *int64 { return c.TimeCurrent })
	TimeTotal = playing("timeTotal",
		func(c *player.CurrentlyPlaying) *int64 { return &c.TimeTotal },
		func(c *player.PartialCurrentlyPlaying) *int64 { return c.TimeTotal })
	ImageData = playing("imageData",
		func(c *player.CurrentlyPlaying) *player.ImageData { return &c.ImageData },
		func(c *player.PartialCurrentlyPlaying) *player.ImageData { return c.ImageData })
)

// Fields of trackData.
var (
	TrackNumber = tracks("trackNumber",
		func(t *player.TrackData) *int { return &t.TrackNumber },
		func(t *player.PartialTrackData) *int { return t.TrackNumber })
	DiscNumber = tracks("discNumber",
		func(t *player.TrackData) *int { return &t.DiscNumber },
		func(t *player.PartialTrackData) *int { return t.DiscNumber })
	TotalDiscCount = tracks("totalDiscCount",
		func(t *player.TrackData) *int { return &t.TotalDiscCount },
		func(t *player.PartialTrackData) *int { return t.TotalDiscCount })
	TrackCount = tracks("trackCount",
		func(t *player.TrackData) *int { return &t.TrackCount },
		func(t *player.PartialTrackData) *int { return t.TrackCount })
	CombinedTime = tracks("combinedTime",
		func(t *player.TrackData) *int64 { return &t.CombinedTime },
		func(t *player.PartialTrackData) *int64 { return t.CombinedTime })
	ListTracks = tracks("listTracks",
		func(t *player.TrackData) *[]player.Track { return &t.ListTracks },
		func(t *player.PartialTrackData) *[]player.Track { return t.ListTracks })
	Queue = tracks("queue",
		func(t *player.TrackData) *[]player.Track { return &t.Queue },
		func(t *player.PartialTrackData) *[]player.Track { return t.Queue })
	TrackListView = tracks("trackListView",
		func(t *player.TrackData) *string { return &t.TrackListView },
		func(t *player.PartialTrackData) *string { return t.TrackListView })
	NextImageData = tracks("nextImageData",
		func(t *player.TrackData) *player.ImageData { return &t.NextImageData },
		func(t *player.PartialTrackData) *player.ImageData { return t.NextImageData })
)

// Fields of playbackContext.
var (
	Context = playback("context",
		func(p *player.PlaybackContext) *player.Context { return &p.Context },
		func(p *player.PartialPlaybackContext) *player.Context { return p.Context })
	Device = playback("device",
		func(p *player.PlaybackContext) *string { return &p.Device },
		func(p *player.PartialPlaybackContext) *string { return p.Device })
	Paused = playback("paused",
		func(p *player.PlaybackContext) *bool { return &p.Paused },
		func(p *player.PartialPlaybackContext) *bool { return p.Paused })
	Repeat = playback("repeat",
		func(p *player.PlaybackContext) *string { return &p.Repeat },
		func(p *player.PartialPlaybackContext) *string { return p.Repeat })
	Shuffle = playback("shuffle",
		func(p *player.PlaybackContext) *bool { return &p.Shuffle },
		func(p *player.PartialPlaybackContext) *bool { return p.Shuffle })
	Volume = playback("volume",
		func(p *player.PlaybackContext) *int { return &p.Volume },
		func(p *player.PartialPlaybackContext) *int { return p.Volume })
	ThumbnailURL = playback("thumbnailUrl",
		func(p *player.PlaybackContext) *string { return &p.ThumbnailURL },
		func(p *player.PartialPlaybackContext) *string { return p.ThumbnailURL })
)

// DeployTime is the backend deployment marker.
var DeployTime = Field[int64]{
	Path: "deployTime",
	get:  func(s *player.Snapshot) int64 { return s.DeployTime },
	pick: func(p *player.Partial) (int64, bool) { return present(p.DeployTime) },
	set:  func(s *player.Snapshot, v int64) { s.DeployTime = v },
}

func playing[T any](name string, ref func(*player.CurrentlyPlaying) *T, opt func(*player.PartialCurrentlyPlaying) *T) Field[T] {
	return Field[T]{
		Path: "currentlyPlaying." + name,
		get:  func(s *player.Snapshot) T { return *ref(&s.CurrentlyPlaying) },
		pick: func(p *player.Partial) (T, bool) {
			if p.CurrentlyPlaying == nil {
				var zero T
				return zero, false
			}
			return present(opt(p.CurrentlyPlaying))
		},
		set: func(s *player.Snapshot, v T) { *ref(&s.CurrentlyPlaying) = v },
	}
}

func tracks[T any](name string, ref func(*player.TrackData) *T, opt func(*player.PartialTrackData) *T) Field[T] {
	return Field[T]{
		Path: "trackData." + name,
		get:  func(s *player.Snapshot) T { return *ref(&s.TrackData) },
		pick: func(p *player.Partial) (T, bool) {
			if p.TrackData == nil {
				var zero T
				return zero, false
			}
			return present(opt(p.TrackData))
		},
		set: func(s *player.Snapshot, v T) { *ref(&s.TrackData) = v },
	}
}

func playback[T any](name string, ref func(*player.PlaybackContext) *T, opt func(*player.PartialPlaybackContext) *T) Field[T] {
	return Field[T]{
		Path: "playbackContext." + name,
		get:  func(s *player.Snapshot) T { return *ref(&s.PlaybackContext) },
		pick: func(p *player.Partial) (T, bool) {
			if p.PlaybackContext == nil {
				var zero T
				return zero, false
			}
			return present(opt(p.PlaybackContext))
		},
		set: func(s *player.Snapshot, v T) { *ref(&s.PlaybackContext) = v },
	}
}
