package player

// Snapshot type discriminators. Only TypeData payloads are reconciled; anything
// else only proves the backend is alive.
const (
	TypeData      = "DATA"
	TypeHeartbeat = "HEARTBEAT"
)

// BlankImageURL marks "no artwork available". It maps to the built-in default
// artwork and colors.
const BlankImageURL = "BLANK"

// ReloadSetting is the settingsToToggle entry that requests a hard reload.
const ReloadSetting = "reload"

// Track list view types reported by the backend.
const (
	ViewQueue    = "QUEUE"
	ViewAlbum    = "ALBUM"
	ViewPlaylist = "PLAYLIST"
)

// ContextQueueInAlbum flags a queue that is playing inside an album context.
const ContextQueueInAlbum = "QUEUE_IN_ALBUM"

// RGB is a single dominant color extracted from the artwork by the backend.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// ImageColors are the dominant colors of an artwork image.
type ImageColors struct {
	Primary           RGB     `json:"primary"`
	Secondary         RGB     `json:"secondary"`
	AverageBrightness float64 `json:"averageBrightness"`
}

// ImageData references an artwork image and its colors.
type ImageData struct {
	URL    string      `json:"url"`
	HDURL  string      `json:"hdUrl"`
	Colors ImageColors `json:"colors"`
}

// IsBlank reports whether the reference carries no usable artwork.
func (i ImageData) IsBlank() bool {
	return i.URL == "" || i.URL == BlankImageURL
}

// Track is a single row of a track list or queue.
type Track struct {
	ID          string   `json:"id"`
	Artists     []string `json:"artists"`
	Title       string   `json:"title"`
	Album       string   `json:"album"`
	TrackNumber int      `json:"trackNumber"`
	DiscNumber  int      `json:"discNumber"`
	TimeTotal   int64    `json:"timeTotal"`
}

// CurrentlyPlaying describes the playing track.
type CurrentlyPlaying struct {
	ID          string    `json:"id"`
	Artists     []string  `json:"artists"`
	Title       string    `json:"title"`
	Album       string    `json:"album"`
	ReleaseDate string    `json:"releaseDate"`
	Description string    `json:"description"`
	TimeCurrent int64     `json:"timeCurrent"`
	TimeTotal   int64     `json:"timeTotal"`
	ImageData   ImageData `json:"imageData"`
}

// TrackData describes the list the playing track belongs to.
type TrackData struct {
	TrackNumber    int       `json:"trackNumber"`
	DiscNumber     int       `json:"discNumber"`
	TotalDiscCount int       `json:"totalDiscCount"`
	TrackCount     int       `json:"trackCount"`
	CombinedTime   int64     `json:"combinedTime"`
	ListTracks     []Track   `json:"listTracks"`
	Queue          []Track   `json:"queue"`
	TrackListView  string    `json:"trackListView"`
	NextImageData  ImageData `json:"nextImageData"`
}

// Context is the playback context (album, playlist, artist, ...).
type Context struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// PlaybackContext carries device and playback mode state.
type PlaybackContext struct {
	Context      Context `json:"context"`
	Device       string  `json:"device"`
	Paused       bool    `json:"paused"`
	Repeat       string  `json:"repeat"`
	Shuffle      bool    `json:"shuffle"`
	Volume       int     `json:"volume"`
	ThumbnailURL string  `json:"thumbnailUrl"`
}

// Snapshot is the complete, merged player state.
type Snapshot struct {
	Type             string           `json:"type"`
	DeployTime       int64            `json:"deployTime"`
	CurrentlyPlaying CurrentlyPlaying `json:"currentlyPlaying"`
	TrackData        TrackData        `json:"trackData"`
	PlaybackContext  PlaybackContext  `json:"playbackContext"`
}

// Clone returns a deep copy that shares no slices with s.
func (s Snapshot) Clone() Snapshot {
	dup := s
	dup.CurrentlyPlaying.Artists = cloneStrings(s.CurrentlyPlaying.Artists)
	dup.TrackData.ListTracks = CloneTracks(s.TrackData.ListTracks)
	dup.TrackData.Queue = CloneTracks(s.TrackData.Queue)
	return dup
}

// CloneTracks deep-copies a track slice.
func CloneTracks(tracks []Track) []Track {
	if len(tracks) == 0 {
		return nil
	}
	dup := make([]Track, len(tracks))
	for i, t := range tracks {
		dup[i] = t
		dup[i].Artists = cloneStrings(t.Artists)
	}
	return dup
}

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	dup := make([]string, len(values))
	copy(dup, values)
	return dup
}
