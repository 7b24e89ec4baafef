package prefs

// Preference ids known to the kiosk.
const (
	AlbumView             = "album-view"
	Prerender             = "prerender"
	FeaturedArtists       = "featured-artists"
	StripTitles           = "strip-titles"
	StripTitlesAggressive = "strip-titles-aggressive"
	ShowTrackList         = "show-track-list"
	HDArtwork             = "hd-artwork"
	BackgroundArtwork     = "bg-artwork"
	BackgroundTint        = "bg-tint"
	BackgroundDim         = "bg-dim"
	BackgroundGradient    = "bg-gradient"
	Transitions           = "transitions"
	ShowReleaseDate       = "show-release-date"
	ShowContext           = "show-context"
	ShowDevice            = "show-device"
	ShowVolume            = "show-volume"
	AlbumSpacers          = "album-spacers"
	ShowTimestamps        = "show-timestamps"
	FullscreenClock       = "fullscreen-clock"
)

// Descriptor describes one boolean preference.
type Descriptor struct {
	ID          string
	Description string
	Default     bool
	// Protected preferences are never changed by presets.
	Protected bool
	// Effect is the style class the surface applies while the preference is
	// enabled. Empty when the preference only changes behavior.
	Effect string
}

// Preset switches a group of preferences at once: listed ids are enabled and
// every other unprotected preference is disabled.
type Preset struct {
	ID          string
	Description string
	Enabled     []string
}

// Catalog is the static list of preferences and presets.
type Catalog struct {
	Preferences []Descriptor
	Presets     []Preset
}

// Lookup returns the descriptor for id.
func (c Catalog) Lookup(id string) (Descriptor, bool) {
	for _, d := range c.Preferences {
		if d.ID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}

// LookupPreset returns the preset for id.
func (c Catalog) LookupPreset(id string) (Preset, bool) {
	for _, p := range c.Presets {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() Catalog {
	return Catalog{
		Preferences: []Descriptor{
			{ID: AlbumView, Description: "Show the whole album around the playing track", Default: true},
			{ID: Prerender, Description: "Render the next track's background ahead of time", Default: true},
			{ID: FeaturedArtists, Description: "Show featured artists in the track list", Default: true},
			{ID: StripTitles, Description: "De-emphasize remaster/edition suffixes in titles", Default: true, Effect: "title-extra-muted"},
			{ID: StripTitlesAggressive, Description: "Treat every bracketed suffix as unimportant", Default: false},
			{ID: ShowTrackList, Description: "Show the track list", Default: true},
			{ID: HDArtwork, Description: "Load high resolution artwork", Default: false},
			{ID: BackgroundArtwork, Description: "Blurred artwork in the background", Default: true, Effect: "bg-artwork"},
			{ID: BackgroundTint, Description: "Tint the background with the artwork color", Default: true, Effect: "bg-tint"},
			{ID: BackgroundDim, Description: "Darken the background", Default: false, Effect: "bg-dim"},
			{ID: BackgroundGradient, Description: "Color gradient behind the artwork", Default: true, Effect: "bg-gradient"},
			{ID: Transitions, Description: "Crossfade between backgrounds", Default: true},
			{ID: ShowReleaseDate, Description: "Show the release year next to the album", Default: true},
			{ID: ShowContext, Description: "Show the playback context", Default: true},
			{ID: ShowDevice, Description: "Show the playback device", Default: false},
			{ID: ShowVolume, Description: "Show the volume", Default: false},
			{ID: AlbumSpacers, Description: "Separate album runs in mixed playlists", Default: true},
			{ID: ShowTimestamps, Description: "Show elapsed and total time", Default: true},
			{ID: FullscreenClock, Description: "Show a clock while nothing plays", Default: true, Protected: true},
		},
		Presets: []Preset{
			{
				ID:          "minimal",
				Description: "Artwork and title only",
				Enabled:     []string{BackgroundArtwork, Prerender, StripTitles},
			},
			{
				ID:          "balanced",
				Description: "The defaults",
				Enabled: []string{
					AlbumView, Prerender, FeaturedArtists, StripTitles, ShowTrackList,
					BackgroundArtwork, BackgroundTint, BackgroundGradient, Transitions,
					ShowReleaseDate, ShowContext, AlbumSpacers, ShowTimestamps,
				},
			},
			{
				ID:          "everything",
				Description: "Every piece of information",
				Enabled: []string{
					AlbumView, Prerender, FeaturedArtists, StripTitles, ShowTrackList,
					HDArtwork, BackgroundArtwork, BackgroundTint, BackgroundGradient,
					Transitions, ShowReleaseDate, ShowContext, ShowDevice, ShowVolume,
					AlbumSpacers, ShowTimestamps,
				},
			},
		},
	}
}
