package player

import (
	"encoding/json"
	"fmt"
)

// Partial is a snapshot as delivered by a transport. Nil fields were absent
// from the payload and mean "unchanged", never "cleared".
type Partial struct {
	Type             string                   `json:"type"`
	DeployTime       *int64                   `json:"deployTime"`
	CurrentlyPlaying *PartialCurrentlyPlaying `json:"currentlyPlaying"`
	TrackData        *PartialTrackData        `json:"trackData"`
	PlaybackContext  *PartialPlaybackContext  `json:"playbackContext"`
	SettingsToToggle []string                 `json:"settingsToToggle"`
}

// PartialCurrentlyPlaying mirrors CurrentlyPlaying with optional fields.
type PartialCurrentlyPlaying struct {
	ID          *string    `json:"id"`
	Artists     *[]string  `json:"artists"`
	Title       *string    `json:"title"`
	Album       *string    `json:"album"`
	ReleaseDate *string    `json:"releaseDate"`
	Description *string    `json:"description"`
	TimeCurrent *int64     `json:"timeCurrent"`
	TimeTotal   *int64     `json:"timeTotal"`
	ImageData   *ImageData `json:"imageData"`
}

// PartialTrackData mirrors TrackData with optional fields.
type PartialTrackData struct {
	TrackNumber    *int       `json:"trackNumber"`
	DiscNumber     *int       `json:"discNumber"`
	TotalDiscCount *int       `json:"totalDiscCount"`
	TrackCount     *int       `json:"trackCount"`
	CombinedTime   *int64     `json:"combinedTime"`
	ListTracks     *[]Track   `json:"listTracks"`
	Queue          *[]Track   `json:"queue"`
	TrackListView  *string    `json:"trackListView"`
	NextImageData  *ImageData `json:"nextImageData"`
}

// PartialPlaybackContext mirrors PlaybackContext with optional fields.
type PartialPlaybackContext struct {
	Context      *Context `json:"context"`
	Device       *string  `json:"device"`
	Paused       *bool    `json:"paused"`
	Repeat       *string  `json:"repeat"`
	Shuffle      *bool    `json:"shuffle"`
	Volume       *int     `json:"volume"`
	ThumbnailURL *string  `json:"thumbnailUrl"`
}

// DecodePartial parses a transport payload.
func DecodePartial(data []byte) (Partial, error) {
	var p Partial
	if err := json.Unmarshal(data, &p); err != nil {
		return Partial{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return p, nil
}

// HasData reports whether the payload should be reconciled.
func (p Partial) HasData() bool {
	return p.Type == TypeData
}

// Full wraps a complete snapshot as a partial in which every field is present.
func Full(s Snapshot) Partial {
	s = s.Clone()
	cp, td, pc := s.CurrentlyPlaying, s.TrackData, s.PlaybackContext
	return Partial{
		Type:       TypeData,
		DeployTime: &s.DeployTime,
		CurrentlyPlaying: &PartialCurrentlyPlaying{
			ID:          &cp.ID,
			Artists:     &cp.Artists,
			Title:       &cp.Title,
			Album:       &cp.Album,
			ReleaseDate: &cp.ReleaseDate,
			Description: &cp.Description,
			TimeCurrent: &cp.TimeCurrent,
			TimeTotal:   &cp.TimeTotal,
			ImageData:   &cp.ImageData,
		},
		TrackData: &PartialTrackData{
			TrackNumber:    &td.TrackNumber,
			DiscNumber:     &td.DiscNumber,
			TotalDiscCount: &td.TotalDiscCount,
			TrackCount:     &td.TrackCount,
			CombinedTime:   &td.CombinedTime,
			ListTracks:     &td.ListTracks,
			Queue:          &td.Queue,
			TrackListView:  &td.TrackListView,
			NextImageData:  &td.NextImageData,
		},
		PlaybackContext: &PartialPlaybackContext{
			Context:      &pc.Context,
			Device:       &pc.Device,
			Paused:       &pc.Paused,
			Repeat:       &pc.Repeat,
			Shuffle:      &pc.Shuffle,
			Volume:       &pc.Volume,
			ThumbnailURL: &pc.ThumbnailURL,
		},
	}
}
