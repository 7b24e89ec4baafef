package controller

import (
	"github.com/five82/marquee/internal/progress"
	"github.com/five82/marquee/internal/tracklist"
)

// Field names a text slot on the surface.
type Field string

// Text slots.
const (
	FieldTitle       Field = "title"
	FieldTitleExtra  Field = "title-extra"
	FieldArtists     Field = "artists"
	FieldAlbum       Field = "album"
	FieldReleaseDate Field = "release-date"
	FieldDescription Field = "description"
	FieldContext     Field = "context"
	FieldContextType Field = "context-type"
	FieldDevice      Field = "device"
	FieldVolume      Field = "volume"
	FieldTime        Field = "time"
)

// Flag names a boolean state on the surface.
type Flag string

// State flags.
const (
	FlagPaused  Flag = "paused"
	FlagShuffle Flag = "shuffle"
	FlagRepeat  Flag = "repeat"
	FlagIdle    Flag = "idle"
)

// View is the surface the controller writes text and state into.
type View interface {
	SetText(field Field, value string)
	SetFlag(flag Flag, on bool)
	SetProgress(p progress.Progress)
	SetEffects(effects []string)
	ShowTrackList(plan tracklist.Plan)
}
