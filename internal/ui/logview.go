package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/five82/marquee/internal/artwork"
	"github.com/five82/marquee/internal/controller"
	"github.com/five82/marquee/internal/progress"
	"github.com/five82/marquee/internal/tracklist"
)

// LogView is a headless surface that logs what a screen would show. It is
// used when stdout is not a terminal.
type LogView struct {
	logger *log.Logger
}

var (
	_ controller.View = (*LogView)(nil)
	_ artwork.Surface = (*LogView)(nil)
)

// NewLogView returns a surface that writes to logger.
func NewLogView(logger *log.Logger) *LogView {
	if logger == nil {
		logger = log.Default()
	}
	return &LogView{logger: logger.With("component", "surface")}
}

func (v *LogView) SetText(field controller.Field, value string) {
	if field == controller.FieldTime {
		v.logger.Debug("text", "field", field, "value", value)
		return
	}
	v.logger.Info("text", "field", field, "value", value)
}

func (v *LogView) SetFlag(flag controller.Flag, on bool) {
	v.logger.Info("flag", "flag", flag, "on", on)
}

// SetProgress runs on every tick, so it only logs at debug level.
func (v *LogView) SetProgress(p progress.Progress) {
	v.logger.Debug("progress", "position", progress.FormatTime(p.PositionMs, p.TotalMs), "paused", p.Paused)
}

func (v *LogView) SetEffects(effects []string) {
	v.logger.Info("effects", "active", effects)
}

func (v *LogView) ShowTrackList(plan tracklist.Plan) {
	v.logger.Info("track list",
		"mode", plan.Mode,
		"op", plan.Op,
		"rows", len(plan.Rows),
		"highlighted", plan.Highlighted,
		"removed", plan.Removed,
		"appended", plan.Appended,
	)
}

func (v *LogView) ShowBackground(asset *artwork.Asset, crossfade time.Duration) {
	if asset == nil {
		return
	}
	kv := []any{"url", asset.URL, "crossfade", crossfade}
	if asset.Background != nil {
		b := asset.Background.Bounds()
		kv = append(kv, "size", fmt.Sprintf("%dx%d", b.Dx(), b.Dy()))
		if c, ok := averageColor(asset.Background); ok {
			kv = append(kv, "color", hexColor(c))
		}
	}
	v.logger.Info("background", kv...)
}
