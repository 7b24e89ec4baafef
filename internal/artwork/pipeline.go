package artwork

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/five82/marquee/internal/diff"
	"github.com/five82/marquee/internal/player"
	"github.com/five82/marquee/internal/prefs"
)

// Asset is a fully rendered background ready for display.
type Asset struct {
	URL        string
	Artwork    image.Image
	Background image.Image
	Colors     player.ImageColors
}

// Surface displays committed assets.
type Surface interface {
	ShowBackground(asset *Asset, crossfade time.Duration)
}

// Capabilities answers preference lookups.
type Capabilities interface {
	IsEnabled(id string) bool
}

// Options configures a Pipeline.
type Options struct {
	Loader    Loader
	Surface   Surface
	Prefs     Capabilities
	Logger    *log.Logger
	Width     int
	Height    int
	Crossfade time.Duration
}

const (
	defaultWidth     = 640
	defaultHeight    = 360
	defaultArtSize   = 256
	defaultCrossfade = 500 * time.Millisecond
)

// renderKey identifies one rendered background. The style is part of the key
// so a preference change forces a new render for the same URL.
type renderKey struct {
	url   string
	style Style
}

type cacheEntry struct {
	key   renderKey
	asset *Asset
}

// Pipeline loads artwork, rasterizes backgrounds and commits them to the
// surface. Apply renders are serialized and only the most recently requested
// background is ever committed.
type Pipeline struct {
	loader    Loader
	surface   Surface
	caps      Capabilities
	logger    *log.Logger
	width     int
	height    int
	crossfade time.Duration

	renderMu sync.Mutex

	mu           sync.Mutex
	desired      renderKey
	committed    renderKey
	cache        *cacheEntry
	prerendering renderKey
	prerenderSeq uint64
}

// New builds a pipeline. Loader and Surface are required.
func New(opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	p := &Pipeline{
		loader:    opts.Loader,
		surface:   opts.Surface,
		caps:      opts.Prefs,
		logger:    logger.With("component", "artwork"),
		width:     opts.Width,
		height:    opts.Height,
		crossfade: opts.Crossfade,
	}
	if p.width <= 0 {
		p.width = defaultWidth
	}
	if p.height <= 0 {
		p.height = defaultHeight
	}
	if p.crossfade <= 0 {
		p.crossfade = defaultCrossfade
	}
	return p
}

// Apply renders and commits the background for change.Value unless it is
// already the committed one. A failed render is logged and returned; the
// previous background stays on screen.
func (p *Pipeline) Apply(ctx context.Context, change diff.Change[player.ImageData]) error {
	img := change.Value
	key := p.keyFor(img)

	p.mu.Lock()
	p.desired = key
	p.mu.Unlock()

	p.renderMu.Lock()
	defer p.renderMu.Unlock()

	if !p.stillDesired(key) {
		p.logger.Debug("skipping superseded render", "url", key.url)
		return nil
	}
	if p.isCommitted(key) {
		return nil
	}

	asset, hit := p.takeCached(key)
	if hit {
		p.logger.Debug("using prerendered background", "url", key.url)
	} else {
		var err error
		asset, err = p.render(ctx, img, key.style)
		if err != nil {
			p.logger.Error("render background", "url", key.url, "err", err)
			return err
		}
	}

	p.mu.Lock()
	if p.desired != key {
		p.mu.Unlock()
		p.logger.Debug("discarding stale render", "url", key.url)
		return nil
	}
	p.committed = key
	p.mu.Unlock()

	fade := p.crossfade
	if !p.enabled(prefs.Transitions) {
		fade = 0
	}
	p.surface.ShowBackground(asset, fade)
	return nil
}

// PrerenderNext renders the background for the upcoming track in the
// background and caches it. It is a no-op when prerendering is disabled or the
// same render is already cached or in flight. A new request evicts whatever
// was cached before. The returned channel is closed when the work is done.
func (p *Pipeline) PrerenderNext(ctx context.Context, img player.ImageData) <-chan struct{} {
	done := make(chan struct{})
	if !p.enabled(prefs.Prerender) {
		close(done)
		return done
	}
	key := p.keyFor(img)

	p.mu.Lock()
	if (p.cache != nil && p.cache.key == key) || p.prerendering == key {
		p.mu.Unlock()
		close(done)
		return done
	}
	p.cache = nil
	p.prerendering = key
	p.prerenderSeq++
	seq := p.prerenderSeq
	p.mu.Unlock()

	go func() {
		defer close(done)
		asset, err := p.render(ctx, img, key.style)

		p.mu.Lock()
		defer p.mu.Unlock()
		if p.prerenderSeq == seq {
			p.prerendering = renderKey{}
		}
		if err != nil {
			p.logger.Warn("prerender background", "url", key.url, "err", err)
			return
		}
		if p.prerenderSeq != seq {
			return
		}
		p.cache = &cacheEntry{key: key, asset: asset}
	}()
	return done
}

// Committed returns the URL of the background currently on screen.
func (p *Pipeline) Committed() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.committed.url
}

func (p *Pipeline) render(ctx context.Context, img player.ImageData, style Style) (*Asset, error) {
	if img.IsBlank() {
		art := DefaultArtwork(defaultArtSize)
		bg, err := Compose(art, DefaultColors, style)
		if err != nil {
			return nil, fmt.Errorf("rasterize default background: %w", err)
		}
		return &Asset{URL: player.BlankImageURL, Artwork: art, Background: bg, Colors: DefaultColors}, nil
	}

	artURL := img.URL
	if img.HDURL != "" && p.enabled(prefs.HDArtwork) {
		artURL = img.HDURL
	}

	var art, source image.Image
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		loaded, err := p.loader.Load(gctx, artURL)
		if err != nil {
			return fmt.Errorf("load artwork: %w", err)
		}
		art = loaded
		return nil
	})
	if style.Artwork && artURL != img.URL {
		g.Go(func() error {
			loaded, err := p.loader.Load(gctx, img.URL)
			if err != nil {
				return fmt.Errorf("load background source: %w", err)
			}
			source = loaded
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if source == nil {
		source = art
	}

	colors := img.Colors
	if colors == (player.ImageColors{}) {
		colors = DefaultColors
	}
	bg, err := Compose(source, colors, style)
	if err != nil {
		return nil, fmt.Errorf("rasterize background: %w", err)
	}
	return &Asset{URL: img.URL, Artwork: art, Background: bg, Colors: colors}, nil
}

func (p *Pipeline) keyFor(img player.ImageData) renderKey {
	url := img.URL
	if img.IsBlank() {
		url = player.BlankImageURL
	} else if img.HDURL != "" && p.enabled(prefs.HDArtwork) {
		url = img.URL + "|" + img.HDURL
	}
	return renderKey{url: url, style: p.style()}
}

func (p *Pipeline) style() Style {
	return Style{
		Width:    p.width,
		Height:   p.height,
		Artwork:  p.enabled(prefs.BackgroundArtwork),
		Tint:     p.enabled(prefs.BackgroundTint),
		Dim:      p.enabled(prefs.BackgroundDim),
		Gradient: p.enabled(prefs.BackgroundGradient),
	}
}

func (p *Pipeline) enabled(id string) bool {
	return p.caps != nil && p.caps.IsEnabled(id)
}

func (p *Pipeline) stillDesired(key renderKey) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.desired == key
}

func (p *Pipeline) isCommitted(key renderKey) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.committed == key
}

// takeCached consumes the prerender entry when it matches key.
func (p *Pipeline) takeCached(key renderKey) (*Asset, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cache == nil || p.cache.key != key {
		return nil, false
	}
	asset := p.cache.asset
	p.cache = nil
	return asset, true
}

