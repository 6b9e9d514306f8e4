// Package story composes vertical "story" images: a blurred cover-fit
// background with a centred message, its attribution and a footer label.
package story

import (
	"image"
	"image/draw"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"

	"github.com/xob0t/storygen/pkg/fonts"
	"github.com/xob0t/storygen/pkg/generator"
)

// Request is one story to generate.
type Request struct {
	Message     string
	Attribution string
	Background  string // path of the background image
	Output      string // PNG path; DefaultOutput when empty
}

// Composer renders story images. It holds no state between calls besides
// its configuration, so one Composer may serve concurrent requests.
type Composer struct {
	cfg   Config
	log   *slog.Logger
	fonts *fonts.Set
}

// Option configures a Composer.
type Option func(*Composer)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *Composer) {
		if l != nil {
			c.log = l
		}
	}
}

// WithFonts makes the composer draw with set instead of resolving fonts on
// every call. The caller owns set and closes it.
func WithFonts(set *fonts.Set) Option {
	return func(c *Composer) { c.fonts = set }
}

// New returns a Composer for cfg.
func New(cfg Config, opts ...Option) *Composer {
	c := &Composer{
		cfg: cfg,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the composer's configuration.
func (c *Composer) Config() Config { return c.cfg }

// Validate normalises req and checks the required fields. A blank
// attribution becomes the anonymous placeholder and a blank output the
// default file name.
func (c *Composer) Validate(req Request) (Request, error) {
	req.Message = norm.NFC.String(strings.TrimSpace(req.Message))
	req.Attribution = norm.NFC.String(strings.TrimSpace(req.Attribution))
	req.Background = strings.TrimSpace(req.Background)
	req.Output = strings.TrimSpace(req.Output)

	if req.Message == "" {
		return req, ErrNoMessage
	}
	if req.Background == "" {
		return req, ErrNoBackground
	}
	if req.Attribution == "" {
		req.Attribution = c.cfg.Anonymous
	}
	if req.Output == "" {
		req.Output = DefaultOutput
	}
	return req, nil
}

// Fonts resolves the font set for one call. The returned release func must
// be called when drawing is done.
func (c *Composer) Fonts() (*fonts.Set, func(), error) {
	if c.fonts != nil {
		return c.fonts, func() {}, nil
	}

	set, err := fonts.Load(c.cfg.Candidates(), c.cfg.Sizes)
	if err != nil {
		return nil, nil, errors.Wrap(err, "load fonts")
	}
	if set.Degraded() {
		attrs := []any{"candidates", c.cfg.Candidates()}
		if set.Reason != nil {
			attrs = append(attrs, "reason", set.Reason)
		}
		c.log.Warn("no usable font file, drawing with built-in face", attrs...)
	} else {
		c.log.Debug("fonts resolved", "path", set.Path)
	}
	return set, func() { set.Close() }, nil
}

// Compose draws a story over bg and returns the canvas.
func (c *Composer) Compose(bg image.Image, message, attribution string) (*image.RGBA, error) {
	if bg == nil || bg.Bounds().Empty() {
		return nil, errors.New("empty background image")
	}
	start := time.Now()

	backdrop := Backdrop(bg, c.cfg.Width, c.cfg.Height, c.cfg.BlurSigma)

	canvas := image.NewRGBA(image.Rect(0, 0, c.cfg.Width, c.cfg.Height))
	draw.Draw(canvas, canvas.Bounds(), backdrop, backdrop.Bounds().Min, draw.Src)

	set, release, err := c.Fonts()
	if err != nil {
		return nil, err
	}
	defer release()

	plan := PlanText(c.cfg, set, message, attribution)
	for _, p := range plan.Placements() {
		drawShadowed(canvas, p, c.cfg.ShadowColor)
	}

	c.log.Debug("story composed",
		"lines", len(plan.Lines),
		"fonts", set.Source.String(),
		"elapsed", time.Since(start),
	)
	return canvas, nil
}

// Render decodes the background of an already validated req and composes
// the story.
func (c *Composer) Render(req Request) (*image.RGBA, error) {
	bg, err := LoadImage(req.Background)
	if err != nil {
		return nil, &GenerateError{Op: "decode", Path: req.Background, Err: err}
	}

	img, err := c.Compose(bg, req.Message, req.Attribution)
	if err != nil {
		return nil, &GenerateError{Op: "compose", Err: err}
	}
	return img, nil
}

// Generate validates req, renders it and writes the PNG. It returns the
// output path. Nothing is written at the output path unless every step
// succeeds.
func (c *Composer) Generate(req Request) (string, error) {
	req, err := c.Validate(req)
	if err != nil {
		return "", err
	}

	img, err := c.Render(req)
	if err != nil {
		return "", err
	}

	if err := generator.WritePNG(req.Output, img); err != nil {
		return "", &GenerateError{Op: "encode", Path: req.Output, Err: err}
	}

	c.log.Info("story written", "output", req.Output, "background", req.Background)
	return req.Output, nil
}
