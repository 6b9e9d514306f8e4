package story

import (
	"image/color"

	"github.com/xob0t/storygen/pkg/fonts"
	"github.com/xob0t/storygen/pkg/generator"
)

// Story canvas size.
const (
	Width  = 1080
	Height = 1920
)

// DefaultOutput is written when a request names no output path.
const DefaultOutput = "versiculo.png"

// Config holds every layout constant of a story image. It is passed to the
// composer explicitly; nothing here is read from package state.
type Config struct {
	Width  int
	Height int
	Margin int // horizontal text margin on each side

	Sizes          fonts.Sizes
	FontPath       string   // probed before FontCandidates when set
	FontCandidates []string // probed in order

	LineSpacing    int // added to the reference line height
	AttributionGap int // between the last message line and the attribution
	FooterOffset   int // footer top, measured up from the bottom edge

	BlurSigma float64

	MessageColor      color.NRGBA
	AttributionColor  color.NRGBA
	FooterColor       color.NRGBA
	ShadowColor       color.NRGBA
	MessageShadow     int
	AttributionShadow int
	FooterShadow      int

	AttributionPrefix string
	Anonymous         string // used when the attribution is blank
	Footer            string
}

// DefaultConfig returns the reference story layout.
func DefaultConfig() Config {
	white := generator.MustParseHex("#ffffff")
	return Config{
		Width:  Width,
		Height: Height,
		Margin: 80,

		Sizes:          fonts.DefaultSizes,
		FontCandidates: append([]string(nil), fonts.DefaultCandidates...),

		LineSpacing:    12,
		AttributionGap: 20,
		FooterOffset:   60,

		BlurSigma: 12,

		MessageColor:      white,
		AttributionColor:  generator.MustParseHex("#e6e6e6"),
		FooterColor:       white,
		ShadowColor:       generator.MustParseHex("#000000b4"),
		MessageShadow:     3,
		AttributionShadow: 2,
		FooterShadow:      1,

		AttributionPrefix: "— ",
		Anonymous:         "Anônimo",
		Footer:            "@elizeu.dev",
	}
}

// Candidates is the font probe order: FontPath first, then FontCandidates.
func (c Config) Candidates() []string {
	if c.FontPath == "" {
		return c.FontCandidates
	}
	return append([]string{c.FontPath}, c.FontCandidates...)
}

// TextWidth is the width available to the message.
func (c Config) TextWidth() int {
	return c.Width - 2*c.Margin
}
