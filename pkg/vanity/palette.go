package vanity

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
)

type PaletteEntry struct {
	Hex   string
	Label string
}

// Palette is the fixed list of suggestions shown by /vanity_palette.
var Palette = []PaletteEntry{
	{Hex: "#ff9ed4", Label: "Cherry Blossom"},
	{Hex: "#ff6ec7", Label: "Candy Pink"},
	{Hex: "#a29bfe", Label: "Lavender Dreams"},
	{Hex: "#6af5ff", Label: "Aqua Ice"},
	{Hex: "#ffd95d", Label: "Soft Gold"},
	{Hex: "#9dffb3", Label: "Mint Glow"},
}

const SwatchTileSize = 64

func FormatPalette(entries []PaletteEntry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s  (%s)", e.Hex, e.Label))
	}
	return "🎨 **Nice color ideas:**\n" + strings.Join(lines, "\n")
}

// RenderSwatch draws one square tile per entry, left to right, and returns a PNG.
func RenderSwatch(entries []PaletteEntry, tileSize int) ([]byte, error) {
	if len(entries) == 0 {
		return nil, errors.New("no palette entries to render")
	}
	if tileSize <= 0 {
		tileSize = SwatchTileSize
	}

	canvas := imaging.New(tileSize*len(entries), tileSize, color.Transparent)
	for i, e := range entries {
		c, err := ParseColor(e.Hex)
		if err != nil {
			return nil, fmt.Errorf("palette entry %q: %w", e.Label, err)
		}
		tile := imaging.New(tileSize, tileSize, toNRGBA(c))
		canvas = imaging.Paste(canvas, tile, image.Pt(i*tileSize, 0))
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode swatch: %w", err)
	}
	return buf.Bytes(), nil
}

func toNRGBA(c int) color.NRGBA {
	return color.NRGBA{
		R: uint8(c >> 16),
		G: uint8(c >> 8),
		B: uint8(c),
		A: 0xff,
	}
}
