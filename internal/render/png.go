package render

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// PNGOptions sizes the raster output. Zero values fall back to defaults.
type PNGOptions struct {
	NodeRadius float64
	HGap       float64
	VGap       float64
	Margin     float64
	MaxPerRow  int
	FontSize   float64

	// FontPath points at a TTF with the glyphs the labels need (Hebrew
	// course names, for one). Empty uses the embedded Go font.
	FontPath string
}

func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		NodeRadius: 55,
		HGap:       40,
		VGap:       90,
		Margin:     40,
		MaxPerRow:  12,
		FontSize:   11,
	}
}

func (o PNGOptions) withDefaults() PNGOptions {
	def := DefaultPNGOptions()
	if o.NodeRadius <= 0 {
		o.NodeRadius = def.NodeRadius
	}
	if o.HGap <= 0 {
		o.HGap = def.HGap
	}
	if o.VGap <= 0 {
		o.VGap = def.VGap
	}
	if o.Margin <= 0 {
		o.Margin = def.Margin
	}
	if o.MaxPerRow <= 0 {
		o.MaxPerRow = def.MaxPerRow
	}
	if o.FontSize <= 0 {
		o.FontSize = def.FontSize
	}
	return o
}

// RenderPNG draws g as a layered diagram and writes it as PNG.
func RenderPNG(w io.Writer, g Graph, opts PNGOptions) error {
	opts = opts.withDefaults()

	face, err := loadFontFace(opts.FontPath, opts.FontSize)
	if err != nil {
		return err
	}

	pos, rows, cols := layered(g, opts.MaxPerRow)
	if rows == 0 {
		rows, cols = 1, 1
	}
	cell := 2*opts.NodeRadius + opts.HGap
	rowH := 2*opts.NodeRadius + opts.VGap
	width := int(math.Ceil(2*opts.Margin + float64(cols)*cell))
	height := int(math.Ceil(2*opts.Margin + float64(rows)*rowH))

	center := func(id string) (float64, float64) {
		p := pos[id]
		return opts.Margin + p.col*cell + cell/2, opts.Margin + float64(p.row)*rowH + rowH/2
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()

	dc.SetLineWidth(1.5)
	for _, e := range g.Edges {
		x0, y0 := center(e.From)
		x1, y1 := center(e.To)
		drawArrow(dc, x0, y0, x1, y1, opts.NodeRadius, EdgeColor(e.State))
	}

	dc.SetFontFace(face)
	_, lineH := dc.MeasureString("Hg")
	lineH *= 1.2
	for _, n := range g.Nodes {
		x, y := center(n.ID)
		dc.DrawCircle(x, y, opts.NodeRadius)
		dc.SetHexColor(NodeColor(n.State))
		dc.FillPreserve()
		dc.SetColor(color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff})
		dc.SetLineWidth(1)
		dc.Stroke()

		lines := WrapLabel(n.Label, DefaultWrapWidth)
		top := y - lineH*float64(len(lines)-1)/2
		dc.SetColor(color.Black)
		for i, line := range lines {
			dc.DrawStringAnchored(line, x, top+float64(i)*lineH, 0.5, 0.35)
		}
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("render: encode png: %w", err)
	}
	return nil
}

// drawArrow draws a line between two node centers, trimmed to the circle
// borders, with a filled head at the target.
func drawArrow(dc *gg.Context, x0, y0, x1, y1, radius float64, hex string) {
	dx, dy := x1-x0, y1-y0
	dist := math.Hypot(dx, dy)
	if dist <= 2*radius {
		return
	}
	ux, uy := dx/dist, dy/dist
	sx, sy := x0+ux*radius, y0+uy*radius
	ex, ey := x1-ux*radius, y1-uy*radius

	dc.SetHexColor(hex)
	dc.DrawLine(sx, sy, ex, ey)
	dc.Stroke()

	const head = 10.0
	bx, by := ex-ux*head, ey-uy*head
	px, py := -uy*head/2, ux*head/2
	dc.MoveTo(ex, ey)
	dc.LineTo(bx+px, by+py)
	dc.LineTo(bx-px, by-py)
	dc.ClosePath()
	dc.Fill()
}

func loadFontFace(path string, size float64) (font.Face, error) {
	data := goregular.TTF
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("render: read font: %w", err)
		}
		data = raw
	}
	parsed, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("render: parse font: %w", err)
	}
	return truetype.NewFace(parsed, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}
