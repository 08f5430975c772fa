package render

import (
	"fmt"
	"html"
	"io"
	"strings"
)

// SVGOptions controls the SVG export layout, in pixels.
type SVGOptions struct {
	Width        int
	LabelWidth   int
	HeaderHeight int
	Title        string
	Colors       map[Status]string
	Background   string
	Foreground   string
	GridColor    string
}

// DefaultSVGOptions returns the export layout used by the CLI.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:        1200,
		LabelWidth:   200,
		HeaderHeight: 40,
		Background:   "#1e1e2e",
		Foreground:   "#cdd6f4",
		GridColor:    "#45475a",
		Colors: map[Status]string{
			StatusDone:     "#585b70",
			StatusProgress: "#a6e3a1",
			StatusPending:  "#89b4fa",
			StatusLunch:    "#f9e2af",
			StatusOffDuty:  "#f38ba8",
		},
	}
}

const svgBarHeight = 26

// SVG writes the board as a standalone SVG document. Row heights and lane
// offsets are taken from the board.
func SVG(w io.Writer, b Board, opts SVGOptions) error {
	if opts.Width <= opts.LabelWidth {
		return fmt.Errorf("svg width %d must exceed label width %d", opts.Width, opts.LabelWidth)
	}
	trackWidth := float64(opts.Width - opts.LabelWidth)

	height := opts.HeaderHeight
	for _, r := range b.Rows {
		height += r.Height
	}
	if b.Empty {
		height += 50
	}

	var svg strings.Builder
	svg.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg" font-family="sans-serif">
<rect width="100%%" height="100%%" fill="%s"/>
`, opts.Width, height, opts.Background))

	if opts.Title != "" {
		svg.WriteString(fmt.Sprintf(`<text x="8" y="24" font-size="14" font-weight="bold" fill="%s">%s</text>
`, opts.Foreground, html.EscapeString(opts.Title)))
	}

	if b.Empty {
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" text-anchor="middle" font-size="13" fill="%s">%s</text>
`, opts.Width/2, opts.HeaderHeight+30, opts.Foreground, html.EscapeString(b.EmptyText)))
		svg.WriteString("</svg>\n")
		_, err := io.WriteString(w, svg.String())
		return err
	}

	for i, h := range b.Hours {
		x := opts.LabelWidth + int(float64(i)*trackWidth/float64(len(b.Hours)))
		svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="1"/>
<text x="%d" y="%d" font-size="11" fill="%s">%s</text>
`, x, opts.HeaderHeight-6, x, height, opts.GridColor, x+3, opts.HeaderHeight-10, opts.Foreground, h))
	}

	y := opts.HeaderHeight
	for _, r := range b.Rows {
		svg.WriteString(fmt.Sprintf(`<line x1="0" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="1"/>
<text x="8" y="%d" font-size="12" fill="%s">%s</text>
`, y, opts.Width, y, opts.GridColor, y+20, opts.Foreground, html.EscapeString(r.Label)))
		for _, bar := range r.Bars {
			x := float64(opts.LabelWidth) + bar.LeftPct/100*trackWidth
			width := bar.WidthPct / 100 * trackWidth
			top := y + bar.Top
			if !r.Stacked {
				top = y + (r.Height-svgBarHeight)/2
			}
			fill := opts.Colors[bar.Status]
			if fill == "" {
				fill = opts.Foreground
			}
			svg.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%d" width="%.1f" height="%d" rx="4" fill="%s"><title>%s</title></rect>
<text x="%.1f" y="%d" font-size="11" fill="%s">%s</text>
`, x, top, width, svgBarHeight, fill, html.EscapeString(bar.Title), x+4, top+17, opts.Background, html.EscapeString(bar.Text)))
		}
		y += r.Height
	}

	svg.WriteString("</svg>\n")
	_, err := io.WriteString(w, svg.String())
	return err
}
