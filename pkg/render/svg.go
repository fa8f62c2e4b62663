package render

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/floatplace/pkg/geom"
)

// Theme holds the colours of an SVG rendering.
type Theme struct {
	Background string
	Element    string
	Clip       string
	Reference  string
	Floating   string
	Arrow      string
	Text       string
}

var (
	Light = Theme{
		Background: "#ffffff",
		Element:    "#e5e7eb",
		Clip:       "#6b7280",
		Reference:  "#3b82f6",
		Floating:   "#f59e0b",
		Arrow:      "#b45309",
		Text:       "#111827",
	}
	Dark = Theme{
		Background: "#111827",
		Element:    "#1f2937",
		Clip:       "#9ca3af",
		Reference:  "#60a5fa",
		Floating:   "#fbbf24",
		Arrow:      "#f59e0b",
		Text:       "#f9fafb",
	}
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	theme  Theme
	labels bool
	margin float64
}

func WithTheme(t Theme) SVGOption    { return func(r *svgRenderer) { r.theme = t } }
func WithLabels() SVGOption          { return func(r *svgRenderer) { r.labels = true } }
func WithMargin(m float64) SVGOption { return func(r *svgRenderer) { r.margin = max(0, m) } }

// RenderSVG draws the frame as a standalone SVG document. The floating
// element is hatched when it is hidden.
func RenderSVG(f Frame, opts ...SVGOption) []byte {
	r := svgRenderer{theme: Light, margin: 20}
	for _, opt := range opts {
		opt(&r)
	}

	vp := f.Viewport
	w, h := vp.Width+2*r.margin, vp.Height+2*r.margin+24

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		vp.X-r.margin, vp.Y-r.margin, w, h, w, h)
	r.renderDefs(&buf)
	fmt.Fprintf(&buf, `  <rect class="viewport" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s"/>`+"\n",
		vp.X, vp.Y, vp.Width, vp.Height, r.theme.Background, r.theme.Clip)

	for _, n := range f.Elements {
		if n.Rect == f.Reference {
			continue
		}
		stroke := "none"
		dash := ""
		if n.Clip {
			stroke = r.theme.Clip
			dash = ` stroke-dasharray="6 4"`
		}
		fmt.Fprintf(&buf, `  <rect class="element" id="el-%s" %s fill="%s" fill-opacity="0.6" stroke="%s"%s/>`+"\n",
			escapeXML(n.ID), rectAttrs(n.Rect), r.theme.Element, stroke, dash)
	}

	fmt.Fprintf(&buf, `  <rect class="reference" %s fill="%s" fill-opacity="0.8"/>`+"\n",
		rectAttrs(f.Reference), r.theme.Reference)

	fill := r.theme.Floating
	if f.Hidden {
		fill = "url(#hidden)"
	}
	fmt.Fprintf(&buf, `  <rect class="floating" %s fill="%s" fill-opacity="0.85" stroke="%s"/>`+"\n",
		rectAttrs(f.Floating), fill, r.theme.Arrow)

	if a := f.Arrow; a != nil {
		cx, cy := a.X+a.Width/2, a.Y+a.Height/2
		fmt.Fprintf(&buf, `  <rect class="arrow" %s fill="%s" transform="rotate(45 %.1f %.1f)"/>`+"\n",
			rectAttrs(*a), r.theme.Arrow, cx, cy)
	}

	if r.labels {
		r.renderLabels(&buf, f)
	}

	caption := fmt.Sprintf("%s (%g, %g)", f.Placement, f.Coords.X, f.Coords.Y)
	if f.Title != "" {
		caption = f.Title + ": " + caption
	}
	if f.Hidden {
		caption += " hidden"
	}
	fmt.Fprintf(&buf, `  <text class="placement" x="%.1f" y="%.1f" font-family="monospace" font-size="14" fill="%s">%s</text>`+"\n",
		vp.X, vp.Y+vp.Height+r.margin, r.theme.Text, escapeXML(caption))

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderDefs(buf *bytes.Buffer) {
	fmt.Fprintf(buf, `  <defs>
    <pattern id="hidden" width="8" height="8" patternUnits="userSpaceOnUse" patternTransform="rotate(45)">
      <rect width="8" height="8" fill="%s"/>
      <line x1="0" y1="0" x2="0" y2="8" stroke="%s" stroke-width="3"/>
    </pattern>
  </defs>
`, r.theme.Background, r.theme.Floating)
}

func (r *svgRenderer) renderLabels(buf *bytes.Buffer, f Frame) {
	label := func(text string, rect geom.Rect) {
		fmt.Fprintf(buf, `  <text class="label" x="%.1f" y="%.1f" font-family="monospace" font-size="11" fill="%s">%s</text>`+"\n",
			rect.X+3, rect.Y+12, r.theme.Text, escapeXML(text))
	}
	for _, n := range f.Elements {
		if n.Rect != f.Reference {
			label(n.ID, n.Rect)
		}
	}
	label("reference", f.Reference)
	label("floating", f.Floating)
}

func rectAttrs(r geom.Rect) string {
	return fmt.Sprintf(`x="%.1f" y="%.1f" width="%.1f" height="%.1f"`, r.X, r.Y, r.Width, r.Height)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
