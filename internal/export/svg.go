package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/artdyn/internal/storage"
	"github.com/san-kum/artdyn/internal/viz"
)

const background = "#0a0a0a"

// CanvasToSVG draws every set dot of a Braille canvas as a circle, scale
// pixels per dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64, color string) string {
	if canvas == nil {
		return ""
	}

	dw, dh := canvas.Dots()
	width := float64(dw) * scale
	height := float64(dh) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s">
`, width, height, width, height, background, color)

	r := scale * 0.4
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
				float64(x)*scale+scale/2, float64(y)*scale+scale/2, r)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// Point is a plotted sample.
type Point struct{ X, Y float64 }

// TraceToSVG plots column y against column x of a stored run. The column
// "time" selects the sample times and "energy" the total energy.
func TraceToSVG(tr *storage.Trace, xcol, ycol string, width, height int, color string) (string, error) {
	xs, err := column(tr, xcol)
	if err != nil {
		return "", err
	}
	ys, err := column(tr, ycol)
	if err != nil {
		return "", err
	}
	pts := make([]Point, 0, len(xs))
	for i := range xs {
		if i < len(ys) {
			pts = append(pts, Point{xs[i], ys[i]})
		}
	}
	if len(pts) < 2 {
		return "", fmt.Errorf("need at least 2 samples, have %d", len(pts))
	}
	return PathToSVG(pts, width, height, color), nil
}

func column(tr *storage.Trace, name string) ([]float64, error) {
	switch name {
	case "time":
		return tr.Times, nil
	case "energy":
		return tr.Energy, nil
	}
	if c := tr.Column(name); c != nil {
		return c, nil
	}
	return nil, fmt.Errorf("unknown column: %s", name)
}

// PathToSVG draws points as a single polyline scaled to fill the image with
// a 10% margin.
func PathToSVG(points []Point, width, height int, color string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, color)

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		if i > 0 {
			sb.WriteString(" L")
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
