package analysis

import (
	"math"
	"strings"
)

type Point struct{ X, Y float64 }

// Zip pairs two series, truncating to the shorter.
func Zip(xs, ys []float64) []Point {
	n := min(len(xs), len(ys))
	pts := make([]Point, n)
	for i := range n {
		pts[i] = Point{xs[i], ys[i]}
	}
	return pts
}

// PhasePortraitASCII plots points on a width x height grid with axes drawn
// where they fall inside the padded bounds.
func PhasePortraitASCII(points []Point, width, height int) string {
	if len(points) == 0 || width < 2 || height < 2 {
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
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}
	col := func(x float64) int { return int((x - minX) / rangeX * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/rangeY*float64(height-1)) }

	for _, p := range points {
		r, c := row(p.Y), col(p.X)
		if r >= 0 && r < height && c >= 0 && c < width {
			grid[r][c] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		c := col(0)
		for r := range grid {
			if grid[r][c] == ' ' {
				grid[r][c] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		r := row(0)
		for c := range grid[r] {
			if grid[r][c] == ' ' {
				grid[r][c] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, r := range grid {
		sb.WriteString(string(r))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// PoincareSection records (xs, ys) wherever cross passes threshold going
// upward, linearly interpolated to the crossing.
func PoincareSection(cross, xs, ys []float64, threshold float64) []Point {
	n := min(len(cross), len(xs), len(ys))
	var pts []Point
	for i := 1; i < n; i++ {
		a, b := cross[i-1], cross[i]
		if a >= threshold || b < threshold {
			continue
		}
		f := (threshold - a) / (b - a)
		pts = append(pts, Point{
			X: xs[i-1] + f*(xs[i]-xs[i-1]),
			Y: ys[i-1] + f*(ys[i]-ys[i-1]),
		})
	}
	return pts
}
