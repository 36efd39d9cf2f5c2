package canvas

import (
	"image"
	"slices"
)

// LinePoints returns the 8-connected Bresenham path from p0 to p1, both
// endpoints included. The path is traced in a canonical direction so that
// swapping the endpoints yields exactly the reversed sequence.
func LinePoints(p0, p1 image.Point) []image.Point {
	if p0.X > p1.X || (p0.X == p1.X && p0.Y > p1.Y) {
		pts := bresenham(p1, p0)
		slices.Reverse(pts)
		return pts
	}
	return bresenham(p0, p1)
}

func bresenham(p0, p1 image.Point) []image.Point {
	dx := abs(p1.X - p0.X)
	dy := abs(p1.Y - p0.Y)
	sx := -1
	if p0.X < p1.X {
		sx = 1
	}
	sy := -1
	if p0.Y < p1.Y {
		sy = 1
	}
	pts := make([]image.Point, 0, max(dx, dy)+1)
	x, y := p0.X, p0.Y
	err := dx - dy
	for {
		pts = append(pts, image.Pt(x, y))
		if x == p1.X && y == p1.Y {
			return pts
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// Footprint returns the disc stamped by a brush of the given size centred on
// center. Size 1 is the center alone; larger sizes cover every offset with
// dx²+dy² < r²+r where r = size-1.
func Footprint(center image.Point, size int) []image.Point {
	if size <= 1 {
		return []image.Point{center}
	}
	r := size - 1
	limit := r*r + r
	pts := make([]image.Point, 0, (2*r+1)*(2*r+1))
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy < limit {
				pts = append(pts, center.Add(image.Pt(dx, dy)))
			}
		}
	}
	return pts
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
