package selection

// Point is a pointer position in grid cells.
type Point struct {
	X int
	Y int
}

// Rect is an axis-aligned rectangle covering [X, X+W) x [Y, Y+H).
type Rect struct {
	X int
	Y int
	W int
	H int
}

// Empty reports whether the rectangle has non-positive dimensions.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains reports whether the point lies within the rectangle.
func (r Rect) Contains(p Point) bool {
	if r.Empty() {
		return false
	}
	return p.X >= r.X && p.Y >= r.Y && p.X < r.X+r.W && p.Y < r.Y+r.H
}

// Intersects reports overlap. Rectangles that only share an edge do not
// intersect, and empty rectangles intersect nothing.
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// RectFromPoints spans both pointer cells inclusively, whatever the drag direction.
func RectFromPoints(a, b Point) Rect {
	x0, x1 := min(a.X, b.X), max(a.X, b.X)
	y0, y1 := min(a.Y, b.Y), max(a.Y, b.Y)
	return Rect{X: x0, Y: y0, W: x1 - x0 + 1, H: y1 - y0 + 1}
}

// Preview returns the IDs of rendered panels touched by r.
func Preview(r Rect, rendered map[string]Rect) Set {
	out := Set{}
	for id, bounds := range rendered {
		if r.Intersects(bounds) {
			out[id] = struct{}{}
		}
	}
	return out
}

// HitTest returns the panel under p. When panels overlap the lexically smallest
// ID wins so the result is stable.
func HitTest(p Point, rendered map[string]Rect) (string, bool) {
	hit := ""
	for id, bounds := range rendered {
		if bounds.Contains(p) && (hit == "" || id < hit) {
			hit = id
		}
	}
	return hit, hit != ""
}
