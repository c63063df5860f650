package selection

// DefaultDragThreshold is the displacement, in cells, a pointer must exceed on
// either axis before a press turns into a drag-select.
const DefaultDragThreshold = 5

type State uint8

const (
	StateIdle State = iota
	StateArmed
	StateDragging
)

func (s State) String() string {
	switch s {
	case StateArmed:
		return "armed"
	case StateDragging:
		return "dragging"
	default:
		return "idle"
	}
}

// Tracker runs the drag-select gesture. It owns the live rectangle and the
// preview set; committing into the persisted selection is left to the caller.
type Tracker struct {
	threshold int
	state     State
	start     Point
	end       Point
	preview   Set
}

func NewTracker(threshold int) *Tracker {
	if threshold <= 0 {
		threshold = DefaultDragThreshold
	}
	return &Tracker{threshold: threshold}
}

func (t *Tracker) State() State { return t.state }

func (t *Tracker) Threshold() int { return t.threshold }

// Down arms the tracker. A press while already armed or dragging restarts the gesture.
func (t *Tracker) Down(p Point) {
	t.state = StateArmed
	t.start = p
	t.end = p
	t.preview = nil
}

// Move updates the gesture. It reports whether the preview set changed. Only
// the latest position matters; intermediate moves are not retained.
func (t *Tracker) Move(p Point, rendered map[string]Rect) bool {
	switch t.state {
	case StateArmed:
		dx, dy := abs(p.X-t.start.X), abs(p.Y-t.start.Y)
		if dx <= t.threshold && dy <= t.threshold {
			return false
		}
		t.state = StateDragging
	case StateDragging:
	default:
		return false
	}
	t.end = p
	next := Preview(RectFromPoints(t.start, t.end), rendered)
	if next.Equal(t.preview) && t.preview != nil {
		return false
	}
	t.preview = next
	return true
}

// Up ends the gesture. When a drag happened it returns the preview set to
// commit and dragged=true; otherwise the press was a plain click.
func (t *Tracker) Up() (committed Set, dragged bool) {
	if t.state == StateDragging {
		committed, dragged = t.preview, true
		if committed == nil {
			committed = Set{}
		}
	}
	t.reset()
	return committed, dragged
}

// Cancel abandons the gesture without committing.
func (t *Tracker) Cancel() {
	t.reset()
}

// Preview returns the live preview set; nil outside a drag.
func (t *Tracker) Preview() Set {
	if t.state != StateDragging {
		return nil
	}
	return t.preview
}

// Rect returns the live rectangle while dragging.
func (t *Tracker) Rect() (Rect, bool) {
	if t.state != StateDragging {
		return Rect{}, false
	}
	return RectFromPoints(t.start, t.end), true
}

func (t *Tracker) reset() {
	t.state = StateIdle
	t.start = Point{}
	t.end = Point{}
	t.preview = nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
