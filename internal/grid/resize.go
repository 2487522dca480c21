package grid

import "fmt"

// ResizeMode selects how drags change column widths. The zero value
// disables resize handles entirely.
type ResizeMode int

const (
	ResizeDisabled ResizeMode = iota
	ResizeOnChange            // width follows the pointer while dragging
	ResizeOnEnd               // width is staged and applied on pointer up
)

func (m ResizeMode) String() string {
	switch m {
	case ResizeOnChange:
		return "onChange"
	case ResizeOnEnd:
		return "onEnd"
	default:
		return ""
	}
}

// ParseResizeMode accepts "onChange" and "onEnd" (case-sensitive, as the
// option names are). Anything else disables resizing.
func ParseResizeMode(s string) ResizeMode {
	switch s {
	case "onChange":
		return ResizeOnChange
	case "onEnd":
		return ResizeOnEnd
	default:
		return ResizeDisabled
	}
}

// ResizePhase is the state of the drag machine.
type ResizePhase int

const (
	ResizeIdle ResizePhase = iota
	ResizeDragging
)

// ResizeDrag is the in-flight drag. It only exists while dragging.
type ResizeDrag struct {
	ColumnID   string
	StartX     float64
	StartWidth float64
	Width      float64 // latest computed width
}

// Resizer is the Idle -> Dragging -> Idle machine translating pointer
// positions into width changes for one column at a time.
type Resizer struct {
	mode  ResizeMode
	phase ResizePhase
	drag  ResizeDrag
}

// NewResizer returns an idle Resizer.
func NewResizer(mode ResizeMode) *Resizer {
	return &Resizer{mode: mode}
}

// Mode returns the configured mode.
func (r *Resizer) Mode() ResizeMode { return r.mode }

// Phase returns the current state.
func (r *Resizer) Phase() ResizePhase { return r.phase }

// Drag returns the in-flight drag, if any.
func (r *Resizer) Drag() (ResizeDrag, bool) {
	if r.phase != ResizeDragging {
		return ResizeDrag{}, false
	}
	return r.drag, true
}

// PointerDown starts a drag on a column's resize handle. It fails when
// resizing is disabled, the column has no handle, or a drag is already in
// progress.
func (r *Resizer) PointerDown(cm resizeTarget, columnID string, x float64) error {
	if r.mode == ResizeDisabled {
		return fmt.Errorf("resize disabled")
	}
	if r.phase == ResizeDragging {
		return fmt.Errorf("resize already in progress on %q", r.drag.ColumnID)
	}
	if !cm.Has(columnID) {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, columnID)
	}
	if !cm.resizable(columnID) {
		return fmt.Errorf("column %q is not resizable", columnID)
	}

	w := cm.Width(columnID)
	r.phase = ResizeDragging
	r.drag = ResizeDrag{ColumnID: columnID, StartX: x, StartWidth: w, Width: w}
	return nil
}

// PointerMove recomputes the width for pointer position x. In
// ResizeOnChange mode the width is applied immediately. It returns the
// new width and false when no drag is active.
func (r *Resizer) PointerMove(cm resizeTarget, x float64) (float64, bool) {
	if r.phase != ResizeDragging {
		return 0, false
	}
	r.drag.Width = cm.clamp(r.drag.ColumnID, r.drag.StartWidth+(x-r.drag.StartX))
	if r.mode == ResizeOnChange {
		cm.SetWidth(r.drag.ColumnID, r.drag.Width)
	}
	return r.drag.Width, true
}

// PointerUp ends the drag at x, commits the final width and returns to
// idle. It returns the finished drag and false when no drag was active.
func (r *Resizer) PointerUp(cm resizeTarget, x float64) (ResizeDrag, bool) {
	if _, ok := r.PointerMove(cm, x); !ok {
		return ResizeDrag{}, false
	}
	cm.SetWidth(r.drag.ColumnID, r.drag.Width)
	done := r.drag
	r.phase = ResizeIdle
	r.drag = ResizeDrag{}
	return done, true
}

// Cancel aborts the drag (e.g. lost pointer capture) and restores the
// pre-drag width. It reports whether a drag was active.
func (r *Resizer) Cancel(cm resizeTarget) bool {
	if r.phase != ResizeDragging {
		return false
	}
	cm.SetWidth(r.drag.ColumnID, r.drag.StartWidth)
	r.phase = ResizeIdle
	r.drag = ResizeDrag{}
	return true
}

// resizeTarget is what the Resizer needs from a column model.
type resizeTarget interface {
	WidthStore
	Has(id string) bool
	resizable(id string) bool
	clamp(id string, w float64) float64
}

func (m *ColumnModel[T]) resizable(id string) bool {
	c, ok := m.Column(id)
	return ok && c.Resizable()
}

func (m *ColumnModel[T]) clamp(id string, w float64) float64 {
	c, ok := m.Column(id)
	if !ok {
		return w
	}
	return c.clampWidth(w)
}
