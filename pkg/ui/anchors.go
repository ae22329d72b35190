package ui

import "github.com/vanderheijden86/kcal/pkg/tutorial"

// Rect is a screen-space rectangle in terminal cells.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Bottom is the first row below the rectangle.
func (r Rect) Bottom() int { return r.Y + r.Height }

// CenterX is the middle column of the rectangle.
func (r Rect) CenterX() int { return r.X + r.Width/2 }

// Anchors collects where each step's highlighted element was drawn during
// one layout pass. It is rebuilt on every render.
type Anchors map[tutorial.Step]Rect

// Register records rect for step, replacing any earlier entry.
func (a Anchors) Register(step tutorial.Step, rect Rect) {
	a[step] = rect
}

// For returns the rectangle registered for step.
func (a Anchors) For(step tutorial.Step) (Rect, bool) {
	r, ok := a[step]
	return r, ok
}
