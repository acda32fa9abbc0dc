package explore

// Overlay is the single tooltip shared by every view. Pointer handling shows
// it; leaving a mark or changing view hides it.
type Overlay struct {
	visible bool
	x, y    float64
	lines   []string
	owner   string
}

// Show places the tooltip at (x, y) on behalf of owner.
func (o *Overlay) Show(owner string, x, y float64, lines ...string) {
	o.visible = true
	o.owner = owner
	o.x, o.y = x, y
	o.lines = lines
}

// Hide clears the tooltip.
func (o *Overlay) Hide() {
	o.visible = false
	o.owner = ""
	o.lines = nil
}

// Visible reports whether the tooltip is shown.
func (o *Overlay) Visible() bool { return o.visible }

// Owner is the mark the tooltip describes.
func (o *Overlay) Owner() string { return o.owner }

// Position returns the anchor point.
func (o *Overlay) Position() (float64, float64) { return o.x, o.y }

// Lines returns the tooltip text.
func (o *Overlay) Lines() []string { return o.lines }
