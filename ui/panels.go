package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// DivePanel lets the viewer steer the observer's goal with a slider.
type DivePanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewDivePanel creates a dive panel.
func NewDivePanel(x, y, width int32) *DivePanel {
	return &DivePanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (d *DivePanel) SetPosition(x, y int32) {
	d.x = x
	d.y = y
}

// Draw renders the slider and returns the (possibly changed) goal.
func (d *DivePanel) Draw(goal, minX, maxX float64) float64 {
	r := d.renderer
	pad := r.Theme.Padding
	r.DrawPanel(d.x, d.y, d.width, 64)

	y := r.DrawSectionHeader(d.x+pad, d.y+pad/2, "Dive")
	bounds := rl.Rectangle{
		X:      float32(d.x + pad + 30),
		Y:      float32(y),
		Width:  float32(d.width - 2*pad - 100),
		Height: 20,
	}
	next := gui.SliderBar(bounds,
		"shore", "",
		float32(goal), float32(minX), float32(maxX),
	)
	rl.DrawText(fmt.Sprintf("%.1f", next), int32(bounds.X+bounds.Width)+8, y+3, 14, r.Theme.ValueColor)
	return float64(next)
}

// Selection describes the agent the viewer clicked on.
type Selection struct {
	Species  string
	Position [3]float64
	Speed    float64
	Radius   float64
}

// InspectPanel shows the selected agent.
type InspectPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewInspectPanel creates an inspect panel.
func NewInspectPanel(x, y, width int32) *InspectPanel {
	return &InspectPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (p *InspectPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the selection.
func (p *InspectPanel) Draw(sel Selection) {
	r := p.renderer
	pad := r.Theme.Padding
	r.DrawPanel(p.x, p.y, p.width, 6*r.Theme.LineHeight+pad)

	x := p.x + pad
	y := r.DrawSectionHeader(x, p.y+pad/2, "Selected")
	y = r.DrawLabelValue(x, y, "Species", sel.Species)
	y = r.DrawLabelValue(x, y, "Position", fmt.Sprintf("%.1f, %.1f, %.1f", sel.Position[0], sel.Position[1], sel.Position[2]))
	y = r.DrawLabelValue(x, y, "Speed", fmt.Sprintf("%.2f", sel.Speed))
	r.DrawLabelValue(x, y, "Radius", fmt.Sprintf("%.2f", sel.Radius))
}
