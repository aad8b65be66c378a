package systems

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestComputeSwimBox(t *testing.T) {
	params := WorldParams{Floor: -20, Surface: 0, Shore: 0, Left: -5, Right: 5, ObserverX: 40}

	box := ComputeSwimBox(params, BoxShape{Margin: 1, MinSpan: 0.01})
	want := SwimBox{Min: r3.Vec{X: 1, Y: -19, Z: -4}, Max: r3.Vec{X: 39, Y: -1, Z: 4}}
	if box != want {
		t.Errorf("box = %+v, want %+v", box, want)
	}

	box = ComputeSwimBox(params, BoxShape{ObserverLead: 5, MinSpan: 0.01})
	if box.Max.X != 45 {
		t.Errorf("Max.X with lead = %v, want 45", box.Max.X)
	}
}

func TestComputeSwimBoxDegenerateSpans(t *testing.T) {
	tests := []struct {
		name   string
		params WorldParams
	}{
		{"observer behind shore", WorldParams{Floor: -10, Surface: 0, Shore: 5, Left: -1, Right: 1, ObserverX: 2}},
		{"floor above surface", WorldParams{Floor: 3, Surface: 0, Shore: 0, Left: -1, Right: 1, ObserverX: 10}},
		{"zero width", WorldParams{Floor: -10, Surface: 0, Shore: 0, Left: 2, Right: 2, ObserverX: 10}},
		{"margin swallows everything", WorldParams{Floor: -0.1, Surface: 0, Shore: 0, Left: 0, Right: 0.1, ObserverX: 0.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box := ComputeSwimBox(tt.params, BoxShape{Margin: 0.5, MinSpan: 0.25})
			span := box.Span()
			if span.X < 0.25 || span.Y < 0.25 || span.Z < 0.25 {
				t.Errorf("span = %v, want every axis >= 0.25", span)
			}
		})
	}
}

func TestSwimBoxClampAndContains(t *testing.T) {
	box := SwimBox{Min: r3.Vec{X: 0, Y: -10, Z: -5}, Max: r3.Vec{X: 12, Y: 0, Z: 5}}

	inside := r3.Vec{X: 6, Y: -5, Z: 0}
	if !box.Contains(inside) {
		t.Errorf("Contains(%v) = false", inside)
	}
	if got := box.Clamp(inside); got != inside {
		t.Errorf("Clamp moved an inside point to %v", got)
	}

	outside := r3.Vec{X: 15, Y: -20, Z: 1}
	if box.Contains(outside) {
		t.Errorf("Contains(%v) = true", outside)
	}
	clamped := box.Clamp(outside)
	if clamped != (r3.Vec{X: 12, Y: -10, Z: 1}) {
		t.Errorf("Clamp(%v) = %v", outside, clamped)
	}
	if !box.Contains(clamped) {
		t.Error("clamped point not contained")
	}
}

func TestSwimBoxInward(t *testing.T) {
	box := SwimBox{Min: r3.Vec{X: 0, Y: 0, Z: 0}, Max: r3.Vec{X: 10, Y: 10, Z: 10}}

	tests := []struct {
		p    r3.Vec
		want r3.Vec
	}{
		{r3.Vec{X: 5, Y: 5, Z: 5}, r3.Vec{}},
		{r3.Vec{X: 12, Y: 5, Z: 5}, r3.Vec{X: -2}},
		{r3.Vec{X: 5, Y: -3, Z: 11}, r3.Vec{Y: 3, Z: -1}},
	}
	for _, tt := range tests {
		if got := box.Inward(tt.p); got != tt.want {
			t.Errorf("Inward(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestSwimBoxNormalized(t *testing.T) {
	box := SwimBox{Min: r3.Vec{X: 10, Y: -20, Z: -5}, Max: r3.Vec{X: 20, Y: 0, Z: 5}}
	got := box.Normalized(r3.Vec{X: 12.5, Y: -5, Z: 5})
	want := r3.Vec{X: 0.25, Y: 0.75, Z: 1}
	if got != want {
		t.Errorf("Normalized = %v, want %v", got, want)
	}
	if c := box.Center(); c != (r3.Vec{X: 15, Y: -10, Z: 0}) {
		t.Errorf("Center = %v", c)
	}
}
