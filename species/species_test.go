package species

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/shoal/config"
)

func testProfile() Profile {
	return Profile{
		Key:             "test",
		PopulationCount: 1,
		SizeScale:       1,
		SpeedScale:      2,
		SpeedMin:        1,
		SpeedMax:        3,
		Extents:         r3.Vec{X: 1, Y: 0.5, Z: 0.25},
	}
}

func TestSigmaZeroIsExactMean(t *testing.T) {
	s := NewSampler(rand.New(rand.NewSource(1)))
	lo := r3.Vec{X: 2, Y: -20, Z: -5}
	hi := r3.Vec{X: 12, Y: 0, Z: 5}

	p := testProfile()
	p.ShoreBias = Bias{Mean: 0.9, Sigma: 0}
	p.DepthBias = Bias{Mean: 0.25, Sigma: 0}

	wantX := lo.X + 0.9*(hi.X-lo.X)
	wantY := lo.Y + 0.25*(hi.Y-lo.Y)

	for i := 0; i < 10000; i++ {
		pt := s.SamplePosition(lo, hi, &p)
		if pt.X != wantX {
			t.Fatalf("sample %d: X = %v, want exactly %v", i, pt.X, wantX)
		}
		if pt.Y != wantY {
			t.Fatalf("sample %d: Y = %v, want exactly %v", i, pt.Y, wantY)
		}
		if pt.Z < lo.Z || pt.Z > hi.Z {
			t.Fatalf("sample %d: Z = %v outside [%v, %v]", i, pt.Z, lo.Z, hi.Z)
		}
	}
}

func TestBiasedSamplingClustersNearMean(t *testing.T) {
	s := NewSampler(rand.New(rand.NewSource(7)))
	lo := r3.Vec{X: 0, Y: 0, Z: 0}
	hi := r3.Vec{X: 100, Y: 100, Z: 100}

	p := testProfile()
	p.ShoreBias = Bias{Mean: 0.3, Sigma: 0.05}
	p.DepthBias = Bias{Mean: 0.8, Sigma: 0.05}

	const n = 10000
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range xs {
		pt := s.SamplePosition(lo, hi, &p)
		xs[i], ys[i] = pt.X, pt.Y
	}

	if m := stat.Mean(xs, nil); math.Abs(m-30) > 0.5 {
		t.Errorf("shore mean = %v, want ~30", m)
	}
	if sd := stat.StdDev(xs, nil); math.Abs(sd-5) > 0.5 {
		t.Errorf("shore stddev = %v, want ~5", sd)
	}
	if m := stat.Mean(ys, nil); math.Abs(m-80) > 0.5 {
		t.Errorf("depth mean = %v, want ~80", m)
	}
}

func TestSamplesStayInsideBox(t *testing.T) {
	s := NewSampler(rand.New(rand.NewSource(3)))
	lo := r3.Vec{X: -1, Y: -1, Z: -1}
	hi := r3.Vec{X: 1, Y: 1, Z: 1}

	p := testProfile()
	// Wide sigma pushes many raw samples outside before clamping.
	p.ShoreBias = Bias{Mean: 1, Sigma: 2}
	p.DepthBias = Bias{Mean: 0, Sigma: 2}

	for i := 0; i < 5000; i++ {
		pt := s.SamplePosition(lo, hi, &p)
		if pt.X < lo.X || pt.X > hi.X || pt.Y < lo.Y || pt.Y > hi.Y || pt.Z < lo.Z || pt.Z > hi.Z {
			t.Fatalf("sample %v outside box", pt)
		}
	}
}

func TestGaussianMoments(t *testing.T) {
	s := NewSampler(rand.New(rand.NewSource(11)))
	const n = 20000
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = s.Gaussian()
		if math.IsNaN(xs[i]) || math.IsInf(xs[i], 0) {
			t.Fatalf("sample %d not finite: %v", i, xs[i])
		}
	}
	mean, sd := stat.MeanStdDev(xs, nil)
	if math.Abs(mean) > 0.05 {
		t.Errorf("mean = %v, want ~0", mean)
	}
	if math.Abs(sd-1) > 0.05 {
		t.Errorf("stddev = %v, want ~1", sd)
	}
}

func TestSamplerDeterministicForSeed(t *testing.T) {
	a := NewSampler(rand.New(rand.NewSource(99)))
	b := NewSampler(rand.New(rand.NewSource(99)))
	p := testProfile()
	p.ShoreBias = Bias{Mean: 0.5, Sigma: 0.2}
	lo, hi := r3.Vec{}, r3.Vec{X: 10, Y: 10, Z: 10}

	for i := 0; i < 100; i++ {
		if pa, pb := a.SamplePosition(lo, hi, &p), b.SamplePosition(lo, hi, &p); pa != pb {
			t.Fatalf("sample %d differs: %v vs %v", i, pa, pb)
		}
	}
}

func TestUnitVectorIsUnit(t *testing.T) {
	s := NewSampler(rand.New(rand.NewSource(5)))
	for i := 0; i < 1000; i++ {
		if n := r3.Norm(s.UnitVector()); math.Abs(n-1) > 1e-9 {
			t.Fatalf("|v| = %v, want 1", n)
		}
	}
}

func TestLocalForward(t *testing.T) {
	tests := []struct {
		name    string
		extents r3.Vec
		flips   AxisFlips
		want    r3.Vec
	}{
		{"x longest", r3.Vec{X: 2, Y: 1, Z: 1}, AxisFlips{}, r3.Vec{X: 1}},
		{"x longest flipped", r3.Vec{X: 2, Y: 1, Z: 1}, AxisFlips{X: true}, r3.Vec{X: -1}},
		{"z longest", r3.Vec{X: 1, Y: 0.2, Z: 3}, AxisFlips{}, r3.Vec{Z: 1}},
		{"z longest flipped", r3.Vec{X: 1, Y: 0.2, Z: 3}, AxisFlips{Z: true, X: true}, r3.Vec{Z: -1}},
		{"y longest", r3.Vec{X: 0.5, Y: 0.9, Z: 0.5}, AxisFlips{}, r3.Vec{Y: 1}},
		{"y longest flipped", r3.Vec{X: 0.5, Y: 0.9, Z: 0.5}, AxisFlips{Y: true}, r3.Vec{Y: -1}},
		{"tie prefers x", r3.Vec{X: 1, Y: 1, Z: 1}, AxisFlips{}, r3.Vec{X: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testProfile()
			p.Extents = tt.extents
			p.Flips = tt.flips
			if got := p.LocalForward(); got != tt.want {
				t.Errorf("LocalForward() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEffectiveSpeedsAndRadius(t *testing.T) {
	p := testProfile()
	if got := p.EffectiveSpeedMin(); got != 2 {
		t.Errorf("EffectiveSpeedMin = %v, want 2", got)
	}
	if got := p.EffectiveSpeedMax(); got != 6 {
		t.Errorf("EffectiveSpeedMax = %v, want 6", got)
	}
	p.SizeScale = 3
	if got := p.HitRadius(); got != 1.5 {
		t.Errorf("HitRadius = %v, want 1.5", got)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	profiles, err := FromConfig(cfg.Species)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	if len(profiles) != len(cfg.Species) {
		t.Fatalf("got %d profiles, want %d", len(profiles), len(cfg.Species))
	}
	for i, p := range profiles {
		sc := cfg.Species[i]
		if p.Key != sc.Key || p.PopulationCount != sc.Population {
			t.Errorf("profile %d = %s/%d, want %s/%d", i, p.Key, p.PopulationCount, sc.Key, sc.Population)
		}
		if sc.Wiggle.Mode == "up_down" && p.Wiggle.Mode != WiggleUpDown {
			t.Errorf("profile %s: wiggle mode not mapped", p.Key)
		}
	}

	bad := append([]config.SpeciesConfig(nil), cfg.Species...)
	bad[0].SpeedMin = bad[0].SpeedMax + 1
	if _, err := FromConfig(bad); err == nil {
		t.Error("FromConfig accepted speed_min > speed_max")
	}
}
