package astro

import (
	"math"
	"testing"
)

func TestProjectEclipticTopDown(t *testing.T) {
	cfg := DefaultProjectionConfig()

	origin := ProjectEclipticTopDown(Vec3{}, cfg)
	if origin.X != 0 || origin.Y != 0 {
		t.Errorf("origin projected to (%v, %v)", origin.X, origin.Y)
	}

	// angle survives projection regardless of radial scaling
	p := ProjectEclipticTopDown(Vec3{X: 1, Y: 1}, cfg)
	if !almostEqual(math.Atan2(p.Y, p.X), math.Pi/4, 1e-9) {
		t.Errorf("projected angle = %v, want pi/4", math.Atan2(p.Y, p.X))
	}

	// R and Z carry the original values
	p = ProjectEclipticTopDown(Vec3{X: 3, Y: 4, Z: 0.5}, cfg)
	wantR := math.Sqrt(9 + 16 + 0.25)
	if !almostEqual(p.R, wantR, 1e-9) {
		t.Errorf("R = %v, want %v", p.R, wantR)
	}
	if p.Z != 0.5 {
		t.Errorf("Z = %v, want 0.5", p.Z)
	}
}

func TestScaleRadiusModes(t *testing.T) {
	tests := []struct {
		name string
		mode ScaleMode
		rAU  float64
		want float64
	}{
		{"log at origin", ScaleLogR, 0, 0},
		{"log at 9 AU", ScaleLogR, 9, 1},
		{"inner linear", ScaleInner, 2.5, 2.5},
		{"inner clamped", ScaleInner, 30, 5},
		{"outer inner region", ScaleOuter, 2.5, 0.25},
		{"outer boundary", ScaleOuter, 5, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scaleRadius(tt.rAU, ProjectionConfig{Scale: 1, Mode: tt.mode})
			if !almostEqual(got, tt.want, 1e-9) {
				t.Errorf("scaleRadius(%v) = %v, want %v", tt.rAU, got, tt.want)
			}
		})
	}
}

func TestScaleRadiusMonotonic(t *testing.T) {
	for _, mode := range []ScaleMode{ScaleLogR, ScaleOuter} {
		cfg := ProjectionConfig{Scale: 1, Mode: mode}
		prev := scaleRadius(0, cfg)
		for r := 0.5; r <= 35; r += 0.5 {
			cur := scaleRadius(r, cfg)
			if cur < prev {
				t.Errorf("mode %d: scaleRadius not monotonic at %v AU", mode, r)
			}
			prev = cur
		}
	}
}
