package astro

import "math"

// ProjectedPoint represents a 2D projected position with metadata.
type ProjectedPoint struct {
	X float64 // Screen X coordinate (normalized display units)
	Y float64 // Screen Y coordinate (normalized display units)
	R float64 // Original radial distance in AU
	Z float64 // Original Z offset (ecliptic latitude indicator)
}

// ScaleMode defines how radial distances are mapped to screen space.
type ScaleMode int

const (
	// ScaleLogR uses logarithmic scaling: r_display = log10(r_AU + 1)
	ScaleLogR ScaleMode = iota

	// ScaleInner uses linear scaling optimized for 0-5 AU
	ScaleInner

	// ScaleOuter uses compressed scaling for the outer solar system (>5 AU)
	ScaleOuter
)

// ProjectionConfig configures the top-down ecliptic projection.
type ProjectionConfig struct {
	Scale float64   // Base scale factor
	Mode  ScaleMode // Scaling mode
}

// DefaultProjectionConfig returns a reasonable default configuration.
func DefaultProjectionConfig() ProjectionConfig {
	return ProjectionConfig{
		Scale: 1.0,
		Mode:  ScaleLogR,
	}
}

// ProjectEclipticTopDown projects a 3D heliocentric ecliptic vector to 2D
// screen coordinates. The view is top-down: X points toward the vernal
// equinox, Y toward ecliptic longitude 90°, Z out of the ecliptic plane.
func ProjectEclipticTopDown(v Vec3, cfg ProjectionConfig) ProjectedPoint {
	rAU := math.Sqrt(v.X*v.X + v.Y*v.Y)
	rDisplay := scaleRadius(rAU, cfg)
	angle := math.Atan2(v.Y, v.X)

	return ProjectedPoint{
		X: rDisplay * math.Cos(angle) * cfg.Scale,
		Y: rDisplay * math.Sin(angle) * cfg.Scale,
		R: v.Norm(),
		Z: v.Z,
	}
}

// scaleRadius applies the configured scaling mode to a radial distance.
func scaleRadius(rAU float64, cfg ProjectionConfig) float64 {
	switch cfg.Mode {
	case ScaleLogR:
		// log10(r + 1): 0 at origin, ~0.78 at 5 AU, ~1.49 at 30 AU
		return math.Log10(rAU + 1)

	case ScaleInner:
		// Linear for the inner system, outer planets clamped to the edge
		if rAU > 5 {
			return 5
		}
		return rAU

	case ScaleOuter:
		// Linear to 5 AU, logarithmic beyond
		if rAU <= 5 {
			return rAU / 5 * 0.5
		}
		return 0.5 + math.Log10(rAU/5+1)*0.5

	default:
		return math.Log10(rAU + 1)
	}
}
