package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/ephem"
	"github.com/litescript/ls-orrery/internal/orbit"
)

// PlotConfig configures the SVG orbit plot.
type PlotConfig struct {
	Width      int
	Height     int
	Background string
	SunColor   string
	Colors     map[string]string // body name -> hex color
	Projection astro.ProjectionConfig
}

// DefaultPlotConfig returns a dark plot sized for embedding.
func DefaultPlotConfig() PlotConfig {
	return PlotConfig{
		Width:      800,
		Height:     800,
		Background: "#0b0e14",
		SunColor:   "#ffd75f",
		Projection: astro.DefaultProjectionConfig(),
	}
}

const defaultBodyColor = "#8a8a8a"

// WriteSVG writes a self-contained SVG document: one polyline per orbit
// track, a marker plus label at each current position, and the Sun at the
// center. Top-down ecliptic view, north up.
func WriteSVG(w io.Writer, tracks map[ephem.BodyID][]orbit.Sample, current []orbit.Sample, cfg PlotConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("invalid plot size %dx%d", cfg.Width, cfg.Height)
	}

	// Fit the largest projected radius inside the viewport with a margin.
	maxR := 0.0
	for _, track := range tracks {
		for _, s := range track {
			if r := projectedRadius(s.Pos, cfg.Projection); r > maxR {
				maxR = r
			}
		}
	}
	for _, s := range current {
		if r := projectedRadius(s.Pos, cfg.Projection); r > maxR {
			maxR = r
		}
	}
	if maxR == 0 {
		maxR = 1
	}

	half := float64(min(cfg.Width, cfg.Height))/2 - 30
	scale := half / maxR
	cx := float64(cfg.Width) / 2
	cy := float64(cfg.Height) / 2

	// SVG Y grows downward; flip so ecliptic longitude 90 points up.
	toScreen := func(pos astro.Vec3) (float64, float64) {
		p := astro.ProjectEclipticTopDown(pos, cfg.Projection)
		return cx + p.X*scale, cy - p.Y*scale
	}

	var err error
	pr := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	pr("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	pr("<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%d\" height=\"%d\" viewBox=\"0 0 %d %d\">\n",
		cfg.Width, cfg.Height, cfg.Width, cfg.Height)
	pr("  <rect width=\"100%%\" height=\"100%%\" fill=\"%s\"/>\n", cfg.Background)

	// Stable body order keeps output diffable
	bodies := make([]ephem.BodyID, 0, len(tracks))
	for b := range tracks {
		bodies = append(bodies, b)
	}
	sort.Slice(bodies, func(i, j int) bool { return bodies[i] < bodies[j] })

	for _, b := range bodies {
		track := tracks[b]
		if len(track) < 2 {
			continue
		}
		pr("  <polyline fill=\"none\" stroke=\"%s\" stroke-width=\"1\" stroke-opacity=\"0.6\" points=\"",
			bodyColor(b, cfg))
		for i, s := range track {
			x, y := toScreen(s.Pos)
			if i > 0 {
				pr(" ")
			}
			pr("%.2f,%.2f", x, y)
		}
		pr("\"/>\n")
	}

	pr("  <circle cx=\"%.2f\" cy=\"%.2f\" r=\"5\" fill=\"%s\"/>\n", cx, cy, cfg.SunColor)

	for _, s := range current {
		if s.Body == ephem.Sun {
			continue
		}
		x, y := toScreen(s.Pos)
		color := bodyColor(s.Body, cfg)
		pr("  <circle cx=\"%.2f\" cy=\"%.2f\" r=\"3.5\" fill=\"%s\"/>\n", x, y, color)
		pr("  <text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-family=\"monospace\" font-size=\"11\">%s</text>\n",
			x+6, y+4, color, s.Body)
	}

	pr("</svg>\n")
	return err
}

func bodyColor(b ephem.BodyID, cfg PlotConfig) string {
	if c, ok := cfg.Colors[b.String()]; ok && c != "" {
		return c
	}
	return defaultBodyColor
}

func projectedRadius(pos astro.Vec3, cfg astro.ProjectionConfig) float64 {
	p := astro.ProjectEclipticTopDown(pos, cfg)
	if p.X < 0 {
		p.X = -p.X
	}
	if p.Y < 0 {
		p.Y = -p.Y
	}
	if p.X > p.Y {
		return p.X
	}
	return p.Y
}
