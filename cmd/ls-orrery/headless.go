package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/chat"
	"github.com/litescript/ls-orrery/internal/config"
	"github.com/litescript/ls-orrery/internal/ephem"
	"github.com/litescript/ls-orrery/internal/export"
	"github.com/litescript/ls-orrery/internal/orbit"
	"github.com/litescript/ls-orrery/internal/ui"
)

// printPositions writes a heliocentric position table for one instant.
func printPositions(ctx context.Context, engine *ui.Engine, bodies []ephem.BodyID, at time.Time) error {
	instant := orbit.Range{Start: at, End: at, Step: time.Hour}

	fmt.Printf("Heliocentric positions at %s (%s)\n\n",
		at.Format("2006-01-02 15:04 UTC"), engine.Source)
	fmt.Printf("%-10s %12s %12s %12s %10s %9s %8s\n",
		"BODY", "X (AU)", "Y (AU)", "Z (AU)", "DIST (AU)", "LON", "LAT")

	for _, body := range bodies {
		samples, err := engine.Sampler.Sample(ctx, body, instant)
		if err != nil {
			return err
		}
		p := samples[0].Pos
		fmt.Printf("%-10s %12.6f %12.6f %12.6f %10.4f %8.2f° %7.2f°\n",
			body, p.X, p.Y, p.Z, p.Norm(),
			astro.EclipticLongitude(p), astro.EclipticLatitude(p))
	}
	return nil
}

// printEvents scans the range and writes the alignments found. The events
// come back for reuse by the JSON exporter.
func printEvents(ctx context.Context, engine *ui.Engine, bodies []ephem.BodyID, r orbit.Range) ([]orbit.AlignmentEvent, error) {
	fmt.Printf("Scanning %s .. %s (step %s)\n\n",
		r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"), r.Step)

	scanner := orbit.NewScanner(engine.Sampler)
	events, err := scanner.ScanSunRelative(ctx, bodies, r)
	if err != nil {
		return nil, err
	}

	if len(events) == 0 {
		fmt.Println("No conjunctions or oppositions in this range.")
		return nil, nil
	}

	fmt.Printf("%-18s %-12s %-10s %s\n", "TIME (UTC)", "KIND", "BODY", "FROM")
	for _, e := range events {
		fmt.Printf("%-18s %-12s %-10s %s\n",
			e.Time.Format("2006-01-02 15:04"), e.Kind, e.BodyNames[0], e.Reference)
	}
	return events, nil
}

// exportJSON writes a position snapshot, with any scanned events attached.
func exportJSON(ctx context.Context, engine *ui.Engine, bodies []ephem.BodyID, at time.Time, events []orbit.AlignmentEvent, path string) error {
	instant := orbit.Range{Start: at, End: at, Step: time.Hour}
	var current []orbit.Sample
	for _, body := range bodies {
		samples, err := engine.Sampler.Sample(ctx, body, instant)
		if err != nil {
			return err
		}
		current = append(current, samples...)
	}

	snapshot := export.ExportSnapshot(current, events, engine.Source)
	if path == "-" {
		return snapshot.WriteJSON(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create json file: %w", err)
	}
	defer f.Close()
	if err := snapshot.WriteJSON(f); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	fmt.Printf("Wrote snapshot to %s\n", path)
	return nil
}

// exportCSV samples the range for all bodies and writes CSV.
func exportCSV(ctx context.Context, engine *ui.Engine, bodies []ephem.BodyID, r orbit.Range, path string) error {
	tracks, err := engine.Sampler.SampleAll(ctx, bodies, r)
	if err != nil {
		return err
	}

	var all []orbit.Sample
	for _, track := range tracks {
		all = append(all, track...)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].Time.Equal(all[j].Time) {
			return all[i].Time.Before(all[j].Time)
		}
		return all[i].Body < all[j].Body
	})

	if path == "-" {
		return export.WriteCSV(os.Stdout, all)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()
	if err := export.WriteCSV(f, all); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	fmt.Printf("Wrote %d samples to %s\n", len(all), path)
	return nil
}

// exportSVG writes a top-down orbit plot with current positions marked.
func exportSVG(ctx context.Context, engine *ui.Engine, cfg *config.Config, bodies []ephem.BodyID, r orbit.Range, at time.Time, path string) error {
	tracks, err := engine.Sampler.SampleAll(ctx, bodies, r)
	if err != nil {
		return err
	}

	instant := orbit.Range{Start: at, End: at, Step: time.Hour}
	var current []orbit.Sample
	for _, body := range bodies {
		samples, err := engine.Sampler.Sample(ctx, body, instant)
		if err != nil {
			return err
		}
		current = append(current, samples...)
	}

	plotCfg := export.DefaultPlotConfig()
	plotCfg.Colors = cfg.Colors

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create svg file: %w", err)
	}
	defer f.Close()
	if err := export.WriteSVG(f, tracks, current, plotCfg); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	fmt.Printf("Wrote plot to %s\n", path)
	return nil
}

// printInfo writes the metadata card for one body.
func printInfo(ctx context.Context, engine *ui.Engine, at time.Time, name string) error {
	body, err := ephem.ParseBody(name)
	if err != nil {
		return err
	}

	info := engine.Meta.Get(ctx, body.String())
	fmt.Printf("%s\n", info.Name)
	printField("Mass", info.MassJupiters, "Jupiter masses")
	printField("Radius", info.RadiusJupiters, "Jupiter radii")
	printField("Period", info.PeriodDays, "days")
	printField("Semi-major", info.SemiMajorAxisAU, "AU")
	printField("Gravity", info.GravityMS2, "m/s²")
	printField("Temperature", info.TemperatureK, "K")

	if engine.Elements != nil {
		if el, ok := engine.Elements.Elements(body, at); ok {
			fmt.Printf("\nOrbit (J2000 propagated)\n")
			fmt.Printf("  %-14s %.5f AU\n", "Semi-major:", el.SemiMajorAU)
			fmt.Printf("  %-14s %.5f\n", "Eccentricity:", el.Eccentricity)
			fmt.Printf("  %-14s %.3f°\n", "Inclination:", el.InclinationDeg)
			fmt.Printf("  %-14s %.3f yr\n", "Period:", el.PeriodYears)
		}
	}
	return nil
}

func printField(label string, v float64, unit string) {
	if v <= 0 {
		return
	}
	fmt.Printf("  %-14s %.4g %s\n", label+":", v, unit)
}

// runAsk routes a one-shot question through the assistant, dispatching
// local commands the same way the chat view does.
func runAsk(ctx context.Context, engine *ui.Engine, cfg *config.Config, question string) error {
	reply, cmd, isCmd := engine.Assistant.Ask(ctx, question)
	if !isCmd {
		fmt.Println(reply)
		return nil
	}

	switch cmd.Kind {
	case chat.CmdInfo:
		return printInfo(ctx, engine, time.Now().UTC(), cmd.Body.String())

	case chat.CmdUpcomingEvents:
		span := time.Duration(cfg.Range.SpanDays) * 24 * time.Hour
		now := time.Now().UTC()
		r := orbit.Range{Start: now, End: now.Add(span), Step: cfg.Range.Step}
		_, err := printEvents(ctx, engine, ephem.Planets, r)
		return err

	case chat.CmdExportCSV:
		span := time.Duration(cfg.Range.SpanDays) * 24 * time.Hour
		now := time.Now().UTC()
		r := orbit.Range{Start: now, End: now.Add(span), Step: cfg.Range.Step}
		return exportCSV(ctx, engine, ephem.Planets, r, cmd.Path)

	default:
		fmt.Println(chat.HelpText)
		return nil
	}
}
