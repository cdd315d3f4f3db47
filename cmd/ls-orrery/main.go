// Command ls-orrery is a terminal orrery: planet positions, conjunctions
// and oppositions, with headless export modes.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/litescript/ls-orrery/internal/chat"
	"github.com/litescript/ls-orrery/internal/config"
	"github.com/litescript/ls-orrery/internal/ephem"
	"github.com/litescript/ls-orrery/internal/orbit"
	"github.com/litescript/ls-orrery/internal/planetmeta"
	"github.com/litescript/ls-orrery/internal/state"
	"github.com/litescript/ls-orrery/internal/ui"
)

// CLI flags for headless mode
var (
	positionsMode bool
	eventsMode    bool
	csvPath       string
	svgPath       string
	jsonPath      string
	infoBody      string
	askQuestion   string
	atFlag        string
	startFlag     string
	endFlag       string
	stepFlag      time.Duration
	bodiesFlag    string
	watchInterval time.Duration
	beepMode      bool
)

func main() {
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	configPath := flag.String("config", config.DefaultPath(), "Settings file path")
	ephemFlag := flag.String("ephem", "", "Ephemeris source (kepler, horizons, auto); overrides settings")
	flag.BoolVar(&positionsMode, "positions", false, "Print a position table instead of the TUI")
	flag.BoolVar(&eventsMode, "events", false, "Scan a range for conjunctions/oppositions")
	flag.StringVar(&csvPath, "csv", "", "Export sampled positions as CSV (use - for stdout)")
	flag.StringVar(&svgPath, "svg", "", "Export a top-down orbit plot as SVG")
	flag.StringVar(&jsonPath, "json", "", "Export a JSON position snapshot (use - for stdout)")
	flag.StringVar(&infoBody, "info", "", "Print metadata for a body")
	flag.StringVar(&askQuestion, "ask", "", "One-shot assistant question")
	flag.StringVar(&atFlag, "at", "", "Instant for -positions/-svg (RFC3339 or YYYY-MM-DD, default now)")
	flag.StringVar(&startFlag, "start", "", "Range start (RFC3339 or YYYY-MM-DD, default now)")
	flag.StringVar(&endFlag, "end", "", "Range end (default start + configured span)")
	flag.DurationVar(&stepFlag, "step", 0, "Sampling step (default from settings)")
	flag.StringVar(&bodiesFlag, "bodies", "", "Comma-separated body list (default all planets)")
	flag.DurationVar(&watchInterval, "watch", 0, "Repeat headless output at interval (e.g. 1h)")
	flag.BoolVar(&beepMode, "beep", false, "Beep when a scan finds events (TTY only)")
	flag.Parse()

	headless := positionsMode || eventsMode || csvPath != "" || svgPath != "" ||
		jsonPath != "" || infoBody != "" || askQuestion != ""

	logger := newLogger(*logLevel, headless)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cfg := config.Load(*configPath, logger)

	mode := cfg.Ephem.Mode
	if *ephemFlag != "" {
		mode = *ephemFlag
	}
	src, err := buildSource(mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	engine := &ui.Engine{
		Sampler:   orbit.NewSampler(src, logger),
		Elements:  keplerFor(src),
		Meta:      newMetaStore(logger),
		Assistant: newAssistant(cfg, logger),
		Source:    src.Name(),
	}

	if headless {
		runHeadless(ctx, engine, cfg)
		return
	}

	stateMgr := state.NewManager(state.DefaultConfig())
	model := ui.New(stateMgr, engine, cfg)
	p := tea.NewProgram(model, tea.WithAltScreen())

	// Live settings reload
	go func() {
		err := config.Watch(ctx, *configPath, logger, func(next *config.Config) {
			p.Send(ui.ConfigReloadedMsg{Config: next})
		})
		if err != nil && ctx.Err() == nil {
			logger.Warn("settings watcher stopped", zap.Error(err))
		}
	}()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}

	engine.Meta.Save()
}

// newLogger builds a console zap logger. The TUI logs to a file since
// stderr would corrupt the alternate screen.
func newLogger(level string, headless bool) *zap.Logger {
	var lvl zapcore.Level
	if err := lvl.Set(level); err != nil {
		lvl = zapcore.InfoLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	enc := zapcore.NewConsoleEncoder(encCfg)

	if headless {
		return zap.New(zapcore.NewCore(enc, zapcore.Lock(os.Stderr), lvl))
	}

	dir, err := os.UserCacheDir()
	if err != nil {
		return zap.NewNop()
	}
	logDir := filepath.Join(dir, "ls-orrery")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return zap.NewNop()
	}
	f, err := os.OpenFile(filepath.Join(logDir, "ls-orrery.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zap.NewNop()
	}
	return zap.New(zapcore.NewCore(enc, zapcore.Lock(f), lvl))
}

// buildSource constructs the ephemeris source for a mode name. A broken
// built-in oracle is fatal; the caller exits non-zero.
func buildSource(mode string) (ephem.Source, error) {
	parsed, err := ephem.ParseMode(mode)
	if err != nil {
		return nil, err
	}
	switch parsed {
	case ephem.ModeKepler:
		return ephem.NewKeplerSource()
	case ephem.ModeHorizons:
		return ephem.NewHorizonsSource(), nil
	default:
		kepler, err := ephem.NewKeplerSource()
		if err != nil {
			return nil, err
		}
		return &ephem.FallbackSource{
			Primary:   ephem.NewHorizonsSource(),
			Secondary: kepler,
		}, nil
	}
}

// keplerFor digs out the oracle for orbital-element display, when present.
func keplerFor(src ephem.Source) *ephem.KeplerSource {
	switch s := src.(type) {
	case *ephem.KeplerSource:
		return s
	case *ephem.FallbackSource:
		if k, ok := s.Secondary.(*ephem.KeplerSource); ok {
			return k
		}
	}
	return nil
}

func newMetaStore(logger *zap.Logger) *planetmeta.Store {
	var cachePath string
	if dir, err := os.UserCacheDir(); err == nil {
		cachePath = filepath.Join(dir, "ls-orrery", "planets.json")
	}

	store := planetmeta.NewStore(planetmeta.NewClient(), cachePath, logger)
	if err := store.Load(); err != nil {
		logger.Warn("metadata cache load failed", zap.Error(err))
	}
	return store
}

func newAssistant(cfg *config.Config, logger *zap.Logger) *chat.Assistant {
	client, err := chat.NewClient(cfg.Chat.Provider, cfg.Chat.Model, chat.WithLogger(logger))
	if err != nil {
		logger.Warn("chat client unavailable", zap.Error(err))
		return chat.NewAssistant(nil)
	}
	return chat.NewAssistant(client)
}

// parseTimeFlag accepts RFC3339 or a bare date.
func parseTimeFlag(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q (want RFC3339 or YYYY-MM-DD)", s)
	}
	return t.UTC(), nil
}

func parseBodies(s string) ([]ephem.BodyID, error) {
	if s == "" {
		return ephem.Planets, nil
	}
	var bodies []ephem.BodyID
	for _, name := range strings.Split(s, ",") {
		body, err := ephem.ParseBody(name)
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, body)
	}
	return bodies, nil
}

// runHeadless handles all headless modes without starting the TUI.
func runHeadless(ctx context.Context, engine *ui.Engine, cfg *config.Config) {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	outputOnce := func() error {
		now := time.Now().UTC()

		at, err := parseTimeFlag(atFlag, now)
		if err != nil {
			return err
		}
		start, err := parseTimeFlag(startFlag, now)
		if err != nil {
			return err
		}
		span := time.Duration(cfg.Range.SpanDays) * 24 * time.Hour
		end, err := parseTimeFlag(endFlag, start.Add(span))
		if err != nil {
			return err
		}
		step := stepFlag
		if step <= 0 {
			step = cfg.Range.Step
		}
		bodies, err := parseBodies(bodiesFlag)
		if err != nil {
			return err
		}
		r := orbit.Range{Start: start, End: end, Step: step}

		if infoBody != "" {
			if err := printInfo(ctx, engine, at, infoBody); err != nil {
				return err
			}
		}

		if askQuestion != "" {
			if err := runAsk(ctx, engine, cfg, askQuestion); err != nil {
				return err
			}
		}

		if positionsMode {
			if err := printPositions(ctx, engine, bodies, at); err != nil {
				return err
			}
		}

		if csvPath != "" {
			if err := exportCSV(ctx, engine, bodies, r, csvPath); err != nil {
				return err
			}
		}

		if svgPath != "" {
			if err := exportSVG(ctx, engine, cfg, bodies, r, at, svgPath); err != nil {
				return err
			}
		}

		var scanned []orbit.AlignmentEvent
		if eventsMode {
			scanned, err = printEvents(ctx, engine, bodies, r)
			if err != nil {
				return err
			}
			if beepMode && isTTY && len(scanned) > 0 {
				fmt.Print("\a")
			}
		}

		if jsonPath != "" {
			if err := exportJSON(ctx, engine, bodies, at, scanned, jsonPath); err != nil {
				return err
			}
		}

		return nil
	}

	if watchInterval == 0 {
		if err := outputOnce(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		engine.Meta.Save()
		return
	}

	if err := outputOnce(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			engine.Meta.Save()
			return
		case <-ticker.C:
			fmt.Println()
			if err := outputOnce(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	}
}
