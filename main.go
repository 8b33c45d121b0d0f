package main

import (
	"flag"
	"log/slog"
	"os"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/fmxar/racer/config"
	"github.com/fmxar/racer/game"
	"github.com/fmxar/racer/input"
	"github.com/fmxar/racer/sim"
)

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics, driven by the headless script")
	logStats := flag.Bool("log-stats", false, "Output window stats and bookmarks via slog")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited; headless runs until the script ends)")
	inputSource := flag.String("input", "", "Input source: keyboard or touch (empty = use config)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(*logLevel)}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *statsWindow > 0 {
		cfg.Telemetry.StatsWindow = *statsWindow
	}
	if *inputSource != "" {
		cfg.Input.Source = *inputSource
		if err := cfg.Validate(); err != nil {
			slog.Error("invalid flags", "error", err)
			os.Exit(1)
		}
	}

	if *headless {
		if err := runHeadless(cfg, logger, *outputDir, *logStats, *maxTicks); err != nil {
			slog.Error("headless run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Racer")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGame(game.Options{
		Config:    cfg,
		Logger:    logger,
		OutputDir: *outputDir,
		LogStats:  *logStats,
	})
	if err != nil {
		slog.Error("failed to start game", "error", err)
		return
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			break
		}
	}
}

// runHeadless drives a session from the scripted input with no window.
func runHeadless(cfg *config.Config, logger *slog.Logger, outputDir string, logStats bool, maxTicks int) error {
	script := input.NewScriptSource(cfg.Headless)
	s, err := sim.NewSession(cfg, script, sim.Options{
		Logger:    logger,
		OutputDir: outputDir,
		LogStats:  logStats,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	if maxTicks <= 0 && cfg.Headless.Loop {
		logger.Warn("looping script with no tick limit, running until interrupted")
	}

	logger.Info("starting headless session",
		"stats_window", cfg.Telemetry.StatsWindow,
		"max_ticks", maxTicks,
		"output_dir", s.OutputDir(),
	)

	for {
		s.Step()

		if maxTicks > 0 && int(s.Tick()) >= maxTicks {
			logger.Info("max ticks reached", "tick", s.Tick())
			break
		}
		if script.Done() {
			logger.Info("script finished", "tick", s.Tick())
			break
		}
	}

	state := s.State()
	pos, _ := s.Solver().Pose()
	logger.Info("headless session complete",
		"sim_time", s.SimTime(),
		"speed_percent", state.SpeedPercent,
		"boost_reserve", state.BoostReserve,
		"position_x", pos.X(),
		"position_z", pos.Z(),
	)
	return nil
}
