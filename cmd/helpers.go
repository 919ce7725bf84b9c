package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"

	"github.com/gogpu/gg"

	"github.com/ziadkadry99/docdeck/internal/config"
	"github.com/ziadkadry99/docdeck/internal/site"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `docdeck init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the process logger from config. --verbose forces debug.
// The rasterizer logs through the same handler.
func newLogger(cfg *config.Config) *slog.Logger {
	level := cfg.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if cfg.Log.Format == "json" {
		h = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	logger := slog.New(h)
	slog.SetDefault(logger)
	gg.SetLogger(logger.With("component", "gg"))
	return logger
}

// newLibrary opens the configured docs tree.
func newLibrary(cfg *config.Config, logger *slog.Logger) (*site.Library, error) {
	info, err := os.Stat(cfg.DocsDir)
	if err != nil {
		return nil, fmt.Errorf("docs directory %s: %w", cfg.DocsDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("docs directory %s is not a directory", cfg.DocsDir)
	}
	return site.NewLibrary(cfg.DocsDir, cfg.Include, cfg.Exclude, logger), nil
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
