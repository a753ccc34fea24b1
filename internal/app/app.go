package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/metadv/metadv/internal/config"
	"github.com/metadv/metadv/internal/hclcfg"
	"github.com/metadv/metadv/internal/yamlcfg"
)

// App encapsulates one generator instance: its configuration, its isolated
// logger, and the loader matching the declaration format found on disk.
type App struct {
	logger *slog.Logger
	config *Config
}

// New is the constructor for the application. Log output goes to logW; the
// logger carries a fresh run id so concurrent invocations stay apart in
// aggregated logs.
func New(logW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW).
		With("run_id", uuid.NewString())
	logger.Debug("Logger configured successfully.")

	return &App{
		logger: logger,
		config: cfg,
	}
}

// metadvDir is where a dbt project keeps its metadv declaration and, by
// default, the generated models.
func (a *App) metadvDir() string {
	return filepath.Join(a.config.ProjectPath, "models", "metadv")
}

// outputDir is the directory generation writes into.
func (a *App) outputDir() string {
	if a.config.OutputPath != "" {
		return a.config.OutputPath
	}
	return a.metadvDir()
}

// locateDeclaration finds the declaration file and the loader matching its
// format. YAML wins when both formats are present.
func (a *App) locateDeclaration() (string, config.Loader, error) {
	if _, err := os.Stat(a.config.ProjectPath); err != nil {
		return "", nil, fmt.Errorf("project path does not exist: %w", err)
	}

	candidates := []struct {
		name   string
		loader config.Loader
	}{
		{"metadv.yml", yamlcfg.NewLoader()},
		{"metadv.hcl", hclcfg.NewLoader()},
	}
	for _, c := range candidates {
		path := filepath.Join(a.metadvDir(), c.name)
		if _, err := os.Stat(path); err == nil {
			return path, c.loader, nil
		}
	}
	return "", nil, fmt.Errorf("no metadv.yml or metadv.hcl found under '%s'", a.metadvDir())
}
