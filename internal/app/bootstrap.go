package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cloud-cli-mcp/internal/config"
	"cloud-cli-mcp/pkg/logging"
)

// Application bootstraps and runs the server.
type Application struct {
	config   *Config
	services *Services
	watcher  *config.Watcher
}

// NewApplication loads configuration, initializes logging and builds the
// services. Logging goes to stderr so that the stdio transport keeps stdout
// for the protocol.
func NewApplication(cfg *Config) (*Application, error) {
	logging.InitForCLI(logging.LevelInfo, os.Stderr)

	configPath := cfg.ConfigPath
	if configPath == "" {
		p, err := config.GetDefaultConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve configuration directory: %w", err)
		}
		configPath = p
	}

	loaded, err := config.LoadConfig(configPath)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to load configuration from %s", configPath)
		return nil, fmt.Errorf("failed to load configuration from %s: %w", configPath, err)
	}

	cfg.applyOverrides(&loaded)
	if err := loaded.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	cfg.ConfigPath = configPath
	cfg.Resolved = loaded

	level, _ := logging.ParseLevel(loaded.LogLevel)
	logging.SetLevel(level)
	logging.Info("Bootstrap", "Loaded configuration from %s", configPath)

	services, err := InitializeServices(loaded, cfg.Version)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{config: cfg, services: services}, nil
}

// Services exposes the wired components.
func (a *Application) Services() *Services {
	return a.services
}

// Run serves the configured transport until ctx is cancelled or the process
// is signalled, then releases resources.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.watcher = config.NewWatcher(a.config.ConfigPath, a.applyReload)
	if err := a.watcher.Start(); err != nil {
		logging.Warn("Bootstrap", "Configuration hot reload disabled: %v", err)
		a.watcher = nil
	}

	var err error
	switch a.config.Resolved.Server.Transport {
	case config.MCPTransportStdio:
		err = runStdioMode(ctx, a.config, a.services)
	default:
		err = runHTTPMode(ctx, a.config.Resolved, a.services)
	}
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	logging.Info("Bootstrap", "Shutting down")
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if closeErr := a.services.Close(); closeErr != nil {
		logging.Error("Bootstrap", closeErr, "Failed to release resources")
		if err == nil {
			err = closeErr
		}
	}
	return err
}

// applyReload applies the hot-reloadable parts of a changed config file.
// Flag overrides given at startup still win.
func (a *Application) applyReload(cfg config.Config) {
	levelName := cfg.LogLevel
	if a.config.LogLevel != "" {
		levelName = a.config.LogLevel
	}
	if level, err := logging.ParseLevel(levelName); err == nil && level != logging.GetLevel() {
		logging.SetLevel(level)
		logging.Info("Config", "Log level changed to %s", level)
	}

	if cfg.CLI.DefaultTimeout != a.services.Executor.DefaultTimeout() {
		a.services.Executor.SetDefaultTimeout(cfg.CLI.DefaultTimeout)
		logging.Info("Config", "Default CLI timeout changed to %s", cfg.CLI.DefaultTimeout)
	}

	for _, changed := range restartRequired(a.config.Resolved, cfg) {
		logging.Warn("Config", "Change to %s takes effect after restart", changed)
	}
}

// restartRequired lists changed fields that cannot be applied live.
func restartRequired(old, updated config.Config) []string {
	var fields []string
	if old.CLI.Binary != updated.CLI.Binary {
		fields = append(fields, "cli.binary")
	}
	if old.CLI.EndpointEnvVar != updated.CLI.EndpointEnvVar {
		fields = append(fields, "cli.endpointEnvVar")
	}
	if old.CLI.MaxConcurrent != updated.CLI.MaxConcurrent {
		fields = append(fields, "cli.maxConcurrent")
	}
	if old.Server != updated.Server {
		fields = append(fields, "server")
	}
	if old.Audit != updated.Audit {
		fields = append(fields, "audit")
	}
	return fields
}
