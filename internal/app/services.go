package app

import (
	"errors"
	"fmt"

	"cloud-cli-mcp/internal/audit"
	"cloud-cli-mcp/internal/cloudctx"
	"cloud-cli-mcp/internal/config"
	"cloud-cli-mcp/internal/dispatcher"
	"cloud-cli-mcp/internal/executor"
	"cloud-cli-mcp/internal/logstream"
	"cloud-cli-mcp/internal/server"
	"cloud-cli-mcp/pkg/logging"
)

// Services holds the process-wide components. There is exactly one
// Context Store and one Audit Logger per process.
type Services struct {
	Context     *cloudctx.Store
	Audit       *audit.Logger
	AuditWriter *audit.Writer // nil when persistence is disabled
	Executor    *executor.Executor
	Streamer    *logstream.Streamer
	Dispatcher  *dispatcher.Dispatcher
	Server      *server.Server
}

// InitializeServices builds every component from cfg, wiring them in
// dependency order.
func InitializeServices(cfg config.Config, version string) (*Services, error) {
	s := &Services{Context: cloudctx.NewStore()}

	var sink audit.Sink
	if cfg.Audit.StorePath != "" {
		store, err := audit.OpenStore(cfg.Audit.StorePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open audit store: %w", err)
		}
		s.AuditWriter = audit.NewWriter(store)
		sink = s.AuditWriter
		logging.Info("Bootstrap", "Persisting audit entries to %s", cfg.Audit.StorePath)
	}
	s.Audit = audit.NewLogger(cfg.Audit.Capacity, sink)

	s.Executor = executor.New(executor.Config{
		Binary:         cfg.CLI.Binary,
		EndpointEnvVar: cfg.CLI.EndpointEnvVar,
		DefaultTimeout: cfg.CLI.DefaultTimeout,
		MaxConcurrent:  cfg.CLI.MaxConcurrent,
	}, s.Context)
	s.Streamer = logstream.New(s.Executor)

	d, err := dispatcher.New(s.Context, s.Audit, s.Executor, cfg.CLI.Binary)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to create dispatcher: %w", err)
	}
	s.Dispatcher = d

	s.Server = server.New(server.Options{
		Host:       cfg.Server.Host,
		Port:       cfg.Server.Port,
		ToolName:   cfg.Server.ToolName,
		Version:    version,
		OnSetLevel: setLevelByName,
	}, s.Dispatcher, s.Streamer, server.NewHealthProbe(s.Executor))

	logging.Debug("Bootstrap", "Registered tool %s with %d actions", cfg.Server.ToolName, len(d.Actions()))
	return s, nil
}

// Close flushes and releases resources owned by the services.
func (s *Services) Close() error {
	var errs []error
	if s.AuditWriter != nil {
		if err := s.AuditWriter.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close audit store: %w", err))
		}
	}
	return errors.Join(errs...)
}

func setLevelByName(name string) {
	level, err := logging.ParseLevel(name)
	if err != nil {
		logging.Warn("Bootstrap", "Ignoring log level %q: %v", name, err)
		return
	}
	logging.SetLevel(level)
	logging.Info("Bootstrap", "Log level set to %s", level)
}
