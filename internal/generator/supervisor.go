// Package generator supervises external generator processes: it resolves
// generator packages through the package manager, spawns them on demand,
// runs the IPC handshake and memoizes one live endpoint per installed
// path.
package generator

import (
	"context"
	"fmt"
	"sync"

	"github.com/semio-ai/drydoc/internal/core/entities"
	"github.com/semio-ai/drydoc/internal/core/usecases"
	"github.com/semio-ai/drydoc/internal/ipc"
	"github.com/semio-ai/drydoc/internal/pkgmgr"
)

var _ usecases.GeneratorService = (*Supervisor)(nil)

// Supervisor resolves (name, version requirement) to a live generator
// endpoint. Endpoints are keyed by installation directory: two references
// that resolve to the same installed version share one process. Endpoints
// live until Close.
type Supervisor struct {
	packages *pkgmgr.Manager
	logger   usecases.Logger
	progress usecases.ProgressReporter

	mu        sync.Mutex
	endpoints map[string]*ipc.Endpoint
}

// SupervisorOption configures a Supervisor.
type SupervisorOption func(*Supervisor)

// WithLogger attaches a logger; generator Log events are forwarded to it.
func WithLogger(l usecases.Logger) SupervisorOption {
	return func(s *Supervisor) { s.logger = l }
}

// WithProgress attaches a reporter; generator Progress events are
// forwarded to it.
func WithProgress(p usecases.ProgressReporter) SupervisorOption {
	return func(s *Supervisor) { s.progress = p }
}

// NewSupervisor creates a supervisor over the given package manager.
func NewSupervisor(packages *pkgmgr.Manager, opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		packages:  packages,
		logger:    usecases.NopLogger(),
		progress:  usecases.NopProgressReporter(),
		endpoints: map[string]*ipc.Endpoint{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrStart implements usecases.GeneratorService.
func (s *Supervisor) GetOrStart(ctx context.Context, name string, req entities.VersionReq) (usecases.GeneratorClient, error) {
	installed, err := s.packages.Get(ctx, name, req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if endpoint, ok := s.endpoints[installed.Dir]; ok {
		return &client{endpoint: endpoint}, nil
	}

	s.logger.Info("starting generator",
		"package", name,
		"version", installed.Version.String(),
		"entrypoint", installed.Artifact.Entrypoint)

	endpoint, err := ipc.StartGenerator(ctx, installed.Dir, installed.Artifact,
		ipc.WithEventSink(&eventSink{logger: s.logger.WithFields("generator", name), progress: s.progress}))
	if err != nil {
		return nil, err
	}

	if err := endpoint.Initialize(ctx); err != nil {
		_ = endpoint.Close()
		return nil, fmt.Errorf("generator %s@%s failed to initialize: %w", name, installed.Version, err)
	}

	s.endpoints[installed.Dir] = endpoint
	return &client{endpoint: endpoint}, nil
}

// Close implements usecases.GeneratorService, killing every spawned
// generator.
func (s *Supervisor) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for dir, endpoint := range s.endpoints {
		if err := endpoint.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(s.endpoints, dir)
	}
	return firstErr
}

// client adapts an IPC endpoint to the GeneratorClient port.
type client struct {
	endpoint *ipc.Endpoint
}

var _ usecases.GeneratorClient = (*client)(nil)

func (c *client) Generate(ctx context.Context, contextID uint32, namespace string, params map[string]string, path string) (entities.Bundle, error) {
	res, err := c.endpoint.Generate(ctx, contextID, namespace, params, path)
	if err != nil {
		return entities.Bundle{}, err
	}
	return res.Bundle, nil
}

// eventSink forwards generator events to the application logger and
// progress reporter.
type eventSink struct {
	logger   usecases.Logger
	progress usecases.ProgressReporter
}

func (s *eventSink) GeneratorLog(level ipc.LogLevel, message string) {
	switch level {
	case ipc.LogVerbose, ipc.LogDebug:
		s.logger.Debug(message)
	case ipc.LogInfo:
		s.logger.Info(message)
	case ipc.LogWarning:
		s.logger.Warn(message)
	default:
		s.logger.Error(message, nil)
	}
}

func (s *eventSink) GeneratorProgress(contextID, job uint32, completion float32) {
	s.progress.ReportProgress(
		fmt.Sprintf("context %d job %d", contextID, job),
		int(completion*100), 100,
		fmt.Sprintf("Generating (%.0f%%)", completion*100))
}
