package cmd

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/semio-ai/drydoc/internal/ui"
)

// ServeCommand serves a built site locally.
type ServeCommand struct {
	dir     string
	address string
	port    int
}

// NewServeCommand creates a new serve command.
func NewServeCommand(dir string) *ServeCommand {
	return &ServeCommand{
		dir:     dir,
		address: "127.0.0.1",
		port:    8888,
	}
}

// WithAddress sets the server address.
func (c *ServeCommand) WithAddress(address string) *ServeCommand {
	c.address = address
	return c
}

// WithPort sets the server port.
func (c *ServeCommand) WithPort(port int) *ServeCommand {
	c.port = port
	return c
}

// Execute runs the serve command until interrupted.
func (c *ServeCommand) Execute(ctx context.Context) error {
	if info, err := os.Stat(c.dir); err != nil || !info.IsDir() {
		return fmt.Errorf("output directory not found: %s", c.dir)
	}

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(c.dir)))

	addr := net.JoinHostPort(c.address, fmt.Sprintf("%d", c.port))
	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	out := ui.NewOutput()
	errChan := make(chan error, 1)
	go func() {
		out.Info("Serving %s on http://%s", c.dir, addr)
		out.Info("Press Ctrl+C to stop")
		errChan <- server.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	case <-sigChan:
		out.Info("Shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	out.Success("Server stopped")
	return nil
}
