package ipc

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/semio-ai/drydoc/internal/core/entities"
)

// tcpConnectTimeout bounds how long we wait for a TCP-mode generator's
// listener to come up after spawn.
const tcpConnectTimeout = 10 * time.Second

// StartGenerator spawns the generator installed at dir and returns a
// started endpoint wired over the channel flavor the artifact advertises.
// The child is reaped when the endpoint closes and dies with the driver.
func StartGenerator(ctx context.Context, dir string, artifact entities.Artifact, opts ...EndpointOption) (*Endpoint, error) {
	entrypoint := filepath.Join(dir, artifact.Entrypoint)

	cmd := exec.Command(entrypoint)
	cmd.Dir = dir
	cmd.Stderr = os.Stderr
	setProcAttrs(cmd)

	var endpoint *Endpoint
	switch artifact.IpcChannel.Kind {
	case entities.IpcStdio:
		stdin, err := cmd.StdinPipe()
		if err != nil {
			return nil, fmt.Errorf("failed to open stdin pipe: %w", err)
		}
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return nil, fmt.Errorf("failed to open stdout pipe: %w", err)
		}
		if err := cmd.Start(); err != nil {
			return nil, fmt.Errorf("failed to start generator %s: %w", entrypoint, err)
		}
		opts = append(opts, WithCloser(stdin), WithCloser(reaper(cmd)))
		endpoint = NewEndpoint(stdout, stdin, opts...)

	case entities.IpcTcp:
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		if err := cmd.Start(); err != nil {
			return nil, fmt.Errorf("failed to start generator %s: %w", entrypoint, err)
		}
		conn, err := dialGenerator(ctx, artifact.IpcChannel.Port)
		if err != nil {
			_ = reaper(cmd).Close()
			return nil, fmt.Errorf("failed to connect to generator on port %d: %w", artifact.IpcChannel.Port, err)
		}
		opts = append(opts, WithCloser(conn), WithCloser(reaper(cmd)))
		endpoint = NewEndpoint(conn, conn, opts...)

	default:
		return nil, fmt.Errorf("unknown ipc channel kind %d", artifact.IpcChannel.Kind)
	}

	endpoint.Start()
	return endpoint, nil
}

// dialGenerator retries the connect with exponential backoff until the
// child's listener comes up or the overall timeout elapses.
func dialGenerator(ctx context.Context, port uint16) (net.Conn, error) {
	addr := fmt.Sprintf("127.0.0.1:%d", port)

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 25 * time.Millisecond
	policy.MaxInterval = 500 * time.Millisecond
	policy.MaxElapsedTime = tcpConnectTimeout

	var conn net.Conn
	err := backoff.Retry(func() error {
		var dialErr error
		conn, dialErr = (&net.Dialer{}).DialContext(ctx, "tcp", addr)
		return dialErr
	}, backoff.WithContext(policy, ctx))
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// reaper kills and waits the child when the endpoint closes.
func reaper(cmd *exec.Cmd) io.Closer {
	return CloserFunc(func() error {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		_ = cmd.Wait()
		return nil
	})
}
