package daemon

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/sehatlink/sehat-mcp/internal/logger"
	"github.com/sehatlink/sehat-mcp/internal/server"
)

var log = logger.ForComponent("daemon")

// Daemon serves the tool server on a unix socket for long-running,
// multi-client use. Each connection gets its own serving loop, so
// requests from one client never reorder another client's.
type Daemon struct {
	server       *server.Server
	socket       *SocketListener
	pidFile      *PIDFile
	connections  map[net.Conn]struct{}
	connMu       sync.Mutex
	shutdown     chan struct{}
	shutdownOnce sync.Once
	startTime    time.Time
}

func New(srv *server.Server, socketPath, pidPath string) *Daemon {
	return &Daemon{
		server:      srv,
		socket:      NewSocketListener(socketPath),
		pidFile:     NewPIDFile(pidPath),
		connections: make(map[net.Conn]struct{}),
		shutdown:    make(chan struct{}),
		startTime:   time.Now(),
	}
}

// Start claims the pid file, binds the socket, and begins accepting.
// It returns once the daemon is ready; Wait blocks until shutdown.
func (d *Daemon) Start(ctx context.Context) error {
	if err := d.pidFile.Acquire(); err != nil {
		return err
	}

	if err := d.socket.Start(); err != nil {
		d.pidFile.Remove()
		return fmt.Errorf("bind socket: %w", err)
	}

	log.Info("daemon listening", "socket", d.socket.Path(), "pid_file", d.pidFile.Path())
	go d.acceptConnections(ctx)

	return nil
}

func (d *Daemon) acceptConnections(ctx context.Context) {
	for {
		conn, err := d.socket.Accept()
		if err != nil {
			select {
			case <-d.shutdown:
				return
			default:
				log.Debug("accept failed", "error", err)
				continue
			}
		}

		d.connMu.Lock()
		d.connections[conn] = struct{}{}
		d.connMu.Unlock()

		go d.serveConnection(ctx, conn)
	}
}

func (d *Daemon) serveConnection(ctx context.Context, conn net.Conn) {
	defer func() {
		conn.Close()
		d.connMu.Lock()
		delete(d.connections, conn)
		d.connMu.Unlock()
	}()

	if err := d.server.Serve(ctx, conn); err != nil && ctx.Err() == nil {
		log.Debug("connection closed", "error", err)
	}
}

// Wait blocks until Shutdown is called or ctx is cancelled.
func (d *Daemon) Wait(ctx context.Context) {
	select {
	case <-ctx.Done():
		d.Shutdown()
	case <-d.shutdown:
	}
}

// Shutdown closes the listener, drops every live connection, and
// removes the socket and pid files. Safe to call more than once.
func (d *Daemon) Shutdown() {
	d.shutdownOnce.Do(func() {
		log.Info("daemon shutting down", "uptime", time.Since(d.startTime).Round(time.Second).String())
		close(d.shutdown)

		d.socket.Close()

		d.connMu.Lock()
		for conn := range d.connections {
			conn.Close()
		}
		d.connMu.Unlock()

		if err := d.pidFile.Remove(); err != nil {
			log.Warn("pid file cleanup failed", "error", err)
		}
	})
}

func (d *Daemon) SocketPath() string {
	return d.socket.Path()
}

func (d *Daemon) Uptime() time.Duration {
	return time.Since(d.startTime)
}
