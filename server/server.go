// Package server runs the TCP connection loop: it accepts clients, decodes
// RESP-like command frames, dispatches them against a keyspace, and writes
// back responses — one goroutine per connection, consistent with the
// source proxy's per-connection relay goroutines.
package server

import (
	"context"
	"fmt"
	"log"
	"net"

	"github.com/mickamy/keyd/dispatch"
)

// Server accepts connections on a listener and serves them until ctx is
// canceled.
type Server struct {
	disp   *dispatch.Dispatcher
	logger *log.Logger
}

// New creates a Server that dispatches commands through disp.
func New(disp *dispatch.Dispatcher, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{disp: disp, logger: logger}
}

// Serve accepts connections on lis until ctx is canceled or Accept returns an
// error, serving each one in its own goroutine.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	go func() {
		<-ctx.Done()
		lis.Close()
	}()

	for {
		nc, err := lis.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("keyd: accept: %w", err)
		}
		c := newConn(nc, s.disp, s.logger)
		go c.serve()
	}
}
