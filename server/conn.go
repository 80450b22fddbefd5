package server

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"strings"

	"github.com/mickamy/keyd/dispatch"
	"github.com/mickamy/keyd/resp"
)

// conn manages the request/response loop for a single client connection:
// decode a command frame, dispatch it, encode and write the reply, repeat
// until the client disconnects or sends malformed input.
type conn struct {
	netConn net.Conn
	dec     *resp.Decoder
	disp    *dispatch.Dispatcher
	logger  *log.Logger
}

func newConn(nc net.Conn, disp *dispatch.Dispatcher, logger *log.Logger) *conn {
	return &conn{
		netConn: nc,
		dec:     &resp.Decoder{},
		disp:    disp,
		logger:  logger,
	}
}

// serve runs the request loop until the connection closes or a protocol
// error forces it shut. A malformed frame ends the connection (there is no
// way to resynchronize a tagged-union stream after corruption) but does not
// affect any other connection or the keyspace.
func (c *conn) serve() {
	defer c.netConn.Close()

	readBuf := make([]byte, 4096)
	for {
		frame, err := c.nextCommand(readBuf)
		if err != nil {
			if !isClosedErr(err) {
				c.logger.Printf("keyd: connection %s: %v", c.netConn.RemoteAddr(), err)
			}
			return
		}

		args, ok := commandArgs(frame)
		if !ok {
			c.writeReply(resp.Error("ERR protocol error: expected array of bulk strings"))
			return
		}
		if len(args) == 0 {
			continue
		}

		reply, op := c.disp.Dispatch(args)
		if reply.Kind == resp.KindError {
			c.logger.Printf("keyd: connection %s: %s: %s", c.netConn.RemoteAddr(), op, reply.Text)
		}
		if !c.writeReply(reply) {
			return
		}
	}
}

// nextCommand returns the next parsed frame, feeding more bytes from the
// connection as needed.
func (c *conn) nextCommand(readBuf []byte) (resp.Frame, error) {
	for {
		frame, err := c.dec.Parse()
		if err == nil {
			return frame, nil
		}
		if !errors.Is(err, resp.ErrIncomplete) {
			return resp.Frame{}, fmt.Errorf("decode: %w", err)
		}

		n, err := c.netConn.Read(readBuf)
		if n > 0 {
			c.dec.Feed(readBuf[:n])
		}
		if err != nil {
			return resp.Frame{}, err
		}
	}
}

func (c *conn) writeReply(f resp.Frame) bool {
	if _, err := c.netConn.Write(resp.Encode(f)); err != nil {
		if !isClosedErr(err) {
			c.logger.Printf("keyd: connection %s: write: %v", c.netConn.RemoteAddr(), err)
		}
		return false
	}
	return true
}

// commandArgs interprets a top-level request frame as a command: an Array
// of BulkString elements, per the command surface.
func commandArgs(f resp.Frame) ([]resp.Frame, bool) {
	if f.Kind != resp.KindArray || f.Null {
		return nil, false
	}
	for _, elem := range f.Elems {
		if elem.Kind != resp.KindBulkString || elem.Null {
			return nil, false
		}
	}
	return f.Elems, true
}

func isClosedErr(err error) bool {
	if errors.Is(err, io.EOF) {
		return true
	}
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		return strings.Contains(netErr.Err.Error(), "closed")
	}
	return strings.Contains(err.Error(), "closed")
}
