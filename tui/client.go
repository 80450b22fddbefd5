package tui

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/mickamy/keyd/resp"
)

// client is a minimal synchronous client for the wire protocol, used only
// by the TUI to issue one request at a time and wait for its reply.
type client struct {
	conn net.Conn
	dec  resp.Decoder
	buf  []byte
}

func dial(ctx context.Context, addr string) (*client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return &client{conn: conn, buf: make([]byte, 4096)}, nil
}

func (c *client) Close() error { return c.conn.Close() }

// do sends a command (its args already formatted as strings) and waits for
// the single reply frame.
func (c *client) do(args ...string) (resp.Frame, error) {
	elems := make([]resp.Frame, len(args))
	for i, a := range args {
		elems[i] = resp.BulkString([]byte(a))
	}
	if _, err := c.conn.Write(resp.Encode(resp.Array(elems))); err != nil {
		return resp.Frame{}, fmt.Errorf("write: %w", err)
	}

	for {
		frame, err := c.dec.Parse()
		if err == nil {
			return frame, nil
		}
		if !errors.Is(err, resp.ErrIncomplete) {
			return resp.Frame{}, fmt.Errorf("decode: %w", err)
		}
		n, rerr := c.conn.Read(c.buf)
		if n > 0 {
			c.dec.Feed(c.buf[:n])
		}
		if rerr != nil {
			return resp.Frame{}, fmt.Errorf("read: %w", rerr)
		}
	}
}

// frameToDisplay renders a reply frame the way a key's value, or a freeform
// command's result, should read in the detail/command views.
func frameToDisplay(f resp.Frame) string {
	switch f.Kind {
	case resp.KindNull:
		return "(nil)"
	case resp.KindBulkString:
		if f.Null {
			return "(nil)"
		}
		return string(f.Bulk)
	case resp.KindSimpleString:
		return f.Text
	case resp.KindError:
		return "(error) " + f.Text
	case resp.KindInteger:
		return strconv.FormatInt(f.Int, 10)
	case resp.KindDouble:
		return strconv.FormatFloat(f.Float, 'g', -1, 64)
	case resp.KindBoolean:
		if f.Bool {
			return "true"
		}
		return "false"
	case resp.KindArray, resp.KindSet, resp.KindPush:
		if f.Null {
			return "(nil)"
		}
		lines := make([]string, len(f.Elems))
		for i, e := range f.Elems {
			lines[i] = fmt.Sprintf("%d) %s", i+1, frameToDisplay(e))
		}
		return strings.Join(lines, "\n")
	default:
		return fmt.Sprintf("%v", f)
	}
}

// framesToKeys extracts a sorted-by-caller list of key names from a KEYS reply.
func framesToKeys(f resp.Frame) []string {
	if f.Kind != resp.KindArray || f.Null {
		return nil
	}
	out := make([]string, 0, len(f.Elems))
	for _, e := range f.Elems {
		if e.Kind == resp.KindBulkString && !e.Null {
			out = append(out, string(e.Bulk))
		}
	}
	return out
}
