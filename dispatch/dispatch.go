// Package dispatch turns a parsed command (name plus argument frames) into a
// response frame, enforcing arity and type checks against the keyspace.
package dispatch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mickamy/keyd/config"
	"github.com/mickamy/keyd/rdb"
	"github.com/mickamy/keyd/resp"
	"github.com/mickamy/keyd/store"
)

// Op identifies which command a request was routed to, used only for
// logging labels — never for control flow, which switches on the command
// name directly.
type Op int32

const (
	OpUnknown Op = iota
	OpPing
	OpEcho
	OpSet
	OpGet
	OpKeys
	OpSave
	OpConfigGet
	OpConfigSet
)

func (o Op) String() string {
	switch o {
	case OpPing:
		return "PING"
	case OpEcho:
		return "ECHO"
	case OpSet:
		return "SET"
	case OpGet:
		return "GET"
	case OpKeys:
		return "KEYS"
	case OpSave:
		return "SAVE"
	case OpConfigGet:
		return "CONFIG GET"
	case OpConfigSet:
		return "CONFIG SET"
	}
	return fmt.Sprintf("UnknownOp(%d)", o)
}

// Dispatcher routes commands against a single keyspace and server context.
type Dispatcher struct {
	ks  *store.Keyspace
	cfg *config.Server
}

// New creates a Dispatcher serving ks under cfg.
func New(ks *store.Keyspace, cfg *config.Server) *Dispatcher {
	return &Dispatcher{ks: ks, cfg: cfg}
}

// Dispatch executes one command (args[0] is the command name) and returns
// the frame to write back to the client together with the Op it was routed
// to. A malformed or rejected command becomes an Error frame.
func (d *Dispatcher) Dispatch(args []resp.Frame) (resp.Frame, Op) {
	if len(args) == 0 {
		return resp.Error("ERR empty command"), OpUnknown
	}
	name := strings.ToUpper(string(args[0].Bulk))
	rest := args[1:]

	switch name {
	case "PING":
		return d.ping(rest), OpPing
	case "ECHO":
		return d.echo(rest), OpEcho
	case "SET":
		return d.set(rest), OpSet
	case "GET":
		return d.get(rest), OpGet
	case "KEYS":
		return d.keys(rest), OpKeys
	case "SAVE":
		return d.save(rest), OpSave
	case "CONFIG":
		return d.config(rest), OpUnknown
	default:
		return resp.Error(fmt.Sprintf("ERR unknown command '%s'", name)), OpUnknown
	}
}

func (d *Dispatcher) ping(args []resp.Frame) resp.Frame {
	switch len(args) {
	case 0:
		return resp.SimpleString("PONG")
	case 1:
		return resp.BulkString(args[0].Bulk)
	default:
		return resp.Error("ERR wrong number of arguments for 'ping' command")
	}
}

func (d *Dispatcher) echo(args []resp.Frame) resp.Frame {
	if len(args) != 1 {
		return resp.Error("ERR wrong number of arguments for 'echo' command")
	}
	return resp.BulkString(args[0].Bulk)
}

func (d *Dispatcher) set(args []resp.Frame) resp.Frame {
	if len(args) < 2 {
		return resp.Error("ERR wrong number of arguments for 'set' command")
	}
	key := args[0].Bulk
	value := args[1].Bulk

	var opts store.SetOptions
	rest := args[2:]
	for i := 0; i < len(rest); i++ {
		switch strings.ToUpper(string(rest[i].Bulk)) {
		case "EX":
			n, ok := nextInt(rest, &i)
			if !ok {
				return resp.Error("ERR value is not an integer or out of range")
			}
			opts.ExSeconds = &n
		case "PX":
			n, ok := nextInt(rest, &i)
			if !ok {
				return resp.Error("ERR value is not an integer or out of range")
			}
			opts.PxMillis = &n
		case "NX":
			opts.NX = true
		case "XX":
			opts.XX = true
		default:
			return resp.Error("ERR syntax error")
		}
	}

	result, err := d.ks.Set(key, store.StringValue(value), opts)
	if err != nil {
		return resp.Error(err.Error())
	}
	if result == store.SetNotSet {
		return resp.BulkString(nil)
	}
	return resp.SimpleString("OK")
}

func nextInt(args []resp.Frame, i *int) (int64, bool) {
	*i++
	if *i >= len(args) {
		return 0, false
	}
	n, err := strconv.ParseInt(string(args[*i].Bulk), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (d *Dispatcher) get(args []resp.Frame) resp.Frame {
	if len(args) != 1 {
		return resp.Error("ERR wrong number of arguments for 'get' command")
	}
	v, ok := d.ks.Get(args[0].Bulk)
	if !ok {
		return resp.BulkString(nil)
	}
	if v.Kind != store.KindString {
		return resp.Error("WRONGTYPE Operation against a key holding the wrong kind of value")
	}
	return resp.BulkString(v.Str)
}

func (d *Dispatcher) keys(args []resp.Frame) resp.Frame {
	if len(args) != 1 {
		return resp.Error("ERR wrong number of arguments for 'keys' command")
	}
	matches := d.ks.Keys(string(args[0].Bulk))
	elems := make([]resp.Frame, len(matches))
	for i, k := range matches {
		elems[i] = resp.BulkString(k)
	}
	return resp.Array(elems)
}

func (d *Dispatcher) save(args []resp.Frame) resp.Frame {
	if len(args) != 0 {
		return resp.Error("ERR wrong number of arguments for 'save' command")
	}
	if err := rdb.Save(d.ks, d.cfg.Dir, d.cfg.DBFilename); err != nil {
		return resp.Error(fmt.Sprintf("ERR %v", err))
	}
	return resp.SimpleString("OK")
}

func (d *Dispatcher) config(args []resp.Frame) resp.Frame {
	if len(args) == 0 {
		return resp.Error("ERR wrong number of arguments for 'config' command")
	}
	sub := strings.ToUpper(string(args[0].Bulk))
	rest := args[1:]
	switch sub {
	case "GET":
		if len(rest) != 1 {
			return resp.Error("ERR wrong number of arguments for 'config|get' command")
		}
		name := strings.ToLower(string(rest[0].Bulk))
		value, _ := d.cfg.Get(name)
		return resp.Array([]resp.Frame{resp.BulkString([]byte(name)), resp.BulkString([]byte(value))})
	case "SET":
		if len(rest) != 2 {
			return resp.Error("ERR wrong number of arguments for 'config|set' command")
		}
		name := strings.ToLower(string(rest[0].Bulk))
		if err := d.cfg.Set(name, string(rest[1].Bulk)); err != nil {
			return resp.Error(fmt.Sprintf("ERR %v", err))
		}
		return resp.SimpleString("OK")
	default:
		return resp.Error(fmt.Sprintf("ERR unknown CONFIG subcommand '%s'", sub))
	}
}

