package resp_test

import (
	"reflect"
	"testing"

	"github.com/mickamy/keyd/resp"
)

func roundTrip(t *testing.T, f resp.Frame) resp.Frame {
	t.Helper()
	wire := resp.Encode(f)

	var d resp.Decoder
	d.Feed(wire)
	got, err := d.Parse()
	if err != nil {
		t.Fatalf("parse(encode(f)) error: %v (wire=%q)", err, wire)
	}
	if d.Buffered() != 0 {
		t.Fatalf("decoder left %d unconsumed bytes", d.Buffered())
	}
	return got
}

func TestRoundTripPrimitives(t *testing.T) {
	t.Parallel()

	cases := []resp.Frame{
		resp.SimpleString("PONG"),
		resp.Error("ERR wrong number of arguments"),
		resp.Integer(42),
		resp.Integer(-7),
		resp.BigNumber("123456789012345678901234567890"),
		resp.Double(3.14),
		resp.Double(-0.5),
		resp.Boolean(true),
		resp.Boolean(false),
		resp.Null(),
		resp.BulkString([]byte("hello")),
		resp.BulkString([]byte("")),
		resp.BulkString(nil),
		resp.BulkError([]byte("bad input")),
		resp.BulkError(nil),
		resp.VerbatimString("txt", []byte("Some markdown\nor text")),
	}

	for _, want := range cases {
		got := roundTrip(t, want)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("roundtrip mismatch: got %+v, want %+v", got, want)
		}
	}
}

func TestRoundTripAggregates(t *testing.T) {
	t.Parallel()

	inner := resp.Array([]resp.Frame{
		resp.Integer(1),
		resp.BulkString([]byte("k")),
		resp.Array([]resp.Frame{resp.SimpleString("nested")}),
	})

	cases := []resp.Frame{
		resp.Array(nil),
		resp.Array([]resp.Frame{}),
		inner,
		resp.Set([]resp.Frame{resp.Integer(1), resp.Integer(1)}),
		resp.Push([]resp.Frame{resp.SimpleString("message"), resp.BulkString([]byte("ch"))}),
		resp.Map([]resp.Pair{
			{Key: resp.BulkString([]byte("dir")), Value: resp.BulkString([]byte("/tmp"))},
		}),
		resp.Attribute(nil),
	}

	for _, want := range cases {
		got := roundTrip(t, want)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("roundtrip mismatch: got %+v, want %+v", got, want)
		}
	}
}

func TestRoundTripDepth(t *testing.T) {
	t.Parallel()

	// Build a frame nested 4 levels deep and confirm it survives encode/parse.
	f := resp.BulkString([]byte("leaf"))
	for i := 0; i < 4; i++ {
		f = resp.Array([]resp.Frame{f})
	}

	got := roundTrip(t, f)
	if !reflect.DeepEqual(got, f) {
		t.Errorf("deep roundtrip mismatch: got %+v, want %+v", got, f)
	}
}

func TestSplitFeed(t *testing.T) {
	t.Parallel()

	f := resp.Array([]resp.Frame{
		resp.BulkString([]byte("SET")),
		resp.BulkString([]byte("k")),
		resp.BulkString([]byte("v")),
	})
	wire := resp.Encode(f)

	for split := 1; split < len(wire); split++ {
		var d resp.Decoder
		d.Feed(wire[:split])
		if _, err := d.Parse(); err != resp.ErrIncomplete {
			t.Fatalf("split=%d: expected ErrIncomplete, got %v", split, err)
		}
		d.Feed(wire[split:])
		got, err := d.Parse()
		if err != nil {
			t.Fatalf("split=%d: parse after full feed: %v", split, err)
		}
		if !reflect.DeepEqual(got, f) {
			t.Fatalf("split=%d: mismatch got %+v want %+v", split, got, f)
		}
	}
}
