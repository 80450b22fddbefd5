package resp_test

import (
	"errors"
	"testing"

	"github.com/mickamy/keyd/resp"
)

func TestPartialParsePrefix(t *testing.T) {
	t.Parallel()

	full := []byte("*2\r\n$3\r\nGET\r\n$4\r\nmiss\r\n")
	for n := 0; n < len(full); n++ {
		var d resp.Decoder
		d.Feed(full[:n])
		before := d.Buffered()
		_, err := d.Parse()
		if !errors.Is(err, resp.ErrIncomplete) {
			t.Fatalf("prefix len %d: expected ErrIncomplete, got %v", n, err)
		}
		if d.Buffered() != before {
			t.Fatalf("prefix len %d: buffer changed on incomplete parse", n)
		}
	}
}

func TestUnknownTagIsProtocolError(t *testing.T) {
	t.Parallel()

	var d resp.Decoder
	d.Feed([]byte("@nope\r\n"))
	_, err := d.Parse()
	var perr *resp.ProtocolError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProtocolError, got %v", err)
	}
}

func TestNegativeLengthOtherThanMinusOneIsProtocolError(t *testing.T) {
	t.Parallel()

	var d resp.Decoder
	d.Feed([]byte("$-2\r\n"))
	_, err := d.Parse()
	var perr *resp.ProtocolError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProtocolError for length -2, got %v", err)
	}
}

func TestNullBulkString(t *testing.T) {
	t.Parallel()

	var d resp.Decoder
	d.Feed([]byte("$-1\r\n"))
	f, err := d.Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if f.Kind != resp.KindBulkString || !f.Null {
		t.Fatalf("expected null bulk string, got %+v", f)
	}
}

func TestNullArray(t *testing.T) {
	t.Parallel()

	var d resp.Decoder
	d.Feed([]byte("*-1\r\n"))
	f, err := d.Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if f.Kind != resp.KindArray || !f.Null {
		t.Fatalf("expected null array, got %+v", f)
	}
}

func TestMultipleFramesDrain(t *testing.T) {
	t.Parallel()

	var d resp.Decoder
	d.Feed([]byte("+PONG\r\n:1\r\n$1\r\nx\r\n"))

	var got []resp.Kind
	for d.Buffered() > 0 {
		f, err := d.Parse()
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		got = append(got, f.Kind)
	}
	want := []resp.Kind{resp.KindSimpleString, resp.KindInteger, resp.KindBulkString}
	if len(got) != len(want) {
		t.Fatalf("got %d frames, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("frame %d: got %v, want %v", i, got[i], want[i])
		}
	}
}
