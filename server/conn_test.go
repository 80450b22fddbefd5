package server

import (
	"bufio"
	"io"
	"log"
	"net"
	"testing"
	"time"

	"github.com/mickamy/keyd/config"
	"github.com/mickamy/keyd/dispatch"
	"github.com/mickamy/keyd/store"
)

func newTestConn(t *testing.T) (client net.Conn, ks *store.Keyspace) {
	t.Helper()
	serverSide, clientSide := net.Pipe()

	ks = store.New(store.Options{})
	cfg := config.Default()
	cfg.Dir = t.TempDir()
	disp := dispatch.New(ks, cfg)
	logger := log.New(io.Discard, "", 0)

	c := newConn(serverSide, disp, logger)
	go c.serve()
	t.Cleanup(func() { clientSide.Close() })

	return clientSide, ks
}

func TestConnPingRoundTrip(t *testing.T) {
	t.Parallel()
	client, _ := newTestConn(t)

	_, err := client.Write([]byte("*1\r\n$4\r\nPING\r\n"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	r := bufio.NewReader(client)
	line, err := r.ReadString('\n')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if line != "+PONG\r\n" {
		t.Fatalf("got %q, want %q", line, "+PONG\r\n")
	}
}

func TestConnGetMissIsNullBulk(t *testing.T) {
	t.Parallel()
	client, _ := newTestConn(t)

	_, err := client.Write([]byte("*2\r\n$3\r\nGET\r\n$4\r\nmiss\r\n"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	r := bufio.NewReader(client)
	line, err := r.ReadString('\n')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if line != "$-1\r\n" {
		t.Fatalf("got %q, want %q", line, "$-1\r\n")
	}
}

// TestConnRejectsNonBulkArgument exercises commandArgs: a command array
// whose elements aren't all BulkStrings is a protocol error that closes the
// connection, per spec §7.
func TestConnRejectsNonBulkArgument(t *testing.T) {
	t.Parallel()
	client, _ := newTestConn(t)

	// *2\r\n$4\r\nECHO\r\n:5\r\n -- second element is an Integer, not a BulkString.
	_, err := client.Write([]byte("*2\r\n$4\r\nECHO\r\n:5\r\n"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	r := bufio.NewReader(client)
	line, err := r.ReadString('\n')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(line) == 0 || line[0] != '-' {
		t.Fatalf("got %q, want an error reply", line)
	}

	// The connection is closed after a protocol error; a further read
	// observes EOF rather than hanging.
	buf := make([]byte, 1)
	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := client.Read(buf); err != io.EOF {
		t.Fatalf("got err %v, want io.EOF after protocol error", err)
	}
}

func TestConnCommandDoesNotMutateKeyspaceOnArityError(t *testing.T) {
	t.Parallel()
	client, ks := newTestConn(t)

	// SET with only a key, missing the value: an arity error, not a write.
	_, err := client.Write([]byte("*2\r\n$3\r\nSET\r\n$1\r\nk\r\n"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	r := bufio.NewReader(client)
	line, err := r.ReadString('\n')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(line) == 0 || line[0] != '-' {
		t.Fatalf("got %q, want an error reply", line)
	}

	if ks.Len() != 0 {
		t.Fatalf("got %d keys, want 0", ks.Len())
	}
}
