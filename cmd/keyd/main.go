package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mickamy/keyd/config"
	"github.com/mickamy/keyd/dispatch"
	"github.com/mickamy/keyd/rdb"
	"github.com/mickamy/keyd/server"
	"github.com/mickamy/keyd/store"
)

var version = "dev"

func main() {
	fs := flag.NewFlagSet("keyd", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "keyd — an in-memory key/value server\n\nUsage:\n  keyd [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}

	cfg := config.Default()
	showVersion := fs.Bool("version", false, "show version and exit")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "address to listen on")
	fs.StringVar(&cfg.Dir, "dir", cfg.Dir, "directory holding the snapshot file")
	fs.StringVar(&cfg.DBFilename, "dbfilename", cfg.DBFilename, "snapshot file name")
	fs.DurationVar(&cfg.ExpireInterval, "expire-interval", cfg.ExpireInterval, "how often to sweep for expired keys")
	fs.IntVar(&cfg.HotKeyThreshold, "hotkey-threshold", cfg.HotKeyThreshold, "reads within the window that mark a key hot (0 disables)")
	fs.DurationVar(&cfg.HotKeyWindow, "hotkey-window", cfg.HotKeyWindow, "sliding window for hot-key detection")
	fs.DurationVar(&cfg.HotKeyCooldown, "hotkey-cooldown", cfg.HotKeyCooldown, "minimum time between repeated hot-key alerts for the same key")

	_ = fs.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("keyd %s\n", version)
		return
	}

	if err := run(cfg); err != nil {
		log.Fatalf("keyd: %v", err)
	}
}

func run(cfg *config.Server) error {
	logger := log.Default()

	ks := store.New(store.Options{
		HotKeyThreshold: cfg.HotKeyThreshold,
		HotKeyWindow:    cfg.HotKeyWindow,
		HotKeyCooldown:  cfg.HotKeyCooldown,
		Logger:          logger,
	})

	loadSnapshot(ks, cfg, logger)

	lis, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}
	logger.Printf("keyd: listening on %s", cfg.Addr)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	expirer := store.NewExpirer(ks, cfg.ExpireInterval)
	go expirer.Run(ctx)

	disp := dispatch.New(ks, cfg)
	srv := server.New(disp, logger)
	return srv.Serve(ctx, lis)
}

// loadSnapshot loads the snapshot file named by cfg, if present. A missing
// file starts the server with an empty keyspace; a present-but-corrupt file
// is logged and also leaves the keyspace empty — a bad snapshot must never
// prevent the server from starting.
func loadSnapshot(ks *store.Keyspace, cfg *config.Server, logger *log.Logger) {
	path := filepath.Join(cfg.Dir, cfg.DBFilename)
	entries, err := rdb.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return
		}
		logger.Printf("keyd: snapshot load failed, starting with an empty keyspace: %v", err)
		return
	}
	ks.LoadAll(entries)
	logger.Printf("keyd: loaded %d keys from %s", len(entries), path)
}
