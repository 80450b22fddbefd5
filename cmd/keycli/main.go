package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mickamy/keyd/tui"
)

var version = "dev"

func main() {
	fs := flag.NewFlagSet("keycli", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "keycli — browse and query a keyd server\n\nUsage:\n  keycli [flags] <addr>\n\nFlags:\n")
		fs.PrintDefaults()
	}

	showVersion := fs.Bool("version", false, "show version and exit")

	_ = fs.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("keycli %s\n", version)
		return
	}

	addr := "127.0.0.1:6379"
	if fs.NArg() >= 1 {
		addr = fs.Arg(0)
	}

	p := tea.NewProgram(tui.New(addr), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "keycli: %v\n", err)
		os.Exit(1)
	}
}
