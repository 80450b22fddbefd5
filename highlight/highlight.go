// Package highlight applies ANSI terminal styling to keycli's command line
// and to values rendered in the detail view.
package highlight

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	lexer     chroma.Lexer
	formatter chroma.Formatter
	style     *chroma.Style
)

func init() {
	lexer = lexers.Get("redis")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	formatter = formatters.Get("terminal256")
	style = styles.Get("monokai")
}

// Command returns a typed command line (e.g. "SET foo bar EX 10") with ANSI
// syntax highlighting applied. On error or empty input, the original string
// is returned unchanged.
func Command(s string) string {
	if s == "" || lexer == nil {
		return s
	}

	iterator, err := lexer.Tokenise(nil, s)
	if err != nil {
		return s
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return s
	}

	return strings.TrimRight(buf.String(), "\n")
}

var (
	keyRe     = regexp.MustCompile(`^[^\s:]+`)
	boldStyle = lipgloss.NewStyle().Bold(true)
	dimStyle  = lipgloss.NewStyle().Faint(true)
)

// KeyList renders a KEYS reply, one key per line, with the segment before
// the first ':' (the common "namespace:id" convention) bolded and the rest
// dimmed, so a scan of many keys reads as a grouped list rather than a wall
// of identical-looking text.
func KeyList(keys []string) string {
	lines := make([]string, len(keys))
	for i, k := range keys {
		loc := keyRe.FindStringIndex(k)
		if loc == nil || !strings.Contains(k, ":") {
			lines[i] = k
			continue
		}
		lines[i] = boldStyle.Render(k[:loc[1]]) + dimStyle.Render(k[loc[1]:])
	}
	return strings.Join(lines, "\n")
}
