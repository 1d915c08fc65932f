package diagnostics

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/mattn/go-isatty"
	"golang.org/x/text/width"

	"github.com/funvibe/tower/internal/scanner"
)

// DefaultTabWidth is the tab expansion used when no width is configured.
const DefaultTabWidth = 4

const (
	ansiBoldRed = "\x1b[1;31m"
	ansiRed     = "\x1b[31m"
	ansiReset   = "\x1b[0m"
)

// ColorMode selects when rendered diagnostics use ANSI colour.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode accepts "auto", "always" and "never". The empty string is
// auto.
func ParseColorMode(s string) (ColorMode, error) {
	switch ColorMode(s) {
	case "", ColorAuto:
		return ColorAuto, nil
	case ColorAlways, ColorNever:
		return ColorMode(s), nil
	}
	return "", fmt.Errorf("unknown color mode %q (want auto, always or never)", s)
}

// Enabled resolves the mode for a concrete writer.
func (m ColorMode) Enabled(w io.Writer) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	return ColorEnabled(w)
}

// ColorEnabled reports whether w is a terminal that should get colour.
// NO_COLOR disables colour regardless of the terminal.
func ColorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// RenderOptions controls Render. The zero value renders plain text with
// DefaultTabWidth.
type RenderOptions struct {
	TabWidth int
	Color    bool
}

// Render writes err as four lines: a header with file, column and row, an
// empty gutter line, the source line holding the error with tabs expanded,
// and a caret under the error column.
func Render(w io.Writer, err *DiagnosticError, sc *scanner.Scanner, fileName string, opts RenderOptions) error {
	tabWidth := opts.TabWidth
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}
	if fileName == "" {
		fileName = err.File
	}

	context := sc.Context(err.Pos)
	col, row := sc.ColRow(err.Pos)
	rowStr := strconv.Itoa(row)
	gutter := strings.Repeat(" ", len(rowStr))
	tab := strings.Repeat(" ", tabWidth)

	prefix := []rune(context)
	if col-1 < len(prefix) {
		prefix = prefix[:col-1]
	}
	caret := gutter + " | " + strings.Repeat(" ", displayWidth(prefix, tabWidth)) + "^"

	header := fmt.Sprintf("%s Error at %s:%d:%d - %s [%s]", err.Phase(), fileName, col, row, err.Message(), err.Code())
	if opts.Color {
		header = ansiBoldRed + header + ansiReset
		caret = gutter + " | " + strings.Repeat(" ", displayWidth(prefix, tabWidth)) + ansiRed + "^" + ansiReset
	}

	_, werr := fmt.Fprintf(w, "%s\n%s | \n%s | %s\n%s\n",
		header,
		gutter,
		rowStr, strings.ReplaceAll(context, "\t", tab),
		caret,
	)
	return werr
}

// displayWidth is the number of terminal cells the runes occupy once tabs
// are expanded.
func displayWidth(rs []rune, tabWidth int) int {
	n := 0
	for _, r := range rs {
		n += runeWidth(r, tabWidth)
	}
	return n
}

func runeWidth(r rune, tabWidth int) int {
	if r == '\t' {
		return tabWidth
	}
	if unicode.In(r, unicode.Mn, unicode.Me, unicode.Cf) {
		return 0
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}
