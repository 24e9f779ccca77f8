// Package diagfmt renders diagnostics for humans: one header line per
// diagnostic, the offending source line, and a caret underline sized in
// display columns.
package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"pkc/internal/diag"
	"pkc/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	noteColor    = color.New(color.FgBlue)
	caretColor   = color.New(color.FgGreen, color.Bold)
)

// Pretty writes every diagnostic in the bag. Callers sort the bag first;
// rendering preserves its order.
//
// Format per diagnostic:
//
//	path:line:col: SEVERITY CODE: message
//	    source line
//	    ^~~~ underline
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		printOne(w, d, fs, opts)
	}
}

func printOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	file := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)

	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		displayPath(file, opts),
		start.Line, start.Col,
		severityLabel(d.Severity, opts),
		d.Code, d.Message)
	printContext(w, file, start, end, opts)

	if !opts.ShowNotes {
		return
	}
	for _, note := range d.Notes {
		noteFile := fs.Get(note.Span.File)
		noteStart, noteEnd := fs.Resolve(note.Span)
		fmt.Fprintf(w, "%s:%d:%d: %s: %s\n",
			displayPath(noteFile, opts),
			noteStart.Line, noteStart.Col,
			label(noteColor, "note", opts),
			note.Msg)
		printContext(w, noteFile, noteStart, noteEnd, opts)
	}
}

// printContext prints the first line the span touches plus the underline.
func printContext(w io.Writer, file *source.File, start, end source.LineCol, opts PrettyOpts) {
	if file == nil {
		return
	}
	line := file.GetLine(start.Line)
	if line == "" {
		return
	}
	fmt.Fprintf(w, "    %s\n", line)

	// Columns are byte based; pad and underline in display cells so the
	// caret lands right under wide runes too.
	startByte := int(start.Col) - 1
	if startByte > len(line) {
		startByte = len(line)
	}
	endByte := len(line)
	if end.Line == start.Line && int(end.Col)-1 < endByte {
		endByte = int(end.Col) - 1
	}
	if endByte <= startByte {
		endByte = startByte + 1
	}

	pad := runewidth.StringWidth(line[:startByte])
	width := runewidth.StringWidth(clamp(line, startByte, endByte))
	if width < 1 {
		width = 1
	}
	underline := "^" + strings.Repeat("~", width-1)
	if opts.Color {
		underline = caretColor.Sprint(underline)
	}
	fmt.Fprintf(w, "    %s%s\n", strings.Repeat(" ", pad), underline)
}

func clamp(s string, from, to int) string {
	if from > len(s) {
		from = len(s)
	}
	if to > len(s) {
		to = len(s)
	}
	return s[from:to]
}

func severityLabel(sev diag.Severity, opts PrettyOpts) string {
	text := sev.String()
	if !opts.Color {
		return text
	}
	switch sev {
	case diag.SevError:
		return errorColor.Sprint(text)
	case diag.SevWarning:
		return warningColor.Sprint(text)
	default:
		return infoColor.Sprint(text)
	}
}

func label(c *color.Color, text string, opts PrettyOpts) string {
	if !opts.Color {
		return text
	}
	return c.Sprint(text)
}

func displayPath(file *source.File, opts PrettyOpts) string {
	if file == nil {
		return "<unknown>"
	}
	if opts.PathMode == PathModeBasename {
		return filepath.Base(file.Path)
	}
	return file.Path
}
