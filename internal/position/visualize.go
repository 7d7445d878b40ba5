package position

// Source-snippet rendering used by diagnostics to show the offending
// line(s) with the reported span underlined.

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// SpanHighlighter renders a source span as a line of text with a caret
// underline, for use inside a diagnostic's rendered message.
type SpanHighlighter struct {
	sourceMap *SourceMap
}

// NewSpanHighlighter creates a new span highlighter over sourceMap.
func NewSpanHighlighter(sourceMap *SourceMap) *SpanHighlighter {
	return &SpanHighlighter{sourceMap: sourceMap}
}

// HighlightSpan returns the source line(s) covering span, each preceded by
// its line number, with a line of carets underneath marking the span.
func (sh *SpanHighlighter) HighlightSpan(span Span) string {
	if !span.IsValid() {
		return "<invalid span>\n"
	}

	file := sh.sourceMap.GetFile(span.Start.Filename)
	if file == nil {
		return fmt.Sprintf("<file not found: %s>\n", span.Start.Filename)
	}

	var result strings.Builder

	startLine := span.Start.Line
	endLine := span.End.Line

	for lineNum := startLine; lineNum <= endLine; lineNum++ {
		line := file.GetLine(lineNum)
		fmt.Fprintf(&result, "%4d | %s\n", lineNum, line)
		sh.addHighlighting(&result, lineNum, line, span)
	}

	return result.String()
}

func (sh *SpanHighlighter) addHighlighting(result *strings.Builder, lineNum int, line string, span Span) {
	result.WriteString("     | ")

	switch {
	case lineNum == span.Start.Line && lineNum == span.End.Line:
		sh.addSingleLineHighlight(result, line, span.Start.Column, span.End.Column)
	case lineNum == span.Start.Line:
		sh.addSingleLineHighlight(result, line, span.Start.Column, utf8.RuneCountInString(line)+1)
	case lineNum == span.End.Line:
		sh.addSingleLineHighlight(result, line, 1, span.End.Column)
	default:
		sh.addSingleLineHighlight(result, line, 1, utf8.RuneCountInString(line)+1)
	}

	result.WriteString("\n")
}

func (sh *SpanHighlighter) addSingleLineHighlight(result *strings.Builder, line string, startCol, endCol int) {
	runes := []rune(line)

	for i := 1; i < startCol; i++ {
		if i <= len(runes) && runes[i-1] == '\t' {
			result.WriteString("\t")
		} else {
			result.WriteString(" ")
		}
	}

	highlightLen := endCol - startCol
	if highlightLen > 0 {
		n := highlightLen
		if rem := len(runes) - startCol + 1; rem < n {
			n = rem
		}

		if n > 0 {
			result.WriteString(strings.Repeat("^", n))
		}
	}
}
