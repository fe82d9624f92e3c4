package dsl

import (
	"regexp"
	"strings"
)

const (
	// BlockOpen is the keyword that opens a nested block. Block keywords are
	// matched lower-case only: "WHEN" is an ordinary word to the segmenter.
	BlockOpen = "when"
	// BlockClose is the keyword that closes a nested block. Lower-case only.
	BlockClose = "end"
	// Separator joins sibling commands in a chain.
	Separator = ".."
)

var (
	whitespaceRun = regexp.MustCompile(`\s{2,}`)

	// Lookaheads, evaluated against the unconsumed remainder of the input.
	openLookahead  = regexp.MustCompile(`^` + BlockOpen + `\s`)
	closeLookahead = regexp.MustCompile(`^` + BlockClose + `\b`)
	sepLookahead   = regexp.MustCompile(`^\s*\.\.`)
)

// Normalize flattens newlines into spaces and collapses whitespace runs,
// so multi-line block bodies are scanned as flat text.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	return whitespaceRun.ReplaceAllString(text, " ")
}

// Segment splits an instruction into its ordered, trimmed top-level commands.
//
// The scan is a single left-to-right pass. A double quote toggles quote mode; outside
// quotes, BlockOpen increments the nesting depth and BlockClose decrements it (never
// below zero). A Separator outside quotes at depth zero ends the current segment and
// is consumed. Everything else is copied into the current segment.
//
// Input made only of whitespace and separators yields no segments. An unterminated
// quote is not an error: the remainder simply becomes part of the last segment.
func Segment(text string) []string {
	return Analyze(text).Segments
}

// Scan is the outcome of one segmentation pass.
type Scan struct {
	Segments []string
	// Depth is the number of blocks still open when the input ran out.
	Depth int
	// OpenQuote reports a double quote that was never closed.
	OpenQuote bool
}

// Analyze segments text like Segment and also reports what the scan left
// unbalanced. Linters use it; execution ignores the extra fields.
func Analyze(text string) Scan {
	s := Normalize(text)

	var (
		segments []string
		buf      strings.Builder
		depth    int
		inQuote  bool
	)

	flush := func() {
		if seg := strings.TrimSpace(buf.String()); seg != "" {
			segments = append(segments, seg)
		}
		buf.Reset()
	}

	for i := 0; i < len(s); {
		c := s[i]
		if c == '"' {
			inQuote = !inQuote
		}

		if !inQuote {
			rest := s[i:]
			// Keywords are counted, not consumed: their text still lands in buf.
			if openLookahead.MatchString(rest) {
				depth++
			}
			if depth > 0 && closeLookahead.MatchString(rest) {
				depth--
			}
			if depth == 0 {
				if loc := sepLookahead.FindStringIndex(rest); loc != nil {
					flush()
					i += loc[1]
					continue
				}
			}
		}

		buf.WriteByte(c)
		i++
	}
	flush()

	return Scan{Segments: segments, Depth: depth, OpenQuote: inQuote}
}

// CommandName returns the lower-cased first whitespace-delimited token of a segment.
// It returns "" for blank input.
func CommandName(segment string) string {
	fields := strings.Fields(segment)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}
