// Package tables infers tabular structure from plain extracted text.
//
// Detection runs in three stages:
//   - a line classifier that decides whether a single line looks like a table row
//   - a block accumulator that groups consecutive table-like lines
//   - a renderer that picks the best column separator for each block and
//     formats it as a pipe-delimited table with a header separator row
//
// The detector holds no mutable state after construction, so one instance can be
// shared between goroutines.
package tables

import "strings"

const (
	// DefaultConsistencyThreshold is the fraction of lines that must agree on a
	// column count before a separator is accepted.
	DefaultConsistencyThreshold = 0.7

	// DefaultMinFieldLength and DefaultMaxFieldLength bound the field widths of
	// the positional classifier rule.
	DefaultMinFieldLength = 10
	DefaultMaxFieldLength = 20

	// minBlockRows is the smallest block that is ever rendered.
	minBlockRows = 2
)

// Options tunes the heuristics. Zero values fall back to the defaults.
type Options struct {
	ConsistencyThreshold float64
	MinFieldLength       int
	MaxFieldLength       int
}

// DefaultOptions returns the stock heuristic parameters.
func DefaultOptions() Options {
	return Options{
		ConsistencyThreshold: DefaultConsistencyThreshold,
		MinFieldLength:       DefaultMinFieldLength,
		MaxFieldLength:       DefaultMaxFieldLength,
	}
}

func (o Options) withDefaults() Options {
	if o.ConsistencyThreshold <= 0 {
		o.ConsistencyThreshold = DefaultConsistencyThreshold
	}
	if o.MinFieldLength <= 0 {
		o.MinFieldLength = DefaultMinFieldLength
	}
	if o.MaxFieldLength <= 0 {
		o.MaxFieldLength = DefaultMaxFieldLength
	}
	if o.MaxFieldLength < o.MinFieldLength {
		o.MaxFieldLength = o.MinFieldLength
	}
	return o
}

// Detector finds and renders tables in document text.
type Detector struct {
	opts       Options
	rules      []Rule
	separators []Separator
}

// NewDetector builds a detector with the given options.
func NewDetector(opts Options) *Detector {
	opts = opts.withDefaults()
	return &Detector{
		opts:       opts,
		rules:      DefaultRules(opts),
		separators: DefaultSeparators(),
	}
}

// Options returns the effective options of the detector.
func (d *Detector) Options() Options {
	return d.opts
}

// Detect returns one rendered table per detected block, in document order.
// It returns an empty slice when nothing qualifies.
func (d *Detector) Detect(text string) []string {
	blocks := d.Blocks(text)
	rendered := make([]string, 0, len(blocks))
	for _, block := range blocks {
		rendered = append(rendered, d.Render(block))
	}
	return rendered
}

// IsTableLine reports whether a trimmed, non-empty line matches any rule.
func (d *Detector) IsTableLine(line string) bool {
	for _, rule := range d.rules {
		if rule.Match(line) {
			return true
		}
	}
	return false
}

// MatchingRule returns the name of the first rule the line matches, or "".
func (d *Detector) MatchingRule(line string) string {
	for _, rule := range d.rules {
		if rule.Match(line) {
			return rule.Name
		}
	}
	return ""
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
