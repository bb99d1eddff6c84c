package tables

import (
	"math"
	"regexp"
	"strings"
)

// Separator is a candidate column delimiter.
type Separator struct {
	Name string
	re   *regexp.Regexp
}

// Split splits a line into raw (untrimmed) fields.
func (s Separator) Split(line string) []string {
	return s.re.Split(line, -1)
}

// Separator names, in the order they are tried.
const (
	SeparatorWideSpace = "wide-space"
	SeparatorTabs      = "tabs"
	SeparatorPipe      = "pipe"
	SeparatorSpace     = "space"
)

// DefaultSeparators returns the candidates in evaluation order. The first one is
// also the fallback.
func DefaultSeparators() []Separator {
	return []Separator{
		{Name: SeparatorWideSpace, re: regexp.MustCompile(ws + `{3,}`)},
		{Name: SeparatorTabs, re: regexp.MustCompile(`\t+`)},
		{Name: SeparatorPipe, re: regexp.MustCompile(`\|`)},
		{Name: SeparatorSpace, re: regexp.MustCompile(ws + `{2,}`)},
	}
}

// SeparatorScore is the column statistics of one separator over a block.
type SeparatorScore struct {
	Separator   Separator
	MeanColumns float64
	Consistency float64
}

// Score computes the mean column count and the fraction of lines whose column
// count is within one of that mean.
func (s Separator) Score(lines []string) SeparatorScore {
	score := SeparatorScore{Separator: s}
	if len(lines) == 0 {
		return score
	}

	counts := make([]int, len(lines))
	total := 0
	for i, line := range lines {
		counts[i] = len(s.Split(line))
		total += counts[i]
	}
	score.MeanColumns = float64(total) / float64(len(lines))

	consistent := 0
	for _, c := range counts {
		if math.Abs(float64(c)-score.MeanColumns) <= 1 {
			consistent++
		}
	}
	score.Consistency = float64(consistent) / float64(len(lines))

	return score
}

// ChooseSeparator picks the qualifying separator with the highest mean column
// count. Ties go to the earlier candidate; if none qualifies the first candidate
// is used.
func (d *Detector) ChooseSeparator(lines []string) Separator {
	best := d.separators[0]
	maxColumns := 0.0

	for _, sep := range d.separators {
		score := sep.Score(lines)
		if score.Consistency > d.opts.ConsistencyThreshold && score.MeanColumns > maxColumns {
			maxColumns = score.MeanColumns
			best = sep
		}
	}

	return best
}

// Render formats a block as a pipe table with a header separator after the
// first row.
func (d *Detector) Render(block Block) string {
	if len(block.Lines) == 0 {
		return ""
	}

	sep := d.ChooseSeparator(block.Lines)
	rows := make([]string, 0, len(block.Lines)+1)
	for _, line := range block.Lines {
		rows = append(rows, formatRow(sep.Split(line)))
	}

	rows = append(rows[:1], append([]string{headerSeparator(rows[0])}, rows[1:]...)...)
	return strings.Join(rows, "\n")
}

func formatRow(fields []string) string {
	cells := make([]string, len(fields))
	for i, f := range fields {
		cells[i] = strings.TrimSpace(f)
	}
	return "| " + strings.Join(cells, " | ") + " |"
}

// headerSeparator derives the column count from the pipes in the rendered
// header row.
func headerSeparator(header string) string {
	columns := strings.Count(header, "|") - 1
	if columns < 0 {
		columns = 0
	}
	return "|" + strings.Repeat(" --- |", columns)
}
