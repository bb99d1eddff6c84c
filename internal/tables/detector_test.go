package tables_test

import (
	"strings"
	"testing"

	"pdftools/internal/tables"
)

func TestRules(t *testing.T) {
	d := tables.NewDetector(tables.DefaultOptions())

	tests := []struct {
		name string
		line string
		rule string
	}{
		{"three wide-spaced fields", "Name     Age     City", tables.RuleWideSpacing},
		{"two wide-spaced fields", "Name     Age", ""},
		{"pipe delimited", "x|y|z", tables.RulePipes},
		{"empty pipe fields", "||", tables.RulePipes},
		{"single pipe", "a|b", ""},
		{"positional fields", "abcdefghij klmnopqrst uvwxyzabcd", tables.RulePositional},
		{"currency pair", "Revenue: $100 and $200", tables.RuleCurrency},
		{"single currency", "Total $100 only", ""},
		{"percentage pair", "Growth 10% vs 20%", tables.RulePercentage},
		{"prose", "Just a normal sentence.", ""},
		{"non-breaking spaces", "a\u00a0\u00a0\u00a0b\u00a0\u00a0\u00a0c", tables.RuleWideSpacing},
		{"vertical tabs", "a\v\v\vb\v\v\vc", tables.RuleWideSpacing},
		{"line separators", "a\u2028\u2028\u2028b\u2028\u2028\u2028c", tables.RuleWideSpacing},
		{"byte order marks", "a\ufeff\ufeff\ufeffb\ufeff\ufeff\ufeffc", tables.RuleWideSpacing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.MatchingRule(tt.line); got != tt.rule {
				t.Errorf("MatchingRule(%q) = %q, want %q", tt.line, got, tt.rule)
			}
			if got := d.IsTableLine(tt.line); got != (tt.rule != "") {
				t.Errorf("IsTableLine(%q) = %v", tt.line, got)
			}
		})
	}
}

func TestRulesAreIndependent(t *testing.T) {
	for _, rule := range tables.DefaultRules(tables.DefaultOptions()) {
		if rule.Match("") {
			t.Errorf("rule %s matched an empty line", rule.Name)
		}
	}
}

func TestPositionalBoundsAreConfigurable(t *testing.T) {
	line := "abcd efgh ijkl"

	if tables.NewDetector(tables.DefaultOptions()).IsTableLine(line) {
		t.Fatalf("default bounds should not match %q", line)
	}

	d := tables.NewDetector(tables.Options{MinFieldLength: 3, MaxFieldLength: 5})
	if got := d.MatchingRule(line); got != tables.RulePositional {
		t.Fatalf("MatchingRule(%q) = %q, want %q", line, got, tables.RulePositional)
	}
}

func TestDefaultsApplied(t *testing.T) {
	got := tables.NewDetector(tables.Options{}).Options()
	if got != tables.DefaultOptions() {
		t.Fatalf("Options() = %+v, want %+v", got, tables.DefaultOptions())
	}
}

func TestDetectScenarios(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "aligned columns",
			text: "Name     Age     City\nAlice    30      NYC\nBob      25      LA",
			want: []string{
				"| Name | Age | City |\n| --- | --- | --- |\n| Alice | 30 | NYC |\n| Bob | 25 | LA |",
			},
		},
		{
			name: "currency pairs",
			text: "Revenue: $100 and $200\nCost: $50 and $75",
			want: []string{
				"| Revenue: $100 and $200 |\n| --- |\n| Cost: $50 and $75 |",
			},
		},
		{
			name: "prose",
			text: "Just a normal sentence.\nAnother normal sentence.",
			want: nil,
		},
		{
			name: "blank line leaves single rows",
			text: "A    B    C\n\nD    E    F",
			want: nil,
		},
		{
			name: "pipe rows",
			text: "x|y|z\na|b|c\nd|e|f",
			want: []string{
				"| x | y | z |\n| --- | --- | --- |\n| a | b | c |\n| d | e | f |",
			},
		},
		{
			name: "surrounding whitespace is trimmed",
			text: "   one   two   three   \n\tfour   five   six\t",
			want: []string{
				"| one | two | three |\n| --- | --- | --- |\n| four | five | six |",
			},
		},
	}

	d := tables.NewDetector(tables.DefaultOptions())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Detect(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("Detect() returned %d tables, want %d: %q", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("table %d:\n%s\nwant:\n%s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDetectEmptyInput(t *testing.T) {
	d := tables.NewDetector(tables.DefaultOptions())
	for _, text := range []string{"", "\n", "   \n\t\n  "} {
		if got := d.Detect(text); len(got) != 0 {
			t.Errorf("Detect(%q) = %q, want no tables", text, got)
		}
	}
}

func TestBlocksSegmentation(t *testing.T) {
	d := tables.NewDetector(tables.DefaultOptions())

	tests := []struct {
		name  string
		text  string
		spans [][2]int
	}{
		{
			name:  "blank line splits blocks",
			text:  "A    B    C\nD    E    F\n\nG    H    I\nJ    K    L",
			spans: [][2]int{{0, 1}, {3, 4}},
		},
		{
			name:  "non-table line ends block",
			text:  "a   b   c\nd   e   f\nplain text\ng   h   i",
			spans: [][2]int{{0, 1}},
		},
		{
			name:  "block flushed at end of input",
			text:  "intro\na   b   c\nd   e   f\ng   h   i",
			spans: [][2]int{{1, 3}},
		},
		{
			name:  "single row runs are dropped",
			text:  "a   b   c\nprose\nd   e   f\n\ng   h   i",
			spans: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := d.Blocks(tt.text)
			if len(blocks) != len(tt.spans) {
				t.Fatalf("Blocks() returned %d blocks, want %d", len(blocks), len(tt.spans))
			}
			for i, b := range blocks {
				if b.Start != tt.spans[i][0] || b.End != tt.spans[i][1] {
					t.Errorf("block %d spans [%d,%d], want %v", i, b.Start, b.End, tt.spans[i])
				}
				if len(b.Lines) != b.End-b.Start+1 {
					t.Errorf("block %d has %d lines for span [%d,%d]", i, len(b.Lines), b.Start, b.End)
				}
				if len(b.Lines) < 2 {
					t.Errorf("block %d has fewer than two lines", i)
				}
			}
		})
	}
}

func TestChooseSeparator(t *testing.T) {
	d := tables.NewDetector(tables.DefaultOptions())

	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{"wide spacing", []string{"aaa    bbb    ccc", "ddd    eee    fff"}, tables.SeparatorWideSpace},
		{"tabs", []string{"a\t\tb\t\tc", "d\t\te\t\tf"}, tables.SeparatorTabs},
		{"pipes", []string{"a|b|c", "d|e|f"}, tables.SeparatorPipe},
		{"double spaces", []string{"a  b  c  d", "e  f  g  h"}, tables.SeparatorSpace},
		{"nothing consistent", []string{"a   b   c   d|e|f|g\th\ti\tj", "z"}, tables.SeparatorWideSpace},
		{"vertical tab runs", []string{"a\v\vb\v\vc\v\vd", "e\v\vf\v\vg\v\vh"}, tables.SeparatorSpace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.ChooseSeparator(tt.lines); got.Name != tt.want {
				t.Errorf("ChooseSeparator() = %s, want %s", got.Name, tt.want)
			}
		})
	}
}

func TestChooseSeparatorThreshold(t *testing.T) {
	// space splits 4, 4, 4 and 1 columns: 0.75 of the lines are consistent.
	lines := []string{"a  b  c  d", "e  f  g  h", "i  j  k  l", "m"}

	tests := []struct {
		threshold float64
		want      string
	}{
		{0.7, tables.SeparatorSpace},
		{0.75, tables.SeparatorWideSpace},
		{0.9, tables.SeparatorWideSpace},
	}

	for _, tt := range tests {
		opts := tables.DefaultOptions()
		opts.ConsistencyThreshold = tt.threshold
		if got := tables.NewDetector(opts).ChooseSeparator(lines); got.Name != tt.want {
			t.Errorf("threshold %v: ChooseSeparator() = %s, want %s", tt.threshold, got.Name, tt.want)
		}
	}
}

func TestRenderSplitsUnicodeWhitespace(t *testing.T) {
	d := tables.NewDetector(tables.DefaultOptions())
	block := tables.Block{Lines: []string{"a\v\v\vb\v\v\vc", "d\u2028\u2028\u2028e\u2028\u2028\u2028f"}}

	want := "| a | b | c |\n| --- | --- | --- |\n| d | e | f |"
	if got := d.Render(block); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestSeparatorScore(t *testing.T) {
	wide := tables.DefaultSeparators()[0]

	score := wide.Score([]string{"a   b   c", "d   e   f", "g   h", "i"})
	if score.MeanColumns != 2.25 {
		t.Errorf("MeanColumns = %v, want 2.25", score.MeanColumns)
	}
	// 3, 3 and 2 are within one of 2.25; 1 is not.
	if score.Consistency != 0.75 {
		t.Errorf("Consistency = %v, want 0.75", score.Consistency)
	}
}

func TestRenderHeaderSeparator(t *testing.T) {
	d := tables.NewDetector(tables.DefaultOptions())
	block := tables.Block{Lines: []string{"aaa    bbb    ccc", "ddd    eee    fff", "ggg    hhh    iii"}}

	first := d.Render(block)
	if second := d.Render(block); first != second {
		t.Fatalf("Render is not deterministic:\n%s\n%s", first, second)
	}

	rows := strings.Split(first, "\n")
	if len(rows) != 4 {
		t.Fatalf("Render produced %d rows, want 4", len(rows))
	}
	if got := strings.Count(rows[1], " --- |"); got != 3 {
		t.Errorf("separator row %q has %d columns, want 3", rows[1], got)
	}
}

func TestFormatStructured(t *testing.T) {
	tests := []struct {
		name string
		data [][]string
		want string
	}{
		{"header and rows", [][]string{{"A", "B"}, {"1", ""}, {}}, "| A | B |\n| --- | --- |\n| 1 |  |"},
		{"header only", [][]string{{"A", "B"}}, "| A | B |"},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tables.FormatStructured(tables.Structured{Data: tt.data}); got != tt.want {
				t.Errorf("FormatStructured() = %q, want %q", got, tt.want)
			}
		})
	}
}
