package tables

import "strings"

// Block is a run of consecutive table-like lines.
type Block struct {
	Lines []string
	// Start and End are zero-based line indices into the source text, inclusive.
	Start int
	End   int
}

type segmentState int

const (
	outsideBlock segmentState = iota
	insideBlock
)

// segmenter groups table-like lines into blocks.
type segmenter struct {
	state   segmentState
	current Block
	blocks  []Block
}

// close finalizes the open block, keeping it only if it is long enough.
func (s *segmenter) close() {
	if s.state == insideBlock && len(s.current.Lines) >= minBlockRows {
		s.blocks = append(s.blocks, s.current)
	}
	s.state = outsideBlock
	s.current = Block{}
}

func (s *segmenter) add(index int, line string) {
	if s.state == outsideBlock {
		s.state = insideBlock
		s.current = Block{Start: index}
	}
	s.current.Lines = append(s.current.Lines, line)
	s.current.End = index
}

// Blocks walks the text line by line and returns every block of at least two
// table-like lines. Blank lines and non-matching lines both end a block.
func (d *Detector) Blocks(text string) []Block {
	var s segmenter

	for i, raw := range splitLines(text) {
		line := strings.TrimSpace(raw)
		switch {
		case line == "":
			s.close()
		case d.IsTableLine(line):
			s.add(i, line)
		default:
			s.close()
		}
	}
	s.close()

	return s.blocks
}
