package kanban

import (
	"errors"
	"fmt"
	"strings"
)

// FrontMatterLines is the size of the fixed front-matter block that opens
// every board document.
const FrontMatterLines = 5

// Issue is a soft parse problem. The parser keeps going after recording one.
type Issue struct {
	Line    int    `json:"line" yaml:"line"`
	Message string `json:"message" yaml:"message"`
}

var (
	errOrphanCard       = errors.New("card before any heading dropped")
	errDuplicateHeading = errors.New("duplicate heading replaces earlier column")
)

// Parse rebuilds a board from document content. Completion markers on cards
// in the in-progress column are dropped: a card moved back into progress is
// open again.
func Parse(content string, opts Options) *Board {
	board := NewBoard()
	lines := strings.Split(content, "\n")

	var current *Column
	for i := FrontMatterLines; i < len(lines); i++ {
		line := Classify(lines[i])
		switch line.Kind {
		case LineHeading:
			if _, exists := board.Columns[line.Name]; exists {
				board.addIssue(i, fmt.Errorf("%w: %q", errDuplicateHeading, line.Name))
			}
			current = board.AddColumn(line.Name, line.Tag)
		case LineCard:
			for _, err := range line.Errs {
				board.addIssue(i, err)
			}
			if current == nil {
				board.addIssue(i, errOrphanCard)
				continue
			}
			card := line.Card
			if opts.InProgressTag != "" && current.Tag == opts.InProgressTag {
				card.End = nil
			}
			current.Append(&card)
		case LineCompletionMarker:
			if current != nil {
				board.CompletionColumn = current.Name
			}
		case LineOther:
		}
	}

	return board
}

func (b *Board) addIssue(line int, err error) {
	b.Issues = append(b.Issues, Issue{Line: line + 1, Message: err.Error()})
}
