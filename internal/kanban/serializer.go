package kanban

import (
	"strings"
)

const (
	// PluginTag is the third front-matter line of every recognized board.
	PluginTag = "kanban-plugin: basic"

	frontMatter     = "---\n\n" + PluginTag + "\n\n---\n"
	archiveDivider  = "\n\n***\n"
	settingsFooter  = "\n\n%%% kanban:settings\n```\n{\"kanban-plugin\":\"basic\",\"hide-tags-in-title\":true,\"show-checkboxes\":false}\n```\n%%%"
	pluginTagLineNo = 2
)

// Recognized reports whether content is a board document this package owns.
func Recognized(content string) bool {
	lines := strings.SplitN(content, "\n", pluginTagLineNo+2)
	return len(lines) > pluginTagLineNo && lines[pluginTagLineNo] == PluginTag
}

// Serialize renders the board back into the document dialect.
func Serialize(board *Board, opts Options) string {
	var sb strings.Builder
	sb.WriteString(frontMatter)

	for _, col := range board.Ordered() {
		if opts.ArchiveColumn != "" && strings.Contains(col.Name, opts.ArchiveColumn) {
			sb.WriteString(archiveDivider)
		}
		sb.WriteString("## ")
		sb.WriteString(col.Name)
		sb.WriteString("\n")
		if board.CompletionColumn != "" && col.Name == board.CompletionColumn {
			sb.WriteString(completionMarker)
			sb.WriteString("\n")
		}
		for _, card := range col.Cards {
			writeCard(&sb, card, col.Tag)
		}
	}

	sb.WriteString(settingsFooter)
	return sb.String()
}

func writeCard(sb *strings.Builder, card *Card, tag string) {
	if card.Checked {
		sb.WriteString(checkedPrefix)
	} else {
		sb.WriteString(uncheckedPrefix)
	}
	sb.WriteString(card.Text)
	if card.Start != nil {
		sb.WriteString(" " + StartGlyph + " " + card.Start.String())
	}
	if card.End != nil {
		sb.WriteString(" " + CompletionGlyph + " " + card.End.String())
	}
	if tag != "" {
		sb.WriteString(" " + tag)
	}
	sb.WriteString("\n")
}
