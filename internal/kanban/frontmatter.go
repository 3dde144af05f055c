package kanban

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontMatterFence = "---"

// FrontMatter decodes the YAML block between the leading "---" fences. A
// document without front matter yields a nil map.
func FrontMatter(content string) (map[string]any, error) {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != frontMatterFence {
		return nil, nil
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != frontMatterFence {
			continue
		}
		out := map[string]any{}
		if err := yaml.Unmarshal([]byte(strings.Join(lines[1:i], "\n")), &out); err != nil {
			return nil, fmt.Errorf("decode front matter: %w", err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("decode front matter: missing closing %q", frontMatterFence)
}
