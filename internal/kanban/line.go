package kanban

import (
	"regexp"
	"strings"

	"kanstamp/internal/timestamp"
)

const (
	StartGlyph      = "🛫"
	CompletionGlyph = "✅"

	headingPrefix    = "##"
	uncheckedPrefix  = "- [ ] "
	checkedPrefix    = "- [x] "
	completionMarker = "**Complete**"
)

// LineKind classifies one raw document line.
type LineKind int

const (
	LineOther LineKind = iota
	LineHeading
	LineCard
	LineCompletionMarker
)

func (k LineKind) String() string {
	switch k {
	case LineHeading:
		return "heading"
	case LineCard:
		return "card"
	case LineCompletionMarker:
		return "completion_marker"
	default:
		return "other"
	}
}

// Line is the classified form of a raw line. Name and Tag are set for
// headings; Card and Errs for cards.
type Line struct {
	Kind LineKind
	Name string
	Tag  string
	Card Card
	// Errs holds timestamp tokens that matched the token shape but failed to
	// parse. The affected field is left empty.
	Errs []error
}

const tokenTimestamp = `(\d{2}-\d{2}-\d{4} \d{1,2}:\d{2}(?i:[ap]m))`

var (
	tagRegex         = regexp.MustCompile(`#[^\s#]+`)
	startTokenRegex  = regexp.MustCompile(StartGlyph + ` ` + tokenTimestamp)
	endTokenRegex    = regexp.MustCompile(CompletionGlyph + ` ` + tokenTimestamp)
	trailingTagRegex = regexp.MustCompile(`(?:\s*#[^\s#]+)*\s*$`)
)

// Classify inspects a single line.
func Classify(raw string) Line {
	switch {
	case strings.HasPrefix(raw, headingPrefix):
		return Line{
			Kind: LineHeading,
			Name: strings.TrimLeft(strings.TrimPrefix(raw, headingPrefix), " \t"),
			Tag:  LastTag(raw),
		}
	case strings.HasPrefix(raw, uncheckedPrefix), strings.HasPrefix(raw, checkedPrefix):
		card, errs := parseCard(raw)
		return Line{Kind: LineCard, Card: card, Errs: errs}
	case strings.HasPrefix(raw, completionMarker):
		return Line{Kind: LineCompletionMarker}
	default:
		return Line{Kind: LineOther}
	}
}

// LastTag returns the last hashtag token on the line, or "".
func LastTag(raw string) string {
	tags := tagRegex.FindAllString(raw, -1)
	if len(tags) == 0 {
		return ""
	}
	return tags[len(tags)-1]
}

func parseCard(raw string) (Card, []error) {
	card := Card{Checked: strings.HasPrefix(raw, checkedPrefix)}
	rest := strings.TrimLeft(raw[len(uncheckedPrefix):], " \t")

	var errs []error
	if m := startTokenRegex.FindStringSubmatch(rest); m != nil {
		ts, err := timestamp.Parse(m[1])
		if err != nil {
			errs = append(errs, err)
		} else {
			card.Start = &ts
		}
	}
	if m := endTokenRegex.FindStringSubmatch(rest); m != nil {
		ts, err := timestamp.Parse(m[1])
		if err != nil {
			errs = append(errs, err)
		} else {
			card.End = &ts
		}
	}

	card.Text = cardText(rest)
	return card, errs
}

// cardText cuts the line at the first timestamp token and drops the trailing
// whitespace and hashtag run in front of it.
func cardText(rest string) string {
	cut := len(rest)
	for _, re := range []*regexp.Regexp{startTokenRegex, endTokenRegex} {
		if loc := re.FindStringIndex(rest); loc != nil && loc[0] < cut {
			cut = loc[0]
		}
	}
	body := rest[:cut]
	if loc := trailingTagRegex.FindStringIndex(body); loc != nil {
		body = body[:loc[0]]
	}
	return body
}
