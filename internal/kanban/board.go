package kanban

import (
	"sort"

	"kanstamp/internal/timestamp"
)

// Card is one checklist line on the board.
type Card struct {
	Text    string               `json:"text" yaml:"text"`
	Checked bool                 `json:"checked" yaml:"checked"`
	Start   *timestamp.Timestamp `json:"start,omitempty" yaml:"start,omitempty"`
	End     *timestamp.Timestamp `json:"end,omitempty" yaml:"end,omitempty"`
}

// Column is a heading and the cards listed under it.
type Column struct {
	Name  string  `json:"name" yaml:"name"`
	Tag   string  `json:"tag,omitempty" yaml:"tag,omitempty"`
	Index int     `json:"index" yaml:"index"`
	Cards []*Card `json:"cards" yaml:"cards"`
}

// Board is the model rebuilt from a document on every run.
type Board struct {
	Columns          map[string]*Column `json:"columns" yaml:"columns"`
	CompletionColumn string             `json:"completion_column,omitempty" yaml:"completion_column,omitempty"`
	Issues           []Issue            `json:"issues,omitempty" yaml:"issues,omitempty"`

	nextIndex int
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{Columns: map[string]*Column{}}
}

// AddColumn registers a column under the next index. A column with the same
// name is replaced.
func (b *Board) AddColumn(name, tag string) *Column {
	col := &Column{Name: name, Tag: tag, Index: b.nextIndex, Cards: []*Card{}}
	b.nextIndex++
	b.Columns[name] = col
	return col
}

// Column returns the named column, or nil.
func (b *Board) Column(name string) *Column {
	if b == nil {
		return nil
	}
	return b.Columns[name]
}

// Ordered returns the columns in ascending original position.
func (b *Board) Ordered() []*Column {
	out := make([]*Column, 0, len(b.Columns))
	for _, col := range b.Columns {
		out = append(out, col)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Append adds card to the end of the column.
func (c *Column) Append(card *Card) {
	c.Cards = append(c.Cards, card)
}

// extract removes the cards matching pick, keeping the relative order of both
// the kept and the removed cards.
func (c *Column) extract(pick func(*Card) bool) []*Card {
	kept := make([]*Card, 0, len(c.Cards))
	var moved []*Card
	for _, card := range c.Cards {
		if pick(card) {
			moved = append(moved, card)
			continue
		}
		kept = append(kept, card)
	}
	c.Cards = kept
	return moved
}
