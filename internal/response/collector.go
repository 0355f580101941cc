package response

import (
	"maps"
	"slices"

	"github.com/Emily9121/WifeyMOOC/internal/question"
	"github.com/Emily9121/WifeyMOOC/internal/tagging"
)

// Collector accumulates input for one question instance.
type Collector interface {
	// Kind is the kind of the question the collector was built for.
	Kind() question.Kind

	// Value returns a snapshot of the current input.
	Value() Response

	// OnChange registers fn to be called with the new value after every
	// mutation.
	OnChange(fn func(Response))
}

type notifier struct {
	listeners []func(Response)
}

func (n *notifier) OnChange(fn func(Response)) {
	n.listeners = append(n.listeners, fn)
}

func (n *notifier) emit(r Response) {
	for _, fn := range n.listeners {
		fn(r)
	}
}

// ChoiceCollector selects at most one option.
type ChoiceCollector struct {
	notifier
	kind     question.Kind
	options  []string
	selected int
}

func newChoiceCollector(kind question.Kind, options []string) *ChoiceCollector {
	return &ChoiceCollector{kind: kind, options: options, selected: NoSelection}
}

func (c *ChoiceCollector) Kind() question.Kind { return c.kind }
func (c *ChoiceCollector) Options() []string   { return c.options }
func (c *ChoiceCollector) Selected() int       { return c.selected }

// Select chooses option i. Out-of-range indices are ignored.
func (c *ChoiceCollector) Select(i int) {
	if i < 0 || i >= len(c.options) || i == c.selected {
		return
	}
	c.selected = i
	c.emit(c.Value())
}

func (c *ChoiceCollector) Value() Response {
	return Choice{Index: c.selected}
}

// SelectionCollector toggles any number of rows.
type SelectionCollector struct {
	notifier
	kind     question.Kind
	labels   []string
	selected map[int]bool
}

func newSelectionCollector(kind question.Kind, labels []string) *SelectionCollector {
	return &SelectionCollector{kind: kind, labels: labels, selected: make(map[int]bool)}
}

func (c *SelectionCollector) Kind() question.Kind { return c.kind }
func (c *SelectionCollector) Labels() []string    { return c.labels }
func (c *SelectionCollector) IsSelected(i int) bool {
	return c.selected[i]
}

// Toggle flips row i.
func (c *SelectionCollector) Toggle(i int) {
	if i < 0 || i >= len(c.labels) {
		return
	}
	if c.selected[i] {
		delete(c.selected, i)
	} else {
		c.selected[i] = true
	}
	c.emit(c.Value())
}

func (c *SelectionCollector) Value() Response {
	idx := slices.Sorted(maps.Keys(c.selected))
	return Selection{Indices: idx}
}

// TextCollector holds free-text entries.
type TextCollector struct {
	notifier
	kind   question.Kind
	values []string
}

func newTextCollector(kind question.Kind, n int) *TextCollector {
	return &TextCollector{kind: kind, values: make([]string, n)}
}

func (c *TextCollector) Kind() question.Kind { return c.kind }
func (c *TextCollector) Len() int            { return len(c.values) }

func (c *TextCollector) Text(i int) string {
	if i < 0 || i >= len(c.values) {
		return ""
	}
	return c.values[i]
}

// Set stores the text of entry i.
func (c *TextCollector) Set(i int, s string) {
	if i < 0 || i >= len(c.values) || c.values[i] == s {
		return
	}
	c.values[i] = s
	c.emit(c.Value())
}

func (c *TextCollector) Value() Response {
	return Texts{Values: slices.Clone(c.values)}
}

// PickCollector chooses one value per row from that row's choices.
type PickCollector struct {
	notifier
	kind    question.Kind
	labels  []string
	choices [][]string
	values  []string
}

func newPickCollector(kind question.Kind, labels []string, choices [][]string) *PickCollector {
	return &PickCollector{
		kind:    kind,
		labels:  labels,
		choices: choices,
		values:  make([]string, len(choices)),
	}
}

func (c *PickCollector) Kind() question.Kind { return c.kind }
func (c *PickCollector) Rows() int           { return len(c.choices) }

// Label returns the left-hand text of row i.
func (c *PickCollector) Label(i int) string {
	if i < 0 || i >= len(c.labels) {
		return ""
	}
	return c.labels[i]
}

func (c *PickCollector) Choices(row int) []string {
	if row < 0 || row >= len(c.choices) {
		return nil
	}
	return c.choices[row]
}

func (c *PickCollector) Selected(row int) string {
	if row < 0 || row >= len(c.values) {
		return ""
	}
	return c.values[row]
}

// Set chooses v for row. Values outside the row's choices are ignored.
func (c *PickCollector) Set(row int, v string) {
	if row < 0 || row >= len(c.values) || c.values[row] == v {
		return
	}
	if !slices.Contains(c.choices[row], v) {
		return
	}
	c.values[row] = v
	c.emit(c.Value())
}

// Cycle steps the row's choice by delta, wrapping around.
func (c *PickCollector) Cycle(row, delta int) {
	opts := c.Choices(row)
	if len(opts) == 0 {
		return
	}
	cur := slices.Index(opts, c.values[row])
	var next int
	switch {
	case cur < 0 && delta < 0:
		next = len(opts) - 1
	case cur < 0:
		next = 0
	default:
		next = ((cur+delta)%len(opts) + len(opts)) % len(opts)
	}
	c.Set(row, opts[next])
}

func (c *PickCollector) Value() Response {
	return Picks{Values: slices.Clone(c.values)}
}

// RankCollector holds a 1-based rank per option.
type RankCollector struct {
	notifier
	kind  question.Kind
	ranks []int
}

func newRankCollector(kind question.Kind, n int) *RankCollector {
	return &RankCollector{kind: kind, ranks: make([]int, n)}
}

func (c *RankCollector) Kind() question.Kind { return c.kind }
func (c *RankCollector) Len() int            { return len(c.ranks) }

func (c *RankCollector) Rank(i int) int {
	if i < 0 || i >= len(c.ranks) {
		return 0
	}
	return c.ranks[i]
}

// Set stores rank n for option i. Zero clears the entry; range checking is
// left to grading so the learner can see why a sequence is rejected.
func (c *RankCollector) Set(i, n int) {
	if i < 0 || i >= len(c.ranks) || c.ranks[i] == n {
		return
	}
	c.ranks[i] = n
	c.emit(c.Value())
}

func (c *RankCollector) Value() Response {
	return Ranks{Values: slices.Clone(c.ranks)}
}

// OrderCollector reorders tokens through adjacent swaps.
type OrderCollector struct {
	notifier
	kind   question.Kind
	tokens []string
}

func newOrderCollector(kind question.Kind, tokens []string) *OrderCollector {
	return &OrderCollector{kind: kind, tokens: slices.Clone(tokens)}
}

func (c *OrderCollector) Kind() question.Kind { return c.kind }
func (c *OrderCollector) Tokens() []string    { return slices.Clone(c.tokens) }

// Move swaps token i with its neighbour in direction dir (-1 up, +1 down).
// A move past either end is a no-op and reports false.
func (c *OrderCollector) Move(i, dir int) bool {
	j := i + dir
	if (dir != -1 && dir != 1) || i < 0 || i >= len(c.tokens) || j < 0 || j >= len(c.tokens) {
		return false
	}
	c.tokens[i], c.tokens[j] = c.tokens[j], c.tokens[i]
	c.emit(c.Value())
	return true
}

func (c *OrderCollector) MoveUp(i int) bool   { return c.Move(i, -1) }
func (c *OrderCollector) MoveDown(i int) bool { return c.Move(i, 1) }

func (c *OrderCollector) Value() Response {
	return Order{Tokens: slices.Clone(c.tokens)}
}

// TagCollector tracks tag positions on one image variant.
type TagCollector struct {
	notifier
	alt       int
	variant   question.TagVariant
	positions map[string]question.Point
}

func newTagCollector(alt int, v question.TagVariant, initial map[string]question.Point) *TagCollector {
	pos := make(map[string]question.Point, len(v.Tags))
	for i, t := range v.Tags {
		if p, ok := initial[t.ID]; ok {
			pos[t.ID] = p
			continue
		}
		pos[t.ID] = tagging.DefaultPosition(i)
	}
	return &TagCollector{alt: alt, variant: v, positions: pos}
}

func (c *TagCollector) Kind() question.Kind          { return question.KindImageTagging }
func (c *TagCollector) Alternative() int             { return c.alt }
func (c *TagCollector) Variant() question.TagVariant { return c.variant }

func (c *TagCollector) Position(tagID string) (question.Point, bool) {
	p, ok := c.positions[tagID]
	return p, ok
}

// Place moves a tag. Unknown tag ids are ignored.
func (c *TagCollector) Place(tagID string, p question.Point) {
	cur, ok := c.positions[tagID]
	if !ok || cur == p {
		return
	}
	c.positions[tagID] = p
	c.emit(c.Value())
}

// Nudge moves a tag by (dx, dy), clamped at the image origin.
func (c *TagCollector) Nudge(tagID string, dx, dy float64) {
	p, ok := c.positions[tagID]
	if !ok {
		return
	}
	p.X = max(0, p.X+dx)
	p.Y = max(0, p.Y+dy)
	c.Place(tagID, p)
}

func (c *TagCollector) Value() Response {
	return Placement{Alternative: c.alt, Positions: maps.Clone(c.positions)}
}

// CompositeCollector groups the collectors of a question block.
type CompositeCollector struct {
	notifier
	parts []Collector
}

func newCompositeCollector(parts []Collector) *CompositeCollector {
	c := &CompositeCollector{parts: parts}
	for _, p := range parts {
		p.OnChange(func(Response) { c.emit(c.Value()) })
	}
	return c
}

func (c *CompositeCollector) Kind() question.Kind { return question.KindMultiQuestions }
func (c *CompositeCollector) Parts() []Collector  { return c.parts }

func (c *CompositeCollector) Value() Response {
	parts := make([]Response, len(c.parts))
	for i, p := range c.parts {
		parts[i] = p.Value()
	}
	return Composite{Parts: parts}
}

// NullCollector collects nothing. Used for unknown kinds.
type NullCollector struct {
	notifier
	kind question.Kind
}

func (c *NullCollector) Kind() question.Kind { return c.kind }
func (c *NullCollector) Value() Response     { return None{} }
