package response

import (
	"encoding/json"
	"slices"
	"strconv"
)

// Restore returns a collector to the visible state of a previously recorded
// answer. The answer may be a native value or one decoded from a snapshot
// (float64 numbers, []any, map[string]any). Answers of the wrong shape are
// ignored. Registered listeners are not notified.
//
// Tag collectors are skipped: their positions come from the tag position
// store, which is newer than any recorded answer.
func Restore(c Collector, answer any) {
	if answer == nil {
		return
	}
	switch c := c.(type) {
	case *ChoiceCollector:
		var i int
		if decodeAs(answer, &i) && i >= 0 && i < len(c.options) {
			c.selected = i
		}
	case *SelectionCollector:
		var idx []int
		if !decodeAs(answer, &idx) {
			return
		}
		clear(c.selected)
		for _, i := range idx {
			if i >= 0 && i < len(c.labels) {
				c.selected[i] = true
			}
		}
	case *TextCollector:
		var vals []string
		if decodeAs(answer, &vals) {
			copy(c.values, vals)
		}
	case *PickCollector:
		restorePicks(c, answer)
	case *RankCollector:
		// Recorded answers are 0-based; the collector holds 1-based ranks.
		var order []int
		if !decodeAs(answer, &order) {
			return
		}
		for i := range min(len(order), len(c.ranks)) {
			c.ranks[i] = order[i] + 1
		}
	case *OrderCollector:
		var tokens []string
		if !decodeAs(answer, &tokens) || len(tokens) != len(c.tokens) {
			return
		}
		a, b := slices.Sorted(slices.Values(tokens)), slices.Sorted(slices.Values(c.tokens))
		if slices.Equal(a, b) {
			c.tokens = tokens
		}
	}
}

// restorePicks accepts a single value (categorization), a positional list
// (fill_blanks_dropdown), or a map keyed by row index or row label.
func restorePicks(c *PickCollector, answer any) {
	var single string
	if decodeAs(answer, &single) {
		if len(c.values) == 1 && slices.Contains(c.choices[0], single) {
			c.values[0] = single
		}
		return
	}
	var list []string
	if decodeAs(answer, &list) {
		for i := range min(len(list), len(c.values)) {
			if slices.Contains(c.choices[i], list[i]) {
				c.values[i] = list[i]
			}
		}
		return
	}
	var byKey map[string]string
	if !decodeAs(answer, &byKey) {
		return
	}
	for i := range c.values {
		v, ok := byKey[strconv.Itoa(i)]
		if !ok {
			v, ok = byKey[c.Label(i)]
		}
		if ok && slices.Contains(c.choices[i], v) {
			c.values[i] = v
		}
	}
}

// decodeAs converts answer into dst through its JSON form.
func decodeAs(answer any, dst any) bool {
	b, err := json.Marshal(answer)
	if err != nil {
		return false
	}
	return json.Unmarshal(b, dst) == nil
}
