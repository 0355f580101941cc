// Package tagging manages image tagging variants and the placement of
// draggable tags across a session.
package tagging

import (
	"fmt"

	"github.com/Emily9121/WifeyMOOC/internal/question"
)

// Default placement for a tag with no stored position: a vertical cascade
// starting at (DefaultX, DefaultTop), DefaultSpacing apart.
const (
	DefaultX       = 10
	DefaultTop     = 10
	DefaultSpacing = 40
)

// AlternativeCount returns the number of variants, counting the main one.
func AlternativeCount(p question.ImageTagging) int {
	return len(p.Alternatives) + 1
}

// ActiveVariant returns the main variant for alt 0 and Alternatives[alt-1]
// otherwise. An out-of-range index falls back to the main variant.
func ActiveVariant(p question.ImageTagging, alt int) question.TagVariant {
	if alt <= 0 || alt > len(p.Alternatives) {
		return p.TagVariant
	}
	return p.Alternatives[alt-1]
}

// Cycle returns the alternative index following alt, wrapping to 0.
func Cycle(p question.ImageTagging, alt int) int {
	n := AlternativeCount(p)
	next := (alt + 1) % n
	if next < 0 {
		next += n
	}
	return next
}

// NextLabel returns the button label of the variant Cycle would select.
func NextLabel(p question.ImageTagging, alt int) string {
	return ActiveVariant(p, Cycle(p, alt)).ButtonLabel
}

// DefaultPosition is the initial placement of the i-th tag.
func DefaultPosition(i int) question.Point {
	return question.Point{X: DefaultX, Y: float64(DefaultTop + DefaultSpacing*i)}
}

// VariantKey identifies one variant of one question in the position store.
// questionKey is the session key of the question ("3", or "2-1" inside a
// block).
func VariantKey(questionKey string, alt int) string {
	return fmt.Sprintf("%s_%d", questionKey, alt)
}
