package grading

import (
	"math"

	"github.com/Emily9121/WifeyMOOC/internal/question"
	"github.com/Emily9121/WifeyMOOC/internal/response"
	"github.com/Emily9121/WifeyMOOC/internal/tagging"
)

// Distance is the Euclidean distance between two points.
func Distance(a, b question.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// gradeImageTagging grades the variant the response was placed on. Every
// tag of that variant must lie within the grader's tolerance of its
// expected position; a tag with no expected position is checked against the
// origin, and an unplaced tag always fails.
func gradeImageTagging(g Grader, spec question.Spec, resp response.Response) Result {
	p, _ := spec.Payload.(question.ImageTagging)
	pl, _ := resp.(response.Placement)
	variant := tagging.ActiveVariant(p, pl.Alternative)

	answer := make(map[string][2]float64, len(variant.Tags))
	ok := len(variant.Tags) > 0
	for _, tag := range variant.Tags {
		placed, found := pl.Positions[tag.ID]
		if !found {
			ok = false
			continue
		}
		answer[tag.ID] = [2]float64{placed.X, placed.Y}
		if Distance(placed, variant.Answer[tag.ID]) > g.TagTolerance {
			ok = false
		}
	}
	return verdict(ok, MsgTagsIncorrect, answer)
}
