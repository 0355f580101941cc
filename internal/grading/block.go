package grading

import (
	"github.com/Emily9121/WifeyMOOC/internal/question"
	"github.com/Emily9121/WifeyMOOC/internal/response"
)

// gradeMultiQuestions grades each nested question independently. The block
// result is correct only when every part is, and carries no answer of its
// own: parts are recorded under their own keys.
func gradeMultiQuestions(g Grader, spec question.Spec, resp response.Response) Result {
	p, _ := spec.Payload.(question.MultiQuestions)
	comp, _ := resp.(response.Composite)

	res := Result{Parts: make([]Result, len(p.Questions))}
	allCorrect := len(p.Questions) > 0
	for i, nested := range p.Questions {
		var partResp response.Response = response.None{}
		if i < len(comp.Parts) {
			partResp = comp.Parts[i]
		}
		part := g.Grade(nested, partResp)
		res.Parts[i] = part
		if part.Incomplete {
			res.Incomplete = true
		}
		if !part.Correct {
			allCorrect = false
		}
	}
	res.Correct = allCorrect
	if !allCorrect {
		res.Message = MsgPartsIncorrect
	}
	return res
}
