package grading

import (
	"maps"
	"slices"

	"github.com/Emily9121/WifeyMOOC/internal/question"
	"github.com/Emily9121/WifeyMOOC/internal/response"
)

func gradeMCQSingle(_ Grader, spec question.Spec, resp response.Response) Result {
	p, _ := spec.Payload.(question.MCQSingle)
	c, ok := resp.(response.Choice)
	if !ok || c.Index < 0 {
		return incomplete(MsgSelectAnswer, nil)
	}
	return verdict(slices.Contains(p.Correct, c.Index), MsgIncorrect, c.Index)
}

func gradeMCQMultiple(_ Grader, spec question.Spec, resp response.Response) Result {
	p, _ := spec.Payload.(question.MCQMultiple)
	s, _ := resp.(response.Selection)
	selected := indexSet(s.Indices)
	answer := slices.Sorted(maps.Keys(selected))
	correct := indexSet(p.Correct)
	return verdict(len(correct) > 0 && maps.Equal(selected, correct), MsgIncorrectSelect, answer)
}

func gradeListPick(_ Grader, spec question.Spec, resp response.Response) Result {
	p, _ := spec.Payload.(question.ListPick)
	s, _ := resp.(response.Selection)
	if len(s.Indices) == 0 {
		return incomplete(MsgSelectAtLeastOne, nil)
	}
	selected := indexSet(s.Indices)
	answer := slices.Sorted(maps.Keys(selected))
	correct := indexSet(p.Correct)
	return verdict(maps.Equal(selected, correct), MsgIncorrectSelect, answer)
}

func indexSet(idx []int) map[int]bool {
	set := make(map[int]bool, len(idx))
	for _, i := range idx {
		set[i] = true
	}
	return set
}
