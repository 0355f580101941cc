package grading

import (
	"slices"

	"github.com/Emily9121/WifeyMOOC/internal/question"
	"github.com/Emily9121/WifeyMOOC/internal/response"
)

// gradeSequenceAudio checks, in order: every rank entered, every rank in
// range, every rank in the correct position. The first failing check picks
// the message. A rank list shorter than the correct order is never correct.
func gradeSequenceAudio(_ Grader, spec question.Spec, resp response.Response) Result {
	p, _ := spec.Payload.(question.SequenceAudio)
	r, _ := resp.(response.Ranks)

	complete, inRange := len(r.Values) > 0, true
	correct := len(r.Values) == len(p.CorrectOrder)
	order := make([]int, len(r.Values))
	for i, rank := range r.Values {
		if rank == 0 {
			complete = false
		}
		zeroBased := rank - 1
		order[i] = zeroBased
		if zeroBased < 0 || zeroBased >= len(p.CorrectOrder) {
			inRange = false
		}
		if i < len(p.CorrectOrder) && zeroBased != p.CorrectOrder[i] {
			correct = false
		}
	}

	switch {
	case !complete:
		return incomplete(MsgCompleteSequence, order)
	case !inRange:
		return incorrect(MsgInvalidSequence, order)
	}
	return verdict(correct, MsgIncorrectSequence, order)
}

func gradeOrderPhrase(_ Grader, spec question.Spec, resp response.Response) Result {
	p, _ := spec.Payload.(question.OrderPhrase)
	o, _ := resp.(response.Order)
	tokens := slices.Clone(o.Tokens)
	return verdict(len(p.Correct) > 0 && slices.Equal(tokens, p.Correct), MsgPhraseOrder, tokens)
}
