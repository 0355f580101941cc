// Package grading compares collected responses against question answer keys.
//
// Grading is a pure function of (spec, response): it holds no state,
// never mutates its inputs, and never fails. Malformed payloads and
// mismatched responses grade as incorrect; empty input grades as
// incomplete so callers can avoid penalizing it.
package grading

import (
	"github.com/Emily9121/WifeyMOOC/internal/question"
	"github.com/Emily9121/WifeyMOOC/internal/response"
)

// TagTolerance is the maximum Euclidean distance, in image pixels, between
// a placed tag and its expected position.
const TagTolerance = 20.0

// Result is the outcome of grading one question.
type Result struct {
	Correct bool

	// Incomplete is set when the response is missing input the question
	// requires. Incomplete results are never Correct and should not count
	// as attempts.
	Incomplete bool

	// UserAnswer is the normalized response, in a JSON-serializable form
	// that response.Restore accepts.
	UserAnswer any

	// Message explains a failure. Empty when Correct.
	Message string

	// Parts holds one result per nested question of a block, in order.
	Parts []Result
}

// User-facing messages.
const (
	MsgSelectAnswer      = "Please select an answer."
	MsgIncorrect         = "Incorrect."
	MsgIncorrectSelect   = "Incorrect selection."
	MsgSomeIncorrect     = "Some answers are incorrect."
	MsgSelectAtLeastOne  = "Please select at least one option."
	MsgIncorrectMatching = "Incorrect matching."
	MsgIncorrectCategory = "Incorrect category."
	MsgOneOrMore         = "One or more incorrect."
	MsgCompleteSequence  = "Please complete the sequence with numbers."
	MsgInvalidSequence   = "Invalid numbers entered in sequence."
	MsgIncorrectSequence = "Incorrect sequence."
	MsgPhraseOrder       = "Phrase order incorrect."
	MsgBlanksIncorrect   = "Some blanks incorrect."
	MsgTagsIncorrect     = "Tags not in correct positions."
	MsgPartsIncorrect    = "One or more parts incorrect."
	MsgUnknownType       = "Unknown type."
)

// Grader grades responses with a fixed tag tolerance.
type Grader struct {
	TagTolerance float64
}

// Default returns a Grader using TagTolerance.
func Default() Grader {
	return Grader{TagTolerance: TagTolerance}
}

// Grade grades resp against spec with the default grader.
func Grade(spec question.Spec, resp response.Response) Result {
	return Default().Grade(spec, resp)
}

type gradeFunc func(g Grader, spec question.Spec, resp response.Response) Result

var graders map[question.Kind]gradeFunc

func init() {
	graders = map[question.Kind]gradeFunc{
		question.KindMCQSingle:              gradeMCQSingle,
		question.KindMCQMultiple:            gradeMCQMultiple,
		question.KindWordFill:               gradeWordFill,
		question.KindListPick:               gradeListPick,
		question.KindMatchSentence:          gradeMatchSentence,
		question.KindCategorization:         gradeCategorization,
		question.KindCategorizationMultiple: gradeCategorizationMultiple,
		question.KindSequenceAudio:          gradeSequenceAudio,
		question.KindOrderPhrase:            gradeOrderPhrase,
		question.KindFillBlanksDropdown:     gradeFillBlanksDropdown,
		question.KindMatchPhrases:           gradeMatchPhrases,
		question.KindImageTagging:           gradeImageTagging,
		question.KindMultiQuestions:         gradeMultiQuestions,
	}
}

// Grade dispatches on spec.Kind. Unknown kinds always grade incorrect.
func (g Grader) Grade(spec question.Spec, resp response.Response) Result {
	f, ok := graders[spec.Kind]
	if !ok {
		return Result{Message: MsgUnknownType}
	}
	return f(g, spec, resp)
}

func incorrect(msg string, answer any) Result {
	return Result{Message: msg, UserAnswer: answer}
}

func incomplete(msg string, answer any) Result {
	return Result{Incomplete: true, Message: msg, UserAnswer: answer}
}

func verdict(ok bool, msg string, answer any) Result {
	if ok {
		return Result{Correct: true, UserAnswer: answer}
	}
	return incorrect(msg, answer)
}
