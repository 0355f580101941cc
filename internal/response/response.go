// Package response collects learner input for one question instance.
//
// A Collector is created fresh for the active question, mutated by the UI
// layer, and discarded on navigation. Its Value is an immutable Response
// handed to the grading engine; collectors never touch session state.
package response

import "github.com/Emily9121/WifeyMOOC/internal/question"

// Response is the normalized input for one question. The concrete type is
// determined by the question kind.
type Response interface {
	isResponse()
}

// NoSelection marks an unanswered single choice.
const NoSelection = -1

// Choice is a single selected option (mcq_single).
type Choice struct {
	Index int
}

// Selection is a set of selected rows in ascending order (mcq_multiple,
// list_pick).
type Selection struct {
	Indices []int
}

// Texts holds typed entries positionally (word_fill).
type Texts struct {
	Values []string
}

// Picks holds one chosen value per row; "" means nothing chosen
// (match_sentence, categorization, categorization_multiple,
// fill_blanks_dropdown, match_phrases).
type Picks struct {
	Values []string
}

// Ranks holds a 1-based rank per option; 0 means not entered
// (sequence_audio).
type Ranks struct {
	Values []int
}

// Order is the currently displayed token order (order_phrase).
type Order struct {
	Tokens []string
}

// Placement holds tag coordinates for the variant the collector was built
// for (image_tagging).
type Placement struct {
	Alternative int
	Positions   map[string]question.Point
}

// Composite holds one response per nested question (multi_questions).
type Composite struct {
	Parts []Response
}

// None is the response of a question kind that collects nothing.
type None struct{}

func (Choice) isResponse()    {}
func (Selection) isResponse() {}
func (Texts) isResponse()     {}
func (Picks) isResponse()     {}
func (Ranks) isResponse()     {}
func (Order) isResponse()     {}
func (Placement) isResponse() {}
func (Composite) isResponse() {}
func (None) isResponse()      {}
