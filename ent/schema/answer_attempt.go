package schema

import (
	"encoding/json"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AnswerAttempt records one graded submission of a question, or of one
// nested question of a block.
type AnswerAttempt struct {
	ent.Schema
}

func (AnswerAttempt) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (AnswerAttempt) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			Comment("Links to QuizSession"),
		field.String("question_file").
			Comment("Question set path"),
		field.String("question_key").
			Comment("Scoring key, e.g. 3 or 2-1"),
		field.String("kind").
			Comment("Question type"),
		field.Bool("correct"),
		field.JSON("user_answer", json.RawMessage{}).
			Optional().
			Comment("Normalized answer as graded"),
		field.String("message").
			Default("").
			Comment("Feedback shown to the learner"),
	}
}

func (AnswerAttempt) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("question_file", "question_key"),
	}
}
