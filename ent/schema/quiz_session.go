package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// QuizSession records the start and end of a quiz session.
type QuizSession struct {
	ent.Schema
}

func (QuizSession) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (QuizSession) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty(),
		field.String("question_file"),
		field.String("action").
			Comment("start or end"),
		field.Int("score").
			Default(0),
		field.Int("total").
			Default(0).
			Comment("Number of score units in the set"),
		field.Int("duration_secs").
			Default(0),
	}
}

func (QuizSession) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
	}
}
