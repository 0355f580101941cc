package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// FlashcardReview records one graded flashcard.
type FlashcardReview struct {
	ent.Schema
}

func (FlashcardReview) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (FlashcardReview) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id"),
		field.String("deck"),
		field.String("card_id"),
		field.Bool("correct"),
		field.Int("box").
			Comment("Leitner box after the review"),
	}
}

func (FlashcardReview) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("deck"),
	}
}
