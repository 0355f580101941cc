package schema

import (
	"encoding/json"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ProgressSnapshot stores a saved quiz position so a session can be
// resumed without its progress file.
type ProgressSnapshot struct {
	ent.Schema
}

func (ProgressSnapshot) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (ProgressSnapshot) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			Comment("Session that saved the snapshot"),
		field.String("question_file").
			NotEmpty().
			Comment("Question set the snapshot belongs to"),
		field.JSON("data", json.RawMessage{}).
			Comment("Progress record in the progress file format"),
	}
}

func (ProgressSnapshot) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("question_file"),
	}
}
