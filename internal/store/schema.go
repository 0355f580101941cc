package store

import (
	"context"
	"fmt"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	entschema "entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	"github.com/Emily9121/WifeyMOOC/ent/schema"
)

const (
	tableSnapshots   = "progress_snapshots"
	tableAttempts    = "answer_attempts"
	tableSessions    = "quiz_sessions"
	tableReviews     = "flashcard_reviews"
	tableLLMRequests = "llm_requests"
)

// builder renders SQL for the SQLite dialect.
var builder = entsql.Dialect(dialect.SQLite)

// tableFor declares the table for an ent schema. Columns follow the mixin
// fields then the schema fields, after the auto-increment id.
func tableFor(name string, s ent.Interface) *entschema.Table {
	var (
		fields  []ent.Field
		indexes []ent.Index
	)
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	id := &entschema.Column{Name: "id", Type: field.TypeInt, Increment: true}
	t := &entschema.Table{
		Name:       name,
		Columns:    []*entschema.Column{id},
		PrimaryKey: []*entschema.Column{id},
	}
	byName := make(map[string]*entschema.Column, len(fields))
	for _, f := range fields {
		d := f.Descriptor()
		c := &entschema.Column{
			Name:     d.Name,
			Type:     d.Info.Type,
			Unique:   d.Unique,
			Nullable: d.Optional || d.Nillable,
		}
		t.Columns = append(t.Columns, c)
		byName[d.Name] = c
	}
	for _, ix := range indexes {
		d := ix.Descriptor()
		idx := &entschema.Index{
			Name:   name + "_" + strings.Join(d.Fields, "_"),
			Unique: d.Unique,
		}
		for _, n := range d.Fields {
			if c, ok := byName[n]; ok {
				idx.Columns = append(idx.Columns, c)
			}
		}
		t.Indexes = append(t.Indexes, idx)
	}
	return t
}

var tables = []*entschema.Table{
	tableFor(tableSnapshots, schema.ProgressSnapshot{}),
	tableFor(tableAttempts, schema.AnswerAttempt{}),
	tableFor(tableSessions, schema.QuizSession{}),
	tableFor(tableReviews, schema.FlashcardReview{}),
	tableFor(tableLLMRequests, schema.LLMRequestEvent{}),
}

// migrate creates or updates every table.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	m, err := entschema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}
