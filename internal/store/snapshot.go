package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// snapshotRepo implements SnapshotRepo with ent's SQL builders.
type snapshotRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	if snap.Sequence == 0 {
		seq, err := r.seq.Next(ctx)
		if err != nil {
			return fmt.Errorf("next sequence: %w", err)
		}
		snap.Sequence = seq
	}
	if snap.Timestamp.IsZero() {
		snap.Timestamp = time.Now().UTC()
	}
	data := snap.Data
	if len(data) == 0 {
		data = []byte("{}")
	}

	query, args := builder.Insert(tableSnapshots).
		Columns("sequence", "timestamp", "session_id", "question_file", "data").
		Values(snap.Sequence, snap.Timestamp, snap.SessionID, snap.QuestionFile, string(data)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context, questionFile string) (*Snapshot, error) {
	sel := builder.Select("id", "sequence", "timestamp", "session_id", "question_file", "data").
		From(entsql.Table(tableSnapshots))
	if questionFile != "" {
		sel.Where(entsql.EQ("question_file", questionFile))
	}
	query, args := sel.OrderBy(entsql.Desc("sequence")).Limit(1).Query()

	var (
		s    Snapshot
		data string
	)
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&s.ID, &s.Sequence, &s.Timestamp, &s.SessionID, &s.QuestionFile, &data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	s.Data = []byte(data)
	return &s, nil
}

func (r *snapshotRepo) Prune(ctx context.Context, questionFile string, keep int) error {
	// Find the ID threshold: the newest snapshot that falls outside keep.
	sel := builder.Select("sequence").From(entsql.Table(tableSnapshots))
	if questionFile != "" {
		sel.Where(entsql.EQ("question_file", questionFile))
	}
	query, args := sel.OrderBy(entsql.Desc("sequence")).Limit(1).Offset(keep).Query()

	var threshold int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&threshold); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil // fewer than keep snapshots exist
		}
		return fmt.Errorf("query snapshots for prune: %w", err)
	}

	cond := entsql.LTE("sequence", threshold)
	if questionFile != "" {
		cond = entsql.And(cond, entsql.EQ("question_file", questionFile))
	}
	query, args = builder.Delete(tableSnapshots).Where(cond).Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}
