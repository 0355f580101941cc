package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendAttempt(ctx context.Context, data AttemptEventData) error {
	var answer any
	if data.UserAnswer != nil {
		b, err := json.Marshal(data.UserAnswer)
		if err != nil {
			return fmt.Errorf("marshal user answer: %w", err)
		}
		answer = string(b)
	}
	return appendEvent(ctx, r.db, r.seq, tableAttempts,
		[]string{"session_id", "question_file", "question_key", "kind", "correct", "user_answer", "message"},
		[]any{data.SessionID, data.QuestionFile, data.QuestionKey, data.Kind, data.Correct, answer, data.Message},
	)
}

func (r *eventRepo) QueryAttempts(ctx context.Context, opts QueryOpts) ([]AttemptEvent, error) {
	sel := selectEvents(tableAttempts,
		[]string{"session_id", "question_file", "question_key", "kind", "correct", "user_answer", "message"},
		opts, true, true)

	var out []AttemptEvent
	err := queryRows(ctx, r.db, sel, func(rows *sql.Rows) error {
		var (
			e      AttemptEvent
			answer sql.NullString
		)
		if err := rows.Scan(&e.Sequence, &e.Timestamp, &e.SessionID, &e.QuestionFile,
			&e.QuestionKey, &e.Kind, &e.Correct, &answer, &e.Message); err != nil {
			return err
		}
		if answer.Valid && answer.String != "" {
			if err := json.Unmarshal([]byte(answer.String), &e.UserAnswer); err != nil {
				return fmt.Errorf("decode user answer: %w", err)
			}
		}
		out = append(out, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	return out, nil
}

func (r *eventRepo) QuestionStats(ctx context.Context, questionFile, questionKey string) (AttemptStats, error) {
	query, args := builder.Select(entsql.Count("*"), "COALESCE(SUM(correct), 0)").
		From(entsql.Table(tableAttempts)).
		Where(entsql.And(
			entsql.EQ("question_file", questionFile),
			entsql.EQ("question_key", questionKey),
		)).
		Query()

	var stats AttemptStats
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&stats.Attempts, &stats.Correct); err != nil {
		return AttemptStats{}, fmt.Errorf("query question stats: %w", err)
	}
	return stats, nil
}
