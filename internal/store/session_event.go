package store

import (
	"context"
	"database/sql"
	"fmt"
)

func (r *eventRepo) AppendSession(ctx context.Context, data SessionEventData) error {
	return appendEvent(ctx, r.db, r.seq, tableSessions,
		[]string{"session_id", "question_file", "action", "score", "total", "duration_secs"},
		[]any{data.SessionID, data.QuestionFile, data.Action, data.Score, data.Total, data.DurationSecs},
	)
}

func (r *eventRepo) QuerySessions(ctx context.Context, opts QueryOpts) ([]SessionEvent, error) {
	sel := selectEvents(tableSessions,
		[]string{"session_id", "question_file", "action", "score", "total", "duration_secs"},
		opts, true, true)

	var out []SessionEvent
	err := queryRows(ctx, r.db, sel, func(rows *sql.Rows) error {
		var e SessionEvent
		if err := rows.Scan(&e.Sequence, &e.Timestamp, &e.SessionID, &e.QuestionFile,
			&e.Action, &e.Score, &e.Total, &e.DurationSecs); err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	return out, nil
}

func (r *eventRepo) AppendReview(ctx context.Context, data ReviewEventData) error {
	return appendEvent(ctx, r.db, r.seq, tableReviews,
		[]string{"session_id", "deck", "card_id", "correct", "box"},
		[]any{data.SessionID, data.Deck, data.CardID, data.Correct, data.Box},
	)
}
