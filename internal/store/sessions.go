package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lass9436/YomiYomi-sub002/internal/model"
)

// InsertSession stores a completed session and its answers. A session
// without an id gets a new one, which is returned.
func (s *Store) InsertSession(ctx context.Context, rec model.SessionRecord, answers []model.AnswerRecord) (id string, err error) {
	id = rec.ID
	if id == "" {
		id = uuid.NewString()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", unavailable("insert session", err)
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, started_at, ended_at, mode, level, total, score, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.EndedAt.Format(time.RFC3339Nano),
		rec.Mode,
		int(rec.Level),
		rec.Total,
		rec.Score,
		rec.DurationMs,
	); err != nil {
		return "", unavailable("insert session", err)
	}

	if len(answers) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO session_answers (session_id, seq, item_id, correct, revealed, new_weight)
			 VALUES (?, ?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return "", unavailable("insert session", err)
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for i, a := range answers {
			if _, err = stmt.ExecContext(ctx, id, i, a.ItemID, boolInt(a.Correct), boolInt(a.Revealed), a.NewWeight); err != nil {
				return "", unavailable("insert session", err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return "", unavailable("insert session", err)
	}
	return id, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// ListSessions returns session aggregates filtered by stats config, oldest
// first. Last keeps only the most recent sessions.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Mode != "" {
		clauses = append(clauses, "mode = ?")
		args = append(args, cfg.Mode)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	limit := -1
	if cfg.Last > 0 {
		limit = cfg.Last
	}
	args = append(args, limit)
	query := fmt.Sprintf(`SELECT id, ended_at, mode, total, score, duration_ms FROM (
			SELECT * FROM sessions
			WHERE %s
			ORDER BY ended_at DESC
			LIMIT ?
		) ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable("list sessions", err)
	}
	defer closeRows(rows)

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		if err := rows.Scan(&agg.SessionID, &endedAt, &agg.Mode, &agg.Total, &agg.Score, &agg.DurationMs); err != nil {
			return nil, unavailable("list sessions", err)
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, fmt.Errorf("session %s: bad ended_at %q: %w", agg.SessionID, endedAt, err)
		}
		agg.EndedAt = parsed
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list sessions", err)
	}
	return sessions, nil
}

// ListItemAggregates sums answers per item across the given sessions.
// Items deleted since keep their id as label.
func (s *Store) ListItemAggregates(ctx context.Context, sessionIDs []string) ([]model.ItemAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(sessionIDs))
	args := make([]any, len(sessionIDs))
	for i, id := range sessionIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT a.item_id,
			COALESCE(i.kind, ''),
			COALESCE(CASE i.kind
				WHEN 'kanji' THEN i.character
				WHEN 'word' THEN i.word
				ELSE COALESCE(NULLIF(i.title, ''), i.body)
			END, a.item_id),
			SUM(a.correct), SUM(1 - a.correct),
			COALESCE(i.weight, 0)
		FROM session_answers a
		LEFT JOIN items i ON i.id = a.item_id
		WHERE a.session_id IN (%s)
		GROUP BY a.item_id
		ORDER BY a.item_id`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable("list item stats", err)
	}
	defer closeRows(rows)

	var result []model.ItemAggregate
	for rows.Next() {
		var agg model.ItemAggregate
		var kind string
		if err := rows.Scan(&agg.ItemID, &kind, &agg.Label, &agg.Correct, &agg.Incorrect, &agg.LearningWeight); err != nil {
			return nil, unavailable("list item stats", err)
		}
		agg.Kind = model.Kind(kind)
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list item stats", err)
	}
	return result, nil
}
