package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/lass9436/YomiYomi-sub002/internal/model"
)

const itemColumns = `id, kind, level, category, weight, character, onyomi, kunyomi, strokes,
	word, reading, meaning, title, body, translation`

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(sc scanner) (model.StudyItem, error) {
	var (
		info                       model.ItemInfo
		kind                       string
		level                      int
		character, onyomi, kunyomi string
		strokes                    int
		word, reading, meaning     string
		title, body, translation   string
	)
	if err := sc.Scan(&info.ID, &kind, &level, &info.Category, &info.LearningWeight,
		&character, &onyomi, &kunyomi, &strokes,
		&word, &reading, &meaning, &title, &body, &translation); err != nil {
		return nil, err
	}
	info.Level = model.Level(level)
	switch model.Kind(kind) {
	case model.KindKanji:
		return model.Kanji{ItemInfo: info, Character: character, Onyomi: onyomi, Kunyomi: kunyomi, Meaning: meaning, Strokes: strokes}, nil
	case model.KindWord:
		return model.Word{ItemInfo: info, Word: word, Reading: reading, Meaning: meaning}, nil
	case model.KindSentence:
		return model.Sentence{ItemInfo: info, Title: title, Text: body, Translation: translation}, nil
	default:
		return nil, fmt.Errorf("item %s has unknown kind %q", info.ID, kind)
	}
}

func (s *Store) queryItems(ctx context.Context, op, where string, args ...any) ([]model.StudyItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM items WHERE %s ORDER BY id`, itemColumns, where)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable(op, err)
	}
	defer closeRows(rows)

	var items []model.StudyItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, unavailable(op, err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(op, err)
	}
	return items, nil
}

// GetPoolByLevel returns every item of the given level ordered by id.
// LevelAll returns every item.
func (s *Store) GetPoolByLevel(ctx context.Context, level model.Level) ([]model.StudyItem, error) {
	if level == model.LevelAll {
		return s.queryItems(ctx, "get pool", "1=1")
	}
	return s.queryItems(ctx, "get pool", "level = ?", int(level))
}

// GetPoolByKind returns items of one kind, optionally restricted to a level.
func (s *Store) GetPoolByKind(ctx context.Context, kind model.Kind, level model.Level) ([]model.StudyItem, error) {
	if level == model.LevelAll {
		return s.queryItems(ctx, "get pool", "kind = ?", string(kind))
	}
	return s.queryItems(ctx, "get pool", "kind = ? AND level = ?", string(kind), int(level))
}

// GetByID returns the item with id. found is false when it does not exist.
func (s *Store) GetByID(ctx context.Context, id string) (model.StudyItem, bool, error) {
	row := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT %s FROM items WHERE id = ?`, itemColumns), id)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, unavailable("get item", err)
	}
	return it, true, nil
}

// UpdateLearningWeight stores a new weight for id.
func (s *Store) UpdateLearningWeight(ctx context.Context, id string, weight float64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE items SET weight = ? WHERE id = ?`, weight, id)
	if err != nil {
		return unavailable("update weight", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable("update weight", err)
	}
	if n == 0 {
		return fmt.Errorf("update weight: item %q does not exist", id)
	}
	return nil
}

// GetDistinctCategories lists non-empty categories in sorted order.
func (s *Store) GetDistinctCategories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT category FROM items WHERE category != '' ORDER BY category`)
	if err != nil {
		return nil, unavailable("list categories", err)
	}
	defer closeRows(rows)

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, unavailable("list categories", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list categories", err)
	}
	return out, nil
}

// UpsertItem inserts or replaces an item. Items without an id get a new one.
// The stored item is returned.
func (s *Store) UpsertItem(ctx context.Context, item model.StudyItem) (model.StudyItem, error) {
	info := item.Info()
	if strings.TrimSpace(info.ID) == "" {
		info.ID = uuid.NewString()
	}
	var (
		character, onyomi, kunyomi string
		strokes                    int
		word, reading, meaning     string
		title, body, translation   string
	)
	switch v := item.(type) {
	case model.Kanji:
		v.ItemInfo = info
		item = v
		character, onyomi, kunyomi, meaning, strokes = v.Character, v.Onyomi, v.Kunyomi, v.Meaning, v.Strokes
	case model.Word:
		v.ItemInfo = info
		item = v
		word, reading, meaning = v.Word, v.Reading, v.Meaning
	case model.Sentence:
		v.ItemInfo = info
		item = v
		title, body, translation = v.Title, v.Text, v.Translation
	default:
		return nil, fmt.Errorf("upsert item: unsupported type %T", item)
	}

	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`INSERT INTO items (%s)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind, level = excluded.level, category = excluded.category,
			weight = excluded.weight, character = excluded.character, onyomi = excluded.onyomi,
			kunyomi = excluded.kunyomi, strokes = excluded.strokes, word = excluded.word,
			reading = excluded.reading, meaning = excluded.meaning, title = excluded.title,
			body = excluded.body, translation = excluded.translation`, itemColumns),
		info.ID, string(item.Kind()), int(info.Level), info.Category, info.LearningWeight,
		character, onyomi, kunyomi, strokes,
		word, reading, meaning, title, body, translation,
	)
	if err != nil {
		return nil, unavailable("upsert item", err)
	}
	return item, nil
}

// CountByLevel returns item counts per level and kind.
func (s *Store) CountByLevel(ctx context.Context) (map[model.Level]map[model.Kind]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT level, kind, COUNT(*) FROM items GROUP BY level, kind`)
	if err != nil {
		return nil, unavailable("count items", err)
	}
	defer closeRows(rows)

	out := map[model.Level]map[model.Kind]int{}
	for rows.Next() {
		var level, n int
		var kind string
		if err := rows.Scan(&level, &kind, &n); err != nil {
			return nil, unavailable("count items", err)
		}
		l := model.Level(level)
		if out[l] == nil {
			out[l] = map[model.Kind]int{}
		}
		out[l][model.Kind(kind)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("count items", err)
	}
	return out, nil
}
