package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"candidate-service/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// collection describes one owned child table. Every collection listed here is
// replaced wholesale on update: the stored rows are deleted and the supplied
// set is inserted in the caller's transaction. Rows keep the caller's order
// through sort_order.
type collection[T any] struct {
	table string
	// columns after candidate_id and sort_order, in insert order
	columns []string
	// placeholders override "$n" for columns that need a cast
	casts  map[string]string
	values func(item T) ([]any, error)
	// selects mirrors columns for reading; a column may be wrapped (to_char)
	selects []string
	scan    func(row pgx.Row) (uuid.UUID, T, error)
}

var skillCollection = collection[domain.Skill]{
	table:   "candidate_skills",
	columns: []string{"id", "skill", "kind", "level"},
	values: func(s domain.Skill) ([]any, error) {
		return []any{s.ID, s.Skill, string(s.Kind), s.Level}, nil
	},
	selects: []string{"id", "skill", "kind", "level"},
	scan: func(row pgx.Row) (uuid.UUID, domain.Skill, error) {
		var candidateID uuid.UUID
		var s domain.Skill
		var kind string
		err := row.Scan(&candidateID, &s.ID, &s.Skill, &kind, &s.Level)
		s.Kind = domain.SkillKind(kind)
		return candidateID, s, err
	},
}

var projectCollection = collection[domain.Project]{
	table:   "projects",
	columns: []string{"id", "title", "description", "links"},
	casts:   map[string]string{"links": "::jsonb"},
	values: func(p domain.Project) ([]any, error) {
		links, err := marshalJSON(p.Links)
		if err != nil {
			return nil, fmt.Errorf("encode project links: %w", err)
		}
		return []any{p.ID, p.Title, p.Description, links}, nil
	},
	selects: []string{"id", "title", "description", "links"},
	scan: func(row pgx.Row) (uuid.UUID, domain.Project, error) {
		var candidateID uuid.UUID
		var p domain.Project
		var links []byte
		if err := row.Scan(&candidateID, &p.ID, &p.Title, &p.Description, &links); err != nil {
			return candidateID, p, err
		}
		if err := unmarshalJSON(links, &p.Links); err != nil {
			return candidateID, p, fmt.Errorf("decode project links: %w", err)
		}
		return candidateID, p, nil
	},
}

var experienceCollection = collection[domain.Experience]{
	table:   "experiences",
	columns: []string{"id", "company", "position", "start_date", "end_date", "responsibilities"},
	casts:   map[string]string{"start_date": "::date", "end_date": "::date"},
	values: func(e domain.Experience) ([]any, error) {
		var end *string
		if e.EndDate != nil && *e.EndDate != "" {
			end = e.EndDate
		}
		return []any{e.ID, e.Company, e.Position, e.StartDate, end, e.Responsibilities}, nil
	},
	selects: []string{
		"id", "company", "position",
		"to_char(start_date, 'YYYY-MM-DD')", "to_char(end_date, 'YYYY-MM-DD')",
		"responsibilities",
	},
	scan: func(row pgx.Row) (uuid.UUID, domain.Experience, error) {
		var candidateID uuid.UUID
		var e domain.Experience
		err := row.Scan(&candidateID, &e.ID, &e.Company, &e.Position, &e.StartDate, &e.EndDate, &e.Responsibilities)
		return candidateID, e, err
	},
}

func (c collection[T]) insertSQL() string {
	cols := append([]string{"candidate_id", "sort_order"}, c.columns...)
	placeholders := make([]string, len(cols))
	for i, col := range cols {
		placeholders[i] = fmt.Sprintf("$%d%s", i+1, c.casts[col])
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		c.table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
}

func (c collection[T]) selectSQL() string {
	return fmt.Sprintf("SELECT candidate_id, %s FROM %s WHERE candidate_id = ANY($1::uuid[]) ORDER BY candidate_id, sort_order",
		strings.Join(c.selects, ", "), c.table)
}

// replace deletes every stored row of the collection for the candidate and
// inserts items in order. An empty items clears the collection.
func (c collection[T]) replace(ctx context.Context, tx pgx.Tx, candidateID uuid.UUID, items []T) error {
	if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE candidate_id = $1", c.table), candidateID); err != nil {
		return fmt.Errorf("clear %s: %w", c.table, err)
	}
	return c.insert(ctx, tx, candidateID, items)
}

func (c collection[T]) insert(ctx context.Context, tx pgx.Tx, candidateID uuid.UUID, items []T) error {
	if len(items) == 0 {
		return nil
	}

	query := c.insertSQL()
	batch := &pgx.Batch{}
	for i, item := range items {
		vals, err := c.values(item)
		if err != nil {
			return err
		}
		batch.Queue(query, append([]any{candidateID, i}, vals...)...)
	}

	br := tx.SendBatch(ctx, batch)
	for range items {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("insert %s: %w", c.table, err)
		}
	}
	return br.Close()
}

// load returns the rows of every listed candidate, grouped by candidate id.
func (c collection[T]) load(ctx context.Context, q querier, candidateIDs []uuid.UUID) (map[uuid.UUID][]T, error) {
	out := make(map[uuid.UUID][]T, len(candidateIDs))
	if len(candidateIDs) == 0 {
		return out, nil
	}

	ids := make([]string, len(candidateIDs))
	for i, id := range candidateIDs {
		ids[i] = id.String()
	}

	rows, err := q.Query(ctx, c.selectSQL(), ids)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", c.table, err)
	}
	defer rows.Close()

	for rows.Next() {
		candidateID, item, err := c.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", c.table, err)
		}
		out[candidateID] = append(out[candidateID], item)
	}
	return out, rows.Err()
}

// marshalJSON encodes a JSON object column; nil maps are stored as NULL.
func marshalJSON(m map[string]any) (*string, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

func unmarshalJSON(b []byte, dst *map[string]any) error {
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, dst)
}
