package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"critique/internal/catalog"
)

// ImportRecords upserts works, their names and principals. A work's
// principals are replaced wholesale.
func (s *Store) ImportRecords(ctx context.Context, records []catalog.Record) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, rec := range records {
			w := rec.Work
			if strings.TrimSpace(w.ID) == "" {
				return errors.New("work id required")
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO works (id, title, start_year, genres) VALUES (?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET title = excluded.title, start_year = excluded.start_year, genres = excluded.genres`,
				w.ID, w.PrimaryTitle, w.StartYear, nullableString(strings.Join(w.Genres, ","))); err != nil {
				return fmt.Errorf("upsert work %s: %w", w.ID, err)
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM principals WHERE work_id = ?`, w.ID); err != nil {
				return fmt.Errorf("clear principals of %s: %w", w.ID, err)
			}
			for i, c := range rec.Credits {
				if _, err := tx.ExecContext(ctx, `INSERT INTO names (id, primary_name) VALUES (?, ?)
					ON CONFLICT(id) DO UPDATE SET primary_name = excluded.primary_name`,
					c.Name.ID, c.Name.PrimaryName); err != nil {
					return fmt.Errorf("upsert name %s: %w", c.Name.ID, err)
				}
				if _, err := tx.ExecContext(ctx, `INSERT INTO principals (work_id, ordering, name_id, category, job, character_name)
					VALUES (?, ?, ?, ?, ?, ?)`,
					w.ID, i, c.Name.ID, c.Category, nullableString(c.Job), nullableString(c.Character)); err != nil {
					return fmt.Errorf("insert principal %s/%s: %w", w.ID, c.Name.ID, err)
				}
			}
		}
		return nil
	})
}

// WorkRecord implements metadata.Source. The error for a missing work wraps
// both ErrNotFound and catalog.ErrUnknownWork.
func (s *Store) WorkRecord(ctx context.Context, workID string) (catalog.Record, error) {
	ctx = ensureContext(ctx)
	var (
		rec    catalog.Record
		year   sql.NullInt64
		genres sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `SELECT id, title, start_year, genres FROM works WHERE id = ?`, workID).
		Scan(&rec.Work.ID, &rec.Work.PrimaryTitle, &year, &genres)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Record{}, fmt.Errorf("work %s: %w: %w", workID, ErrNotFound, catalog.ErrUnknownWork)
	}
	if err != nil {
		return catalog.Record{}, fmt.Errorf("load work %s: %w", workID, err)
	}
	rec.Work.StartYear = int(year.Int64)
	if genres.String != "" {
		rec.Work.Genres = strings.Split(genres.String, ",")
	}

	rows, err := s.db.QueryContext(ctx, `SELECT p.name_id, n.primary_name, p.category, p.job, p.character_name
		FROM principals p JOIN names n ON n.id = p.name_id
		WHERE p.work_id = ? ORDER BY p.ordering`, workID)
	if err != nil {
		return catalog.Record{}, fmt.Errorf("load principals of %s: %w", workID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			c              catalog.Credit
			job, character sql.NullString
		)
		if err := rows.Scan(&c.Name.ID, &c.Name.PrimaryName, &c.Category, &job, &character); err != nil {
			return catalog.Record{}, err
		}
		c.WorkID = workID
		c.NameID = c.Name.ID
		c.Job = job.String
		c.Character = character.String
		rec.Credits = append(rec.Credits, c)
	}
	return rec, rows.Err()
}

// AddDenylist stores names, ignoring duplicates, and returns how many were
// new.
func (s *Store) AddDenylist(ctx context.Context, names []string) (int, error) {
	added := 0
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		added = 0
		for _, n := range names {
			if n = strings.TrimSpace(n); n == "" {
				continue
			}
			res, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO denylist (name) VALUES (?)`, n)
			if err != nil {
				return fmt.Errorf("insert denylist name: %w", err)
			}
			if affected, _ := res.RowsAffected(); affected > 0 {
				added++
			}
		}
		return nil
	})
	return added, err
}

// Denylist loads every stored name.
func (s *Store) Denylist(ctx context.Context) (catalog.Denylist, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT name FROM denylist`)
	if err != nil {
		return nil, fmt.Errorf("load denylist: %w", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return catalog.NewDenylist(names...), nil
}
