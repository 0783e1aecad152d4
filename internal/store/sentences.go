package store

import (
	"context"
	"database/sql"
	"fmt"
)

const sentenceColumns = "id, review_id, position, text, negative, neutral, positive, compound, analyzed"

func scanSentence(scanner interface{ Scan(dest ...any) error }) (Sentence, error) {
	var (
		s        Sentence
		analyzed int
	)
	err := scanner.Scan(&s.ID, &s.ReviewID, &s.Position, &s.Text, &s.Negative, &s.Neutral, &s.Positive, &s.Compound, &analyzed)
	s.Analyzed = analyzed != 0
	return s, err
}

func (s *Store) querySentences(ctx context.Context, query string, args ...any) ([]Sentence, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sentences: %w", err)
	}
	defer rows.Close()
	var out []Sentence
	for rows.Next() {
		sent, err := scanSentence(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sent)
	}
	return out, rows.Err()
}

// Sentences returns a review's sentences in order.
func (s *Store) Sentences(ctx context.Context, reviewID int64) ([]Sentence, error) {
	return s.querySentences(ctx, `SELECT `+sentenceColumns+` FROM sentences WHERE review_id = ? ORDER BY position`, reviewID)
}

// SentencesPending returns up to limit unanalysed sentences in id order.
func (s *Store) SentencesPending(ctx context.Context, limit int) ([]Sentence, error) {
	if limit <= 0 {
		return nil, nil
	}
	return s.querySentences(ctx, `SELECT `+sentenceColumns+` FROM sentences WHERE analyzed = 0 ORDER BY id LIMIT ?`, limit)
}

// MarkAnalyzed flags sentences as consumed by downstream analysis.
func (s *Store) MarkAnalyzed(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.execWithRetry(ctx, `UPDATE sentences SET analyzed = 1 WHERE id IN (`+makePlaceholders(len(ids))+`)`, int64Args(ids)...)
	if err != nil {
		return fmt.Errorf("mark analyzed: %w", err)
	}
	return nil
}

// Words returns a sentence's tokens in order.
func (s *Store) Words(ctx context.Context, sentenceID int64) ([]Word, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT sentence_id, position, word, pos, clause FROM words WHERE sentence_id = ? ORDER BY position`, sentenceID)
	if err != nil {
		return nil, fmt.Errorf("query words: %w", err)
	}
	defer rows.Close()
	var out []Word
	for rows.Next() {
		var (
			w   Word
			pos sql.NullString
		)
		if err := rows.Scan(&w.SentenceID, &w.Position, &w.Text, &pos, &w.Clause); err != nil {
			return nil, err
		}
		w.POS = pos.String
		out = append(out, w)
	}
	return out, rows.Err()
}

// Stats counts rows per table and reviews per status.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	stats := Stats{Reviews: make(map[Status]int)}
	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(1) FROM works`, &stats.Works},
		{`SELECT COUNT(1) FROM names`, &stats.Names},
		{`SELECT COUNT(1) FROM denylist`, &stats.Denylisted},
		{`SELECT COUNT(1) FROM sentences`, &stats.Sentences},
		{`SELECT COUNT(1) FROM sentences WHERE analyzed = 1`, &stats.SentencesAnalyzed},
		{`SELECT COUNT(1) FROM words`, &stats.Words},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return Stats{}, fmt.Errorf("stats: %w", err)
		}
	}
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM reviews GROUP BY status`)
	if err != nil {
		return Stats{}, fmt.Errorf("review stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return Stats{}, err
		}
		stats.Reviews[Status(status)] = count
	}
	return stats, rows.Err()
}
