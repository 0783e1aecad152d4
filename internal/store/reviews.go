package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const reviewColumns = "id, work_id, raw_text, normalized_text, status, error_message, created_at, updated_at"

func scanReview(scanner interface{ Scan(dest ...any) error }) (*Review, error) {
	var (
		r          Review
		workID     sql.NullString
		normalized sql.NullString
		status     string
		errMsg     sql.NullString
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(&r.ID, &workID, &r.RawText, &normalized, &status, &errMsg, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	r.WorkID = workID.String
	r.NormalizedText = normalized.String
	r.Status = Status(status)
	r.ErrorMessage = errMsg.String
	if created, err := parseTimeString(createdRaw); err == nil {
		r.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		r.UpdatedAt = updated
	}
	return &r, nil
}

// AddReviews inserts pending reviews and returns their ids.
func (s *Store) AddReviews(ctx context.Context, reviews []NewReview) ([]int64, error) {
	var ids []int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		ids = ids[:0]
		now := nowString()
		for _, r := range reviews {
			if strings.TrimSpace(r.Text) == "" {
				return errors.New("review text required")
			}
			res, err := tx.ExecContext(ctx, `INSERT INTO reviews (work_id, raw_text, status, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?)`, nullableString(strings.TrimSpace(r.WorkID)), r.Text, StatusPending, now, now)
			if err != nil {
				return fmt.Errorf("insert review: %w", err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// GetReview returns the review with id or ErrNotFound.
func (s *Store) GetReview(ctx context.Context, id int64) (*Review, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+reviewColumns+` FROM reviews WHERE id = ?`, id)
	r, err := scanReview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("review %d: %w", id, ErrNotFound)
	}
	return r, err
}

// ReviewsForPreprocess returns pending and normalized reviews in id order.
// Normalized reviews were interrupted after their normalized text was saved.
func (s *Store) ReviewsForPreprocess(ctx context.Context) ([]*Review, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+reviewColumns+` FROM reviews WHERE status IN (?, ?) ORDER BY id`, StatusPending, StatusNormalized)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()
	var out []*Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// UpdateNormalized stores a review's normalized text and moves it to
// StatusNormalized.
func (s *Store) UpdateNormalized(ctx context.Context, id int64, text string) error {
	res, err := s.execWithRetry(ctx, `UPDATE reviews SET normalized_text = ?, status = ?, error_message = NULL, updated_at = ? WHERE id = ?`,
		text, StatusNormalized, nowString(), id)
	if err != nil {
		return fmt.Errorf("update normalized text: %w", err)
	}
	return requireRow(res, id)
}

// MarkReview records a terminal or retry status with an optional message.
func (s *Store) MarkReview(ctx context.Context, id int64, status Status, message string) error {
	res, err := s.execWithRetry(ctx, `UPDATE reviews SET status = ?, error_message = ?, updated_at = ? WHERE id = ?`,
		status, nullableString(message), nowString(), id)
	if err != nil {
		return fmt.Errorf("mark review: %w", err)
	}
	return requireRow(res, id)
}

// RetryFailed moves failed reviews back to pending and returns how many
// moved.
func (s *Store) RetryFailed(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `UPDATE reviews SET status = ?, error_message = NULL, updated_at = ? WHERE status = ?`,
		StatusPending, nowString(), StatusFailed)
	if err != nil {
		return 0, fmt.Errorf("retry failed reviews: %w", err)
	}
	return res.RowsAffected()
}

func requireRow(res sql.Result, id int64) error {
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("review %d: %w", id, ErrNotFound)
	}
	return nil
}

// SaveSentences replaces a review's sentences and words and marks the
// review processed, all in one transaction.
func (s *Store) SaveSentences(ctx context.Context, reviewID int64, sentences []NewSentence) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM words WHERE sentence_id IN (SELECT id FROM sentences WHERE review_id = ?)`, reviewID); err != nil {
			return fmt.Errorf("clear words: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM sentences WHERE review_id = ?`, reviewID); err != nil {
			return fmt.Errorf("clear sentences: %w", err)
		}
		for i, sent := range sentences {
			res, err := tx.ExecContext(ctx, `INSERT INTO sentences (review_id, position, text, negative, neutral, positive, compound)
				VALUES (?, ?, ?, ?, ?, ?, ?)`, reviewID, i, sent.Text, sent.Negative, sent.Neutral, sent.Positive, sent.Compound)
			if err != nil {
				return fmt.Errorf("insert sentence: %w", err)
			}
			sentenceID, err := res.LastInsertId()
			if err != nil {
				return err
			}
			for j, w := range sent.Words {
				if _, err := tx.ExecContext(ctx, `INSERT INTO words (sentence_id, position, word, pos, clause) VALUES (?, ?, ?, ?, ?)`,
					sentenceID, j, w.Text, nullableString(w.POS), w.Clause); err != nil {
					return fmt.Errorf("insert word: %w", err)
				}
			}
		}
		res, err := tx.ExecContext(ctx, `UPDATE reviews SET status = ?, error_message = NULL, updated_at = ? WHERE id = ?`,
			StatusProcessed, nowString(), reviewID)
		if err != nil {
			return fmt.Errorf("mark processed: %w", err)
		}
		return requireRow(res, reviewID)
	})
}
