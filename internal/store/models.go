package store

import "time"

// Status is a review's preprocessing state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusNormalized Status = "normalized"
	StatusProcessed  Status = "processed"
	StatusFailed     Status = "failed"
)

// Review is one stored review.
type Review struct {
	ID             int64
	WorkID         string
	RawText        string
	NormalizedText string
	Status         Status
	ErrorMessage   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewReview is a review to import.
type NewReview struct {
	WorkID string `toml:"work_id"`
	Text   string `toml:"text"`
}

// NewWord is one token of a sentence to save.
type NewWord struct {
	Text   string
	POS    string
	Clause int
}

// NewSentence is one preprocessed sentence to save.
type NewSentence struct {
	Text     string
	Negative float64
	Neutral  float64
	Positive float64
	Compound float64
	Words    []NewWord
}

// Sentence is a stored sentence.
type Sentence struct {
	ID       int64
	ReviewID int64
	Position int
	Text     string
	Negative float64
	Neutral  float64
	Positive float64
	Compound float64
	Analyzed bool
}

// Word is a stored token.
type Word struct {
	SentenceID int64
	Position   int
	Text       string
	POS        string
	Clause     int
}

// Stats summarises the database contents.
type Stats struct {
	Works             int
	Names             int
	Denylisted        int
	Reviews           map[Status]int
	Sentences         int
	SentencesAnalyzed int
	Words             int
}
