package api

import (
	"time"

	"critique/internal/pipeline"
	"critique/internal/polarity"
	"critique/internal/store"
)

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// NormalizeRequest is the body of POST /normalize.
type NormalizeRequest struct {
	Text        string `json:"text" binding:"required"`
	UnicodeForm string `json:"unicode_form,omitempty"`
}

// NormalizeResponse carries normalized text.
type NormalizeResponse struct {
	Text string `json:"text"`
}

// PreprocessRequest is the body of POST /preprocess.
type PreprocessRequest struct {
	Text   string `json:"text" binding:"required"`
	WorkID string `json:"work_id,omitempty"`
}

// SentenceDTO is one processed sentence.
type SentenceDTO struct {
	Text     string         `json:"text"`
	Polarity polarity.Score `json:"polarity"`
}

// PreprocessResponse is the result of POST /preprocess.
type PreprocessResponse struct {
	NormalizedText string             `json:"normalized_text"`
	Sentences      []SentenceDTO      `json:"sentences"`
	Warnings       []pipeline.Warning `json:"warnings"`
}

// HealthResponse reports which models are loaded.
type HealthResponse struct {
	Status string `json:"status"`
	Tagger bool   `json:"tagger"`
	Scorer bool   `json:"scorer"`
	Store  bool   `json:"store"`
}

// ReviewDTO is a stored review with its sentences.
type ReviewDTO struct {
	ID             int64         `json:"id"`
	WorkID         string        `json:"work_id,omitempty"`
	Status         string        `json:"status"`
	ErrorMessage   string        `json:"error_message,omitempty"`
	NormalizedText string        `json:"normalized_text,omitempty"`
	UpdatedAt      string        `json:"updated_at,omitempty"`
	Sentences      []SentenceDTO `json:"sentences"`
}

// StatsDTO mirrors store.Stats.
type StatsDTO struct {
	Works             int            `json:"works"`
	Names             int            `json:"names"`
	Denylisted        int            `json:"denylisted"`
	Reviews           map[string]int `json:"reviews"`
	Sentences         int            `json:"sentences"`
	SentencesAnalyzed int            `json:"sentences_analyzed"`
	Words             int            `json:"words"`
}

// FromResult converts a pipeline result.
func FromResult(res pipeline.Result) PreprocessResponse {
	out := PreprocessResponse{
		NormalizedText: res.NormalizedText,
		Sentences:      make([]SentenceDTO, 0, len(res.Sentences)),
		Warnings:       res.Warnings,
	}
	if out.Warnings == nil {
		out.Warnings = []pipeline.Warning{}
	}
	for _, s := range res.Sentences {
		out.Sentences = append(out.Sentences, SentenceDTO{Text: s.Text, Polarity: s.Polarity})
	}
	return out
}

// FromReview converts a stored review and its sentences.
func FromReview(r *store.Review, sentences []store.Sentence) ReviewDTO {
	dto := ReviewDTO{
		ID:             r.ID,
		WorkID:         r.WorkID,
		Status:         string(r.Status),
		ErrorMessage:   r.ErrorMessage,
		NormalizedText: r.NormalizedText,
		UpdatedAt:      formatTime(r.UpdatedAt),
		Sentences:      make([]SentenceDTO, 0, len(sentences)),
	}
	for _, s := range sentences {
		dto.Sentences = append(dto.Sentences, SentenceDTO{
			Text: s.Text,
			Polarity: polarity.Score{
				Negative: s.Negative,
				Neutral:  s.Neutral,
				Positive: s.Positive,
				Compound: s.Compound,
			},
		})
	}
	return dto
}

// FromStats converts store statistics.
func FromStats(s store.Stats) StatsDTO {
	reviews := make(map[string]int, len(s.Reviews))
	for status, n := range s.Reviews {
		reviews[string(status)] = n
	}
	return StatsDTO{
		Works:             s.Works,
		Names:             s.Names,
		Denylisted:        s.Denylisted,
		Reviews:           reviews,
		Sentences:         s.Sentences,
		SentencesAnalyzed: s.SentencesAnalyzed,
		Words:             s.Words,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateTimeFormat)
}
