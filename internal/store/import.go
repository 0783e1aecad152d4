package store

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
)

type reviewFile struct {
	Reviews []NewReview `toml:"review"`
}

// DecodeReviews parses a review import document made of [[review]] tables
// with work_id and text keys.
func DecodeReviews(r io.Reader) ([]NewReview, error) {
	var f reviewFile
	if err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}
	return f.Reviews, nil
}
