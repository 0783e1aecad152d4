package cloudnl

import (
	"context"
	"errors"

	"cloud.google.com/go/language/apiv2/languagepb"

	"critique/internal/polarity"
	"critique/internal/tagging"
)

// Tagger overlays Cloud entity mentions on a base tagger's tokens.
type Tagger struct {
	api  API
	base tagging.Tagger
}

var _ tagging.Tagger = (*Tagger)(nil)

// NewTagger returns a Tagger. A nil base falls back to whitespace tokens.
func NewTagger(api API, base tagging.Tagger) (*Tagger, error) {
	if api == nil {
		return nil, errors.New("cloudnl tagger requires an API")
	}
	return &Tagger{api: api, base: base}, nil
}

// Tag implements tagging.Tagger.
func (t *Tagger) Tag(ctx context.Context, sentence string) (tagging.Doc, error) {
	doc := tagging.WhitespaceTokens(sentence)
	if t.base != nil {
		var err error
		if doc, err = t.base.Tag(ctx, sentence); err != nil {
			return tagging.Doc{}, err
		}
	}
	resp, err := t.api.AnalyzeEntities(ctx, sentence)
	if err != nil {
		return tagging.Doc{}, err
	}
	for i := range doc.Tokens {
		doc.Tokens[i].IOB = tagging.Outside
		doc.Tokens[i].Type = tagging.TypeNone
	}
	for _, e := range resp.GetEntities() {
		label := entityType(e.GetType())
		if label == tagging.TypeNone {
			continue
		}
		for _, m := range e.GetMentions() {
			if m.GetType() != languagepb.EntityMention_PROPER || m.GetText() == nil {
				continue
			}
			begin := int(m.GetText().GetBeginOffset())
			markSpan(doc.Tokens, begin, begin+len(m.GetText().GetContent()), label)
		}
	}
	return tagging.FixEntitySpans(doc), nil
}

func markSpan(tokens []tagging.Token, begin, end int, typ tagging.EntityType) {
	first := true
	for i := range tokens {
		s := tokens[i].Start
		if s < begin || s >= end {
			continue
		}
		tokens[i].Type = typ
		tokens[i].IOB = tagging.Inside
		if first {
			tokens[i].IOB = tagging.Begin
			first = false
		}
	}
}

func entityType(t languagepb.Entity_Type) tagging.EntityType {
	switch t {
	case languagepb.Entity_PERSON:
		return tagging.Person
	case languagepb.Entity_WORK_OF_ART:
		return tagging.WorkOfArt
	default:
		return tagging.TypeNone
	}
}

// Scorer maps the document sentiment of a sentence onto polarity.Score.
type Scorer struct {
	api API
}

var _ polarity.Scorer = (*Scorer)(nil)

// NewScorer returns a Scorer.
func NewScorer(api API) *Scorer { return &Scorer{api: api} }

// Score implements polarity.Scorer.
func (s *Scorer) Score(ctx context.Context, sentence string) (polarity.Score, error) {
	resp, err := s.api.AnalyzeSentiment(ctx, sentence)
	if err != nil {
		return polarity.Score{}, err
	}
	ds := resp.GetDocumentSentiment()
	if ds == nil {
		return polarity.Score{}, nil
	}
	return polarity.FromSigned(float64(ds.GetScore())), nil
}
