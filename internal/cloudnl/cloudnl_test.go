package cloudnl

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/language/apiv2/languagepb"

	"critique/internal/tagging"
)

type fakeAPI struct {
	entities  *languagepb.AnalyzeEntitiesResponse
	sentiment *languagepb.AnalyzeSentimentResponse
	err       error
}

func (f fakeAPI) AnalyzeEntities(context.Context, string) (*languagepb.AnalyzeEntitiesResponse, error) {
	return f.entities, f.err
}

func (f fakeAPI) AnalyzeSentiment(context.Context, string) (*languagepb.AnalyzeSentimentResponse, error) {
	return f.sentiment, f.err
}

func mention(content string, offset int32, typ languagepb.EntityMention_Type) *languagepb.EntityMention {
	return &languagepb.EntityMention{
		Text: &languagepb.TextSpan{Content: content, BeginOffset: offset},
		Type: typ,
	}
}

func TestTaggerOverlaysProperMentions(t *testing.T) {
	api := fakeAPI{entities: &languagepb.AnalyzeEntitiesResponse{Entities: []*languagepb.Entity{
		{Name: "Tom Hanks", Type: languagepb.Entity_PERSON, Mentions: []*languagepb.EntityMention{
			mention("Tom Hanks", 10, languagepb.EntityMention_PROPER),
		}},
		{Name: "Fargo", Type: languagepb.Entity_WORK_OF_ART, Mentions: []*languagepb.EntityMention{
			mention("Fargo", 0, languagepb.EntityMention_PROPER),
		}},
		{Name: "actor", Type: languagepb.Entity_PERSON, Mentions: []*languagepb.EntityMention{
			mention("actor", 26, languagepb.EntityMention_COMMON),
		}},
	}}}
	tagger, err := NewTagger(api, nil)
	if err != nil {
		t.Fatalf("NewTagger: %v", err)
	}
	doc, err := tagger.Tag(context.Background(), "Fargo has Tom Hanks as an actor")
	if err != nil {
		t.Fatalf("Tag: %v", err)
	}
	ents := doc.Entities()
	if len(ents) != 2 {
		t.Fatalf("entities = %+v, want 2", ents)
	}
	if ents[0].Text != "Fargo" || ents[0].Label != tagging.WorkOfArt {
		t.Fatalf("first entity = %+v", ents[0])
	}
	if ents[1].Text != "Tom Hanks" || ents[1].Label != tagging.Person {
		t.Fatalf("second entity = %+v", ents[1])
	}
}

func TestTaggerPropagatesErrors(t *testing.T) {
	tagger, _ := NewTagger(fakeAPI{err: errors.New("quota")}, nil)
	if _, err := tagger.Tag(context.Background(), "anything"); err == nil {
		t.Fatal("expected error")
	}
	if _, err := NewTagger(nil, nil); err == nil {
		t.Fatal("expected error for nil API")
	}
}

func TestScorer(t *testing.T) {
	s := NewScorer(fakeAPI{sentiment: &languagepb.AnalyzeSentimentResponse{
		DocumentSentiment: &languagepb.Sentiment{Score: -0.5, Magnitude: 0.5},
	}})
	got, err := s.Score(context.Background(), "Not great.")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if got.Compound != -0.5 || got.Negative != 0.5 || got.Positive != 0 || got.Neutral != 0.5 {
		t.Fatalf("score = %+v", got)
	}

	empty := NewScorer(fakeAPI{sentiment: &languagepb.AnalyzeSentimentResponse{}})
	if got, _ := empty.Score(context.Background(), "x"); got.Compound != 0 {
		t.Fatalf("score without document sentiment = %+v", got)
	}
}

func TestCredentialOption(t *testing.T) {
	if _, err := credentialOption(""); err == nil {
		t.Fatal("expected error for empty credentials")
	}
	if _, err := credentialOption("%%%not-base64"); err == nil {
		t.Fatal("expected error for undecodable credentials")
	}
	if _, err := credentialOption("e30="); err != nil {
		t.Fatalf("base64 credentials: %v", err)
	}
}
