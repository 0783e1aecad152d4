package store_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"critique/internal/catalog"
	"critique/internal/pipeline"
	"critique/internal/store"
	"critique/internal/testsupport"
)

func TestWorkRecordRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := st.ImportRecords(ctx, []catalog.Record{testsupport.ForrestGump()}); err != nil {
		t.Fatalf("ImportRecords: %v", err)
	}
	rec, err := st.WorkRecord(ctx, "tt0109830")
	if err != nil {
		t.Fatalf("WorkRecord: %v", err)
	}
	if rec.Work.PrimaryTitle != "Forrest Gump" || rec.Work.StartYear != 1994 || !reflect.DeepEqual(rec.Work.Genres, []string{"Drama"}) {
		t.Fatalf("work = %+v", rec.Work)
	}
	if len(rec.Credits) != 2 {
		t.Fatalf("credits = %+v, want 2", rec.Credits)
	}
	first := rec.Credits[0]
	if first.Name.PrimaryName != "Tom Hanks" || first.Category != "actor" || first.Character != `["Forrest Gump"]` {
		t.Fatalf("first credit = %+v", first)
	}

	// Re-import replaces principals instead of duplicating them.
	if err := st.ImportRecords(ctx, []catalog.Record{testsupport.ForrestGump()}); err != nil {
		t.Fatalf("re-import: %v", err)
	}
	rec, err = st.WorkRecord(ctx, "tt0109830")
	if err != nil {
		t.Fatalf("WorkRecord: %v", err)
	}
	if len(rec.Credits) != 2 {
		t.Fatalf("credits after re-import = %d, want 2", len(rec.Credits))
	}
}

func TestWorkRecordUnknown(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	_, err := st.WorkRecord(context.Background(), "tt404")
	if !errors.Is(err, store.ErrNotFound) || !errors.Is(err, catalog.ErrUnknownWork) {
		t.Fatalf("WorkRecord error = %v, want ErrNotFound and ErrUnknownWork", err)
	}
}

func TestDenylist(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	added, err := st.AddDenylist(ctx, []string{"Hope", "Will", " ", "Hope"})
	if err != nil {
		t.Fatalf("AddDenylist: %v", err)
	}
	if added != 2 {
		t.Fatalf("added = %d, want 2", added)
	}
	deny, err := st.Denylist(ctx)
	if err != nil {
		t.Fatalf("Denylist: %v", err)
	}
	if got := deny.Names(); !reflect.DeepEqual(got, []string{"Hope", "Will"}) {
		t.Fatalf("names = %q", got)
	}
}

func TestReviewLifecycle(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	ids := testsupport.SeedReviews(t, st, "First review.", "Second review.")

	pending, err := st.ReviewsForPreprocess(ctx)
	if err != nil {
		t.Fatalf("ReviewsForPreprocess: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != ids[0] || pending[0].WorkID != "tt0109830" {
		t.Fatalf("pending = %+v", pending)
	}

	if err := st.UpdateNormalized(ctx, ids[0], "first review."); err != nil {
		t.Fatalf("UpdateNormalized: %v", err)
	}
	sentences := []store.NewSentence{
		{Text: "First review.", Compound: 0.2, Positive: 0.2, Neutral: 0.8, Words: []store.NewWord{
			{Text: "First", POS: "ADJ"}, {Text: "review", POS: "NOUN"}, {Text: ".", POS: "PUNCT"},
		}},
		{Text: "Again, yes.", Words: []store.NewWord{{Text: "Again"}, {Text: ",", Clause: 1}, {Text: "yes", Clause: 1}}},
	}
	if err := st.SaveSentences(ctx, ids[0], sentences); err != nil {
		t.Fatalf("SaveSentences: %v", err)
	}
	// Saving again replaces rather than appends.
	if err := st.SaveSentences(ctx, ids[0], sentences); err != nil {
		t.Fatalf("SaveSentences again: %v", err)
	}

	review, err := st.GetReview(ctx, ids[0])
	if err != nil {
		t.Fatalf("GetReview: %v", err)
	}
	if review.Status != store.StatusProcessed || review.NormalizedText != "first review." {
		t.Fatalf("review = %+v", review)
	}
	stored, err := st.Sentences(ctx, ids[0])
	if err != nil {
		t.Fatalf("Sentences: %v", err)
	}
	if len(stored) != 2 || stored[0].Text != "First review." || stored[0].Compound != 0.2 {
		t.Fatalf("sentences = %+v", stored)
	}
	words, err := st.Words(ctx, stored[1].ID)
	if err != nil {
		t.Fatalf("Words: %v", err)
	}
	if len(words) != 3 || words[1].Text != "," || words[1].Clause != 1 || words[0].POS != "" {
		t.Fatalf("words = %+v", words)
	}

	if err := st.MarkReview(ctx, ids[1], store.StatusFailed, "tagger offline"); err != nil {
		t.Fatalf("MarkReview: %v", err)
	}
	pending, err = st.ReviewsForPreprocess(ctx)
	if err != nil {
		t.Fatalf("ReviewsForPreprocess: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("pending after processing = %+v", pending)
	}
	moved, err := st.RetryFailed(ctx)
	if err != nil || moved != 1 {
		t.Fatalf("RetryFailed = %d, %v", moved, err)
	}

	stats, err := st.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Reviews[store.StatusProcessed] != 1 || stats.Reviews[store.StatusPending] != 1 || stats.Sentences != 2 || stats.Words != 6 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestMissingReview(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	if _, err := st.GetReview(ctx, 42); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetReview error = %v, want ErrNotFound", err)
	}
	if err := st.UpdateNormalized(ctx, 42, "x"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("UpdateNormalized error = %v, want ErrNotFound", err)
	}
	if err := st.SaveSentences(ctx, 42, nil); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("SaveSentences error = %v, want ErrNotFound", err)
	}
}

func TestSentencesPendingChunks(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	ids := testsupport.SeedReviews(t, st, "One.", "Two.")
	for i, id := range ids {
		var sentences []store.NewSentence
		for j := 0; j < 3; j++ {
			sentences = append(sentences, store.NewSentence{Text: strings.Repeat("x", i+j+1)})
		}
		if err := st.SaveSentences(ctx, id, sentences); err != nil {
			t.Fatalf("SaveSentences: %v", err)
		}
	}

	var seen []int64
	for {
		chunk, err := st.SentencesPending(ctx, 4)
		if err != nil {
			t.Fatalf("SentencesPending: %v", err)
		}
		if len(chunk) == 0 {
			break
		}
		if len(chunk) > 4 {
			t.Fatalf("chunk of %d exceeds limit", len(chunk))
		}
		var batch []int64
		for _, s := range chunk {
			batch = append(batch, s.ID)
		}
		seen = append(seen, batch...)
		if err := st.MarkAnalyzed(ctx, batch); err != nil {
			t.Fatalf("MarkAnalyzed: %v", err)
		}
	}
	if len(seen) != 6 {
		t.Fatalf("saw %d sentences, want 6", len(seen))
	}
	for i := 1; i < len(seen); i++ {
		if seen[i] <= seen[i-1] {
			t.Fatalf("ids not ascending: %v", seen)
		}
	}
}

func TestSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "critique.db")
	st, err := store.OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	st.Close()

	// Reopening a current database succeeds.
	st, err = store.OpenPath(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	st.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 999"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	db.Close()

	if _, err := store.OpenPath(path); !errors.Is(err, store.ErrSchemaMismatch) {
		t.Fatalf("OpenPath error = %v, want ErrSchemaMismatch", err)
	}
}

func TestFailureStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want store.Status
	}{
		{"plain", errors.New("boom"), store.StatusFailed},
		{"external", &pipeline.StageError{Stage: "tag", Err: errors.New("offline")}, store.StatusFailed},
		{"canceled", &pipeline.StageError{Stage: "tag", Err: context.Canceled}, store.StatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := store.FailureStatus(tt.err); got != tt.want {
				t.Fatalf("FailureStatus = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeReviews(t *testing.T) {
	doc := `
[[review]]
work_id = "tt0109830"
text = "Great movie!"

[[review]]
text = "No work linked."
`
	reviews, err := store.DecodeReviews(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("DecodeReviews: %v", err)
	}
	want := []store.NewReview{{WorkID: "tt0109830", Text: "Great movie!"}, {Text: "No work linked."}}
	if !reflect.DeepEqual(reviews, want) {
		t.Fatalf("reviews = %+v, want %+v", reviews, want)
	}
}
