package testsupport

import (
	"context"
	"testing"

	"critique/internal/catalog"
	"critique/internal/config"
	"critique/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// ForrestGump is a small catalog record used across tests.
func ForrestGump() catalog.Record {
	return catalog.Record{
		Work: catalog.Work{ID: "tt0109830", PrimaryTitle: "Forrest Gump", StartYear: 1994, Genres: []string{"Drama"}},
		Credits: []catalog.Credit{
			{
				Principal: catalog.Principal{WorkID: "tt0109830", NameID: "nm0000158", Category: "actor", Character: `["Forrest Gump"]`},
				Name:      catalog.Name{ID: "nm0000158", PrimaryName: "Tom Hanks"},
			},
			{
				Principal: catalog.Principal{WorkID: "tt0109830", NameID: "nm0000709", Category: "director"},
				Name:      catalog.Name{ID: "nm0000709", PrimaryName: "Robert Zemeckis"},
			},
		},
	}
}

// SeedReviews imports ForrestGump and the given review texts for its work
// and returns the review ids.
func SeedReviews(t testing.TB, st *store.Store, texts ...string) []int64 {
	t.Helper()

	ctx := context.Background()
	if err := st.ImportRecords(ctx, []catalog.Record{ForrestGump()}); err != nil {
		t.Fatalf("ImportRecords: %v", err)
	}
	reviews := make([]store.NewReview, len(texts))
	for i, text := range texts {
		reviews[i] = store.NewReview{WorkID: "tt0109830", Text: text}
	}
	ids, err := st.AddReviews(ctx, reviews)
	if err != nil {
		t.Fatalf("AddReviews: %v", err)
	}
	return ids
}
