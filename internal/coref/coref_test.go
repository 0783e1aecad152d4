package coref

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func cluster(spans ...Span) Cluster { return Cluster{Spans: spans} }

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		clusters  []Cluster
		want      Class
		principal string
	}{
		{
			name:     "direct reference",
			clusters: []Cluster{cluster(Span{0, 1, "The movie"}, Span{5, 5, "it"})},
			want:     SelfReference,
		},
		{
			name:     "bare pronouns without direct reference",
			clusters: []Cluster{cluster(Span{0, 0, "It"}, Span{5, 5, "this"})},
			want:     SelfReference,
		},
		{
			name:      "role pronoun",
			clusters:  []Cluster{cluster(Span{0, 1, "the director"}, Span{4, 4, "his"})},
			want:      RoleReference,
			principal: "the director",
		},
		{
			name:     "unknown person",
			clusters: []Cluster{cluster(Span{0, 0, "John"}, Span{4, 4, "he"})},
			want:     Ignored,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.clusters)
			if got[0].Class != tt.want || got[0].Principal != tt.principal {
				t.Fatalf("Classify = %v/%q, want %v/%q", got[0].Class, got[0].Principal, tt.want, tt.principal)
			}
		})
	}
}

func TestPronounsNotSelfWhenWorkNamedElsewhere(t *testing.T) {
	got := Classify([]Cluster{
		cluster(Span{0, 1, "this movie"}),
		cluster(Span{6, 6, "it"}, Span{9, 9, "it"}),
	})
	if got[1].Class != Ignored {
		t.Fatalf("bare pronoun cluster should be ignored once the work is named, got %v", got[1].Class)
	}
}

func TestSubstitutions(t *testing.T) {
	subs := Substitutions([]Cluster{
		cluster(Span{0, 1, "The film"}, Span{6, 6, "its"}, Span{9, 10, "this one"}, Span{14, 14, "It"}),
		cluster(Span{20, 21, "the actor"}, Span{25, 25, "he"}, Span{30, 30, "his"}),
	})
	want := map[int]string{
		0:  "this",
		6:  "this movie's",
		10: "movie",
		14: "this movie",
		25: "the actor",
	}
	if !reflect.DeepEqual(subs, want) {
		t.Fatalf("Substitutions = %v, want %v", subs, want)
	}
}

func TestHTTPResolver(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method %s", r.Method)
		}
		var req resolveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Sentences) != 2 || req.Sentences[1][0] != "He" {
			t.Fatalf("unexpected sentences %v", req.Sentences)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"clusters_token_offsets": [][][2]int{{{0, 1}, {4, 4}}},
			"clusters_token_text":    [][]string{{"the actor", "He"}},
		})
	}))
	defer server.Close()

	r, err := NewHTTPResolver(server.URL, WithRateLimit(100))
	if err != nil {
		t.Fatalf("NewHTTPResolver: %v", err)
	}
	clusters, err := r.Resolve(context.Background(), [][]string{{"the", "actor", "wins", "."}, {"He", "rocks"}})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []Cluster{cluster(Span{0, 1, "the actor"}, Span{4, 4, "He"})}
	if !reflect.DeepEqual(clusters, want) {
		t.Fatalf("clusters = %+v, want %+v", clusters, want)
	}
}

func TestHTTPResolverStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	r, err := NewHTTPResolver(server.URL)
	if err != nil {
		t.Fatalf("NewHTTPResolver: %v", err)
	}
	if _, err := r.Resolve(context.Background(), [][]string{{"x"}}); err == nil {
		t.Fatal("expected error for 503")
	}
}

func TestNewHTTPResolverRequiresEndpoint(t *testing.T) {
	if _, err := NewHTTPResolver("  "); err == nil {
		t.Fatal("expected error for empty endpoint")
	}
}
