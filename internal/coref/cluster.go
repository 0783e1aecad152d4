package coref

import (
	"context"
	"strings"
)

// Span is one mention. Start and End are document-global token offsets;
// End is inclusive.
type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Cluster is a set of mentions of the same entity.
type Cluster struct {
	Spans []Span `json:"spans"`
}

// Resolver finds coreference clusters over tokenized sentences.
type Resolver interface {
	Resolve(ctx context.Context, sentences [][]string) ([]Cluster, error)
}

// Class is the classification of a cluster.
type Class int

const (
	Ignored Class = iota
	SelfReference
	RoleReference
)

func (c Class) String() string {
	switch c {
	case SelfReference:
		return "self_reference"
	case RoleReference:
		return "role_reference"
	default:
		return "ignored"
	}
}

// Classified is a cluster with its class. Principal holds the role phrase
// for RoleReference clusters.
type Classified struct {
	Cluster   Cluster
	Class     Class
	Principal string
}

var directReferences = map[string]struct{}{
	"the movie": {}, "this movie": {}, "the film": {}, "this film": {}, "this flick": {},
}

var pronounReferences = map[string]struct{}{
	"it": {}, "this": {}, "it 's": {}, "it's": {}, "its": {}, "this one": {},
}

var workNouns = map[string]struct{}{"movie": {}, "film": {}, "flick": {}}

// rolePronouns lists, in priority order, the pronouns that may stand for
// each credited role.
var rolePronouns = []struct {
	role     string
	pronouns []string
}{
	{"the director", []string{"he", "he 's", "she", "she 's", "they", "they 're", "his", "her", "their"}},
	{"the actor", []string{"he", "he 's"}},
	{"the actress", []string{"she", "she 's"}},
	{"the actors", []string{"they", "they 're"}},
	{"the composer", []string{"he", "he 's", "she", "she 's", "they", "they 're"}},
	{"the writer", []string{"he", "he 's", "she", "she 's", "they", "they 're"}},
	{"the writers", []string{"they", "they 're"}},
	{"the editor", []string{"he", "he 's", "she", "she 's", "they", "they 're"}},
}

func lowered(c Cluster) []string {
	out := make([]string, len(c.Spans))
	for i, s := range c.Spans {
		out[i] = strings.ToLower(strings.TrimSpace(s.Text))
	}
	return out
}

func contains(texts []string, want string) bool {
	for _, t := range texts {
		if t == want {
			return true
		}
	}
	return false
}

// Classify assigns a class to every cluster.
func Classify(clusters []Cluster) []Classified {
	direct := false
	for _, c := range clusters {
		for _, t := range lowered(c) {
			if _, ok := directReferences[t]; ok {
				direct = true
			}
		}
	}
	out := make([]Classified, 0, len(clusters))
	for _, c := range clusters {
		texts := lowered(c)
		cl := Classified{Cluster: c}
		if isSelfReference(texts, direct) {
			cl.Class = SelfReference
		} else if role := roleFor(texts); role != "" {
			cl.Class = RoleReference
			cl.Principal = role
		}
		out = append(out, cl)
	}
	return out
}

func isSelfReference(texts []string, direct bool) bool {
	if len(texts) == 0 {
		return false
	}
	for _, t := range texts {
		if _, ok := directReferences[t]; ok {
			return true
		}
	}
	if !direct {
		all := true
		for _, t := range texts {
			if _, ok := pronounReferences[t]; !ok {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	if contains(texts, "this") || contains(texts, "this one") {
		for _, t := range texts {
			words := strings.Fields(t)
			if len(words) == 0 {
				continue
			}
			if _, ok := workNouns[words[len(words)-1]]; ok {
				return true
			}
		}
	}
	return false
}

func roleFor(texts []string) string {
	for _, rp := range rolePronouns {
		if contains(texts, rp.role) {
			return rp.role
		}
	}
	return ""
}

func rolePronounSet(role string) map[string]struct{} {
	for _, rp := range rolePronouns {
		if rp.role == role {
			set := make(map[string]struct{}, len(rp.pronouns))
			for _, p := range rp.pronouns {
				set[p] = struct{}{}
			}
			return set
		}
	}
	return nil
}

// Substitutions maps token offsets to replacement text for every
// self-reference and role-reference cluster.
func Substitutions(clusters []Cluster) map[int]string {
	subs := make(map[int]string)
	for _, c := range Classify(clusters) {
		switch c.Class {
		case SelfReference:
			for _, s := range c.Cluster.Spans {
				t := strings.ToLower(strings.TrimSpace(s.Text))
				switch {
				case strings.HasPrefix(t, "the "):
					subs[s.Start] = "this"
				case t == "this" || t == "it" || t == "it 's" || t == "it's" || t == "movie" || t == "film" || t == "flick":
					subs[s.Start] = ThisMovie
				case t == "its":
					subs[s.Start] = ThisMovie + "'s"
				case t == "this one" || t == "this film" || t == "this flick":
					subs[s.End] = "movie"
				}
			}
		case RoleReference:
			allowed := rolePronounSet(c.Principal)
			for _, s := range c.Cluster.Spans {
				t := strings.ToLower(strings.TrimSpace(s.Text))
				if _, ok := allowed[t]; !ok {
					continue
				}
				if t == "his" || t == "her" || t == "their" {
					subs[s.Start] = c.Principal + "'s"
				} else {
					subs[s.Start] = c.Principal
				}
			}
		}
	}
	return subs
}

// ThisMovie is the self-reference placeholder.
const ThisMovie = "this movie"

// StaticResolver returns fixed clusters, for tests and replays.
type StaticResolver struct {
	Clusters []Cluster
	Err      error
}

// Resolve implements Resolver.
func (s StaticResolver) Resolve(context.Context, [][]string) ([]Cluster, error) {
	return s.Clusters, s.Err
}
