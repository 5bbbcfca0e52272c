package analysis

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/models"
)

// tokenPattern matches runs of two or more word characters.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Tokenize lowercases doc and returns its tokens in order, duplicates included.
func Tokenize(doc string) []string {
	return tokenPattern.FindAllString(strings.ToLower(doc), -1)
}

// Document builds the bag-of-words document of a snapshot: every artist name and genre tag, lowercased,
// split on whitespace and deduplicated. Words are sorted so the document is stable between runs.
func Document(s *models.Snapshot) string {
	if s.IsEmpty() {
		return ""
	}

	seen := make(map[string]struct{})
	for _, t := range s.Tracks {
		for _, w := range strings.Fields(strings.ToLower(t.ArtistName + " " + t.Genre)) {
			seen[w] = struct{}{}
		}
	}

	words := make([]string, 0, len(seen))
	for w := range seen {
		words = append(words, w)
	}
	sort.Strings(words)

	return strings.Join(words, " ")
}

// CountVectorizer maps documents to term-count vectors over a fixed vocabulary.
type CountVectorizer struct {
	index map[string]int
	terms []string
}

// Fit learns the vocabulary from docs. Terms are indexed in sorted order.
func (v *CountVectorizer) Fit(docs ...string) *CountVectorizer {
	seen := make(map[string]struct{})
	for _, doc := range docs {
		for _, tok := range Tokenize(doc) {
			seen[tok] = struct{}{}
		}
	}

	v.terms = make([]string, 0, len(seen))
	for tok := range seen {
		v.terms = append(v.terms, tok)
	}
	sort.Strings(v.terms)

	v.index = make(map[string]int, len(v.terms))
	for i, tok := range v.terms {
		v.index[tok] = i
	}

	return v
}

// Vocabulary returns the fitted terms in index order.
func (v *CountVectorizer) Vocabulary() []string {
	return v.terms
}

// Transform counts the vocabulary terms of doc. Terms outside the vocabulary are dropped.
func (v *CountVectorizer) Transform(doc string) []float64 {
	vec := make([]float64, len(v.terms))
	for _, tok := range Tokenize(doc) {
		if i, ok := v.index[tok]; ok {
			vec[i]++
		}
	}
	return vec
}

// Cosine returns the cosine of the angle between a and b, or 0 when either is a zero vector.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}

	if na == 0 || nb == 0 {
		return 0
	}

	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
