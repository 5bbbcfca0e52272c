package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/models"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/shared"
)

// Vocabulary selects which documents the vectorizer is fitted on.
type Vocabulary string

const (
	VocabularyUnion       Vocabulary = "union"       // fitted on both playlists
	VocabularyDirectional Vocabulary = "directional" // fitted on the first playlist only
)

// ParseVocabulary maps a config or flag value to a [Vocabulary]. Empty selects [VocabularyUnion].
func ParseVocabulary(s string) (Vocabulary, error) {
	switch Vocabulary(strings.ToLower(strings.TrimSpace(s))) {
	case "", VocabularyUnion:
		return VocabularyUnion, nil
	case VocabularyDirectional:
		return VocabularyDirectional, nil
	default:
		return "", fmt.Errorf("%w: unknown vocabulary %q (want union or directional)", shared.ErrInvalidArgument, s)
	}
}

// Score returns the similarity of a and b as a percentage in [0, 100] rounded to two decimals.
//
// An empty playlist, or one without any usable artist or genre word, scores 0.
func Score(a, b *models.Snapshot, mode Vocabulary) float64 {
	docA, docB := Document(a), Document(b)

	v := &CountVectorizer{}
	if mode == VocabularyDirectional {
		v.Fit(docA)
	} else {
		v.Fit(docA, docB)
	}

	if len(v.Vocabulary()) == 0 {
		return 0
	}

	return percent(Cosine(v.Transform(docA), v.Transform(docB)))
}

func percent(cos float64) float64 {
	p := math.Round(cos*100*100) / 100
	return math.Max(0, math.Min(100, p))
}
