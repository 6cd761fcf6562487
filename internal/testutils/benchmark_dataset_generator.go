package testutils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode"
)

// GenerateMatchDataset creates size cases by picking catalog entries and
// corrupting them with a noise kind. The seed parameter controls
// randomization; a fixed value gives reproducible datasets.
func GenerateMatchDataset(catalog []string, size int, seed int64) *MatchDataset {
	rng := rand.New(rand.NewSource(seed))

	dataset := &MatchDataset{
		Metadata: DatasetMetadata{
			Name:        "Synthetic Match Dataset",
			Version:     "1.0.0",
			Description: "Catalog entries corrupted with case changes, typos, dropped and transposed letters, and truncation.",
			Seed:        seed,
			Size:        size,
		},
		Catalog: append([]string(nil), catalog...),
		Cases:   make([]MatchCase, 0, size),
	}
	if len(catalog) == 0 {
		dataset.Metadata.Size = 0
		return dataset
	}

	for i := range size {
		expected := catalog[rng.Intn(len(catalog))]
		noise := NoiseKinds[i%len(NoiseKinds)]
		dataset.Cases = append(dataset.Cases, MatchCase{
			ID:       fmt.Sprintf("case_%04d", i+1),
			Query:    ApplyNoise(rng, expected, noise),
			Expected: expected,
			Noise:    noise,
		})
	}

	return dataset
}

// GenerateMatchDatasetDefault creates a dataset over DefaultCatalog with a
// time-based seed.
func GenerateMatchDatasetDefault(size int) *MatchDataset {
	return GenerateMatchDataset(DefaultCatalog, size, time.Now().UnixNano())
}

// ApplyNoise corrupts s according to noise. Strings too short for a kind of
// corruption are returned unchanged, so the result is never empty when s is
// not.
func ApplyNoise(rng *rand.Rand, s, noise string) string {
	runes := []rune(s)
	n := len(runes)

	switch noise {
	case NoiseCase:
		return strings.ToUpper(s)
	case NoiseTypo:
		if n == 0 {
			return s
		}
		i := rng.Intn(n)
		runes[i] = replacementLetter(rng, runes[i])
	case NoiseDrop:
		if n < 2 {
			return s
		}
		i := rng.Intn(n)
		runes = append(runes[:i], runes[i+1:]...)
	case NoiseTranspose:
		if n < 2 {
			return s
		}
		i := rng.Intn(n - 1)
		runes[i], runes[i+1] = runes[i+1], runes[i]
	case NoiseTruncate:
		if n < 4 {
			return s
		}
		keep := n - 1 - rng.Intn(n/4)
		runes = runes[:keep]
	}
	return string(runes)
}

// replacementLetter returns a lowercase letter different from r.
func replacementLetter(rng *rand.Rand, r rune) rune {
	for {
		c := rune('a' + rng.Intn(26))
		if c != unicode.ToLower(r) {
			return c
		}
	}
}
