package testutils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/go-playground/validator/v10"
)

// MatchDataset is a catalog plus noisy queries with known answers, used to
// measure how often an ensemble recovers the intended entry.
type MatchDataset struct {
	// Metadata provides information about the dataset itself.
	Metadata DatasetMetadata `json:"metadata"`

	// Catalog is the candidate list every case is matched against.
	Catalog []string `json:"catalog" validate:"required,min=2,unique,dive,required"`

	// Cases contains the queries and their expected matches.
	Cases []MatchCase `json:"cases" validate:"required,dive"`
}

// MatchCase is a single query with its ground-truth catalog entry.
type MatchCase struct {
	// ID uniquely identifies this case in the dataset.
	ID string `json:"id" validate:"required"`

	// Query is the noisy text to match.
	Query string `json:"query" validate:"required"`

	// Expected is the catalog entry the query was derived from.
	Expected string `json:"expected" validate:"required"`

	// Noise names the corruption applied to Expected.
	Noise string `json:"noise" validate:"oneof=none case typo drop transpose truncate"`
}

// DatasetMetadata contains information about how a dataset was produced.
type DatasetMetadata struct {
	// Name identifies the dataset.
	Name string `json:"name" validate:"required"`

	// Version tracks dataset revisions.
	Version string `json:"version" validate:"required"`

	// Description provides details about the dataset contents.
	Description string `json:"description"`

	// Seed reproduces the dataset with GenerateMatchDataset.
	Seed int64 `json:"seed"`

	// Size is the number of cases.
	Size int `json:"case_count" validate:"min=0"`
}

// DatasetStatistics summarizes a dataset.
type DatasetStatistics struct {
	TotalCases  int
	CatalogSize int
	NoiseCount  map[string]int
}

// LoadMatchDataset loads and validates a dataset from a JSON file.
func LoadMatchDataset(path string) (*MatchDataset, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file: %w", err)
	}

	var dataset MatchDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		return nil, fmt.Errorf("failed to parse dataset JSON: %w", err)
	}

	if err := ValidateMatchDataset(&dataset); err != nil {
		return nil, fmt.Errorf("dataset validation failed: %w", err)
	}

	return &dataset, nil
}

// SaveMatchDataset writes a dataset as indented JSON, creating parent
// directories as needed.
func SaveMatchDataset(dataset *MatchDataset, path string) error {
	if err := ValidateMatchDataset(dataset); err != nil {
		return fmt.Errorf("dataset validation failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(dataset, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write dataset file: %w", err)
	}
	return nil
}

// ValidateMatchDataset checks struct constraints, minimum size, unique case
// IDs, and that every expected entry exists in the catalog.
func ValidateMatchDataset(dataset *MatchDataset) error {
	if dataset == nil {
		return fmt.Errorf("dataset is nil")
	}

	if err := NewTestValidator().Struct(dataset); err != nil {
		return err
	}

	if len(dataset.Cases) < MinimumDatasetSize {
		return fmt.Errorf("dataset must contain at least %d cases, found %d",
			MinimumDatasetSize, len(dataset.Cases))
	}

	seenIDs := make(map[string]struct{}, len(dataset.Cases))
	for _, c := range dataset.Cases {
		if _, dup := seenIDs[c.ID]; dup {
			return fmt.Errorf("duplicate case ID: %s", c.ID)
		}
		seenIDs[c.ID] = struct{}{}

		if !slices.Contains(dataset.Catalog, c.Expected) {
			return fmt.Errorf("case %s expects %q which is not in the catalog", c.ID, c.Expected)
		}
	}

	return nil
}

// ComputeDatasetStatistics counts cases per noise kind.
func ComputeDatasetStatistics(dataset *MatchDataset) DatasetStatistics {
	stats := DatasetStatistics{
		TotalCases:  len(dataset.Cases),
		CatalogSize: len(dataset.Catalog),
		NoiseCount:  make(map[string]int),
	}
	for _, c := range dataset.Cases {
		stats.NoiseCount[c.Noise]++
	}
	return stats
}

// NewTestValidator creates a new validator instance for testing.
// This provides a consistent validator configuration across all tests.
func NewTestValidator() *validator.Validate {
	return validator.New()
}
