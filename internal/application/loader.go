package application

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-votematch/internal/domain"
	"github.com/ahrav/go-votematch/internal/ports"
)

// EnsembleLoader parses, validates, and compiles ensemble configurations
// into ready-to-run Ensembles. Compiled ensembles are cached by the hash of
// their normalized configuration.
type EnsembleLoader struct {
	validator *validator.Validate
	registry  ports.ScorerRegistry
	// cache stores compiled ensembles indexed by SHA256 hash of the
	// normalized configuration.
	cache   map[string]*Ensemble
	cacheMu sync.RWMutex
	// sf deduplicates concurrent compilation of the same configuration.
	sf singleflight.Group
}

// NewEnsembleLoader creates a loader that resolves algorithm types through
// registry. A nil registry uses NewDefaultScorerRegistry.
func NewEnsembleLoader(registry ports.ScorerRegistry) (*EnsembleLoader, error) {
	if registry == nil {
		registry = NewDefaultScorerRegistry()
	}

	v := validator.New()
	if err := registerCustomValidators(v); err != nil {
		return nil, fmt.Errorf("failed to register custom validators: %w", err)
	}

	return &EnsembleLoader{
		validator: v,
		registry:  registry,
		cache:     make(map[string]*Ensemble),
	}, nil
}

// LoadFromFile loads and compiles an ensemble from a YAML file.
// A missing file yields an error wrapping ports.ErrConfigNotFound.
func (l *EnsembleLoader) LoadFromFile(ctx context.Context, path string) (*Ensemble, error) {
	cleanPath := filepath.Clean(path)

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ports.NewConfigError(cleanPath, fmt.Errorf("%w: %w", ports.ErrConfigNotFound, err))
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return l.LoadFromBytes(ctx, data)
}

// LoadFromReader loads and compiles an ensemble from an io.Reader.
func (l *EnsembleLoader) LoadFromReader(ctx context.Context, r io.Reader) (*Ensemble, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}

	return l.LoadFromBytes(ctx, data)
}

// LoadFromBytes parses, validates, and compiles YAML configuration data.
// The returned Ensemble may be shared with other callers loading the same
// configuration; it is immutable and safe for concurrent use.
func (l *EnsembleLoader) LoadFromBytes(ctx context.Context, data []byte) (*Ensemble, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	config, err := l.parseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	hash, err := calculateConfigHash(config)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate hash: %w", err)
	}

	v, err, _ := l.sf.Do(hash, func() (any, error) {
		if ensemble, ok := l.getCachedEnsemble(hash); ok {
			return ensemble, nil
		}

		if err := l.Validate(config); err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}

		ensemble, err := l.Compile(config)
		if err != nil {
			return nil, fmt.Errorf("failed to build ensemble: %w", err)
		}

		l.cacheEnsemble(hash, ensemble)
		return ensemble, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Ensemble), nil
}

// parseYAML decodes data strictly; unknown fields are rejected so typos are
// not silently ignored.
func (l *EnsembleLoader) parseYAML(data []byte) (*EnsembleConfig, error) {
	var config EnsembleConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty configuration", domain.ErrInvalidConfiguration)
		}
		return nil, fmt.Errorf("YAML decode failed: %w", err)
	}
	return &config, nil
}

// Validate runs struct validation followed by semantic validation.
// Failures wrap domain.ErrInvalidConfiguration.
func (l *EnsembleLoader) Validate(config *EnsembleConfig) error {
	if config == nil {
		return fmt.Errorf("%w: configuration is nil", domain.ErrInvalidConfiguration)
	}
	if err := l.validator.Struct(config); err != nil {
		return fmt.Errorf("%w: struct validation failed: %w", domain.ErrInvalidConfiguration, err)
	}
	if err := l.validateSemantics(config); err != nil {
		return fmt.Errorf("semantic validation failed: %w", err)
	}
	return nil
}

// validateSemantics checks rules that struct tags cannot express: unique
// algorithm IDs, registered scorer types, and per-type parameters. Every
// failure is collected into a single ValidationError.
func (l *EnsembleLoader) validateSemantics(config *EnsembleConfig) error {
	verr := domain.NewValidationError(config.Metadata.Name)
	var unknown []error

	supported := make(map[string]struct{})
	for _, t := range l.registry.GetSupportedTypes() {
		supported[t] = struct{}{}
	}

	seen := make(map[string]struct{}, len(config.Algorithms))
	for _, alg := range config.Algorithms {
		if _, dup := seen[alg.ID]; dup {
			verr.AddError(fmt.Sprintf("duplicate algorithm ID %q", alg.ID))
		}
		seen[alg.ID] = struct{}{}

		if _, ok := supported[alg.Type]; !ok {
			unknown = append(unknown, ports.NewConfigError("algorithms."+alg.ID+".type",
				fmt.Errorf("%w: %s", ports.ErrUnknownScorer, alg.Type)))
			continue
		}

		if err := ValidateScorerParameters(alg.Type, alg.Parameters); err != nil {
			verr.AddError(fmt.Sprintf("algorithm %s parameter validation failed: %v", alg.ID, err))
		}
	}

	var errs []error
	if verr.HasErrors() {
		errs = append(errs, verr)
	}
	errs = append(errs, unknown...)
	return errors.Join(errs...)
}

// Compile builds an Ensemble from an already validated configuration.
func (l *EnsembleLoader) Compile(config *EnsembleConfig) (*Ensemble, error) {
	members := make([]member, 0, len(config.Algorithms))
	for _, alg := range config.Algorithms {
		params, err := DecodeParameters(alg.Parameters)
		if err != nil {
			return nil, fmt.Errorf("algorithm %s: %w", alg.ID, err)
		}

		scorer, err := l.registry.CreateScorer(alg.Type, alg.ID, params)
		if err != nil {
			return nil, err
		}

		ranking := domain.RankingConfig{Threshold: alg.ThresholdOrDefault(), TopN: alg.TopN}
		if err := ranking.Validate(); err != nil {
			return nil, fmt.Errorf("algorithm %s: %w", alg.ID, err)
		}
		members = append(members, member{scorer: scorer, ranking: ranking})
	}

	return newEnsemble(config, members)
}

// calculateConfigHash computes the SHA256 hash of a normalized config so
// semantically identical files share a cache entry regardless of
// whitespace or comments.
func calculateConfigHash(config *EnsembleConfig) (string, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(config); err != nil {
		return "", fmt.Errorf("failed to encode config for hashing: %w", err)
	}

	hash := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(hash[:]), nil
}

func (l *EnsembleLoader) getCachedEnsemble(hash string) (*Ensemble, bool) {
	l.cacheMu.RLock()
	defer l.cacheMu.RUnlock()

	ensemble, ok := l.cache[hash]
	return ensemble, ok
}

func (l *EnsembleLoader) cacheEnsemble(hash string, ensemble *Ensemble) {
	l.cacheMu.Lock()
	defer l.cacheMu.Unlock()

	l.cache[hash] = ensemble
}

// ClearCache drops every compiled ensemble.
func (l *EnsembleLoader) ClearCache() {
	l.cacheMu.Lock()
	defer l.cacheMu.Unlock()

	l.cache = make(map[string]*Ensemble)
}
