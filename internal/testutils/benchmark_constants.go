package testutils

// Dataset size constants
const (
	// MinimumDatasetSize is the minimum number of cases in a valid dataset.
	MinimumDatasetSize = 50

	// MinimumCatalogSize is the minimum number of catalog entries.
	MinimumCatalogSize = 2
)

// Noise kinds applied to a catalog entry to derive a query.
const (
	NoiseNone      = "none"
	NoiseCase      = "case"
	NoiseTypo      = "typo"
	NoiseDrop      = "drop"
	NoiseTranspose = "transpose"
	NoiseTruncate  = "truncate"
)

// NoiseKinds lists every noise kind in generation order.
var NoiseKinds = []string{NoiseNone, NoiseCase, NoiseTypo, NoiseDrop, NoiseTranspose, NoiseTruncate}

// DefaultCatalog is a job-role catalog used when no catalog file is given.
var DefaultCatalog = []string{
	"manager",
	"sales manager",
	"managing director",
	"marketing manager",
	"sales executive",
	"account manager",
	"operations director",
	"software engineer",
	"data scientist",
	"product manager",
	"financial analyst",
	"human resources officer",
	"customer support agent",
	"logistics coordinator",
	"quality assurance engineer",
}
