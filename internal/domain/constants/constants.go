package constants

import "time"

// Conversational state constants
const (
	// PendingContextTTL is how long a pending confirmation or correction
	// stays alive before it expires.
	PendingContextTTL = 5 * time.Minute

	// ContextSweepInterval is how often the background sweeper runs.
	ContextSweepInterval = time.Minute
)

// Catalog matching constants
const (
	// MinSuggestionScore filters weak candidates out of the suggestion list.
	MinSuggestionScore = 0.3

	// TokenOverlapThreshold is the minimum token-overlap score that counts
	// as a direct match.
	TokenOverlapThreshold = 0.6

	// MaxSuggestions caps the suggestion list shown to the user.
	MaxSuggestions = 3
)

// Sale computation constants
const (
	// EstimatedMarginRate is assumed when a product has no cost price.
	// Heuristic default, not a measured value.
	EstimatedMarginRate = 0.30

	// SalesCategory is the ledger category for confirmed sales.
	SalesCategory = "vendas"

	// FallbackCategory receives anything the category mapping cannot place.
	FallbackCategory = "outros"
)

// AI model constants
const (
	// GeminiModelName is the model used for both text parsing and vision.
	GeminiModelName = "gemini-2.5-flash"

	// AITemperature keeps the parser output stable.
	AITemperature = 0.2

	// AITopK Top-K sampling parameter
	AITopK = 20

	// AITopP Top-P sampling parameter
	AITopP = 0.9

	// MaxRetries for transient AI failures.
	MaxRetries = 3

	// RetryDelaySeconds between AI retries.
	RetryDelaySeconds = 5
)
