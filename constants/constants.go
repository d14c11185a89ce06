package constants

import "time"

const (
	// G1CompressedSize is the width of a compressed G1 point.
	G1CompressedSize = 48
	// G1UncompressedSize is the width of an uncompressed G1 point (x || y).
	G1UncompressedSize = 96
	// G2CompressedSize is the width of a compressed G2 point.
	G2CompressedSize = 96
	// GTSize is the width of a pairing target element (12 base field coordinates).
	GTSize = 576

	// WordSize is the width in bytes of a tape or journal word.
	WordSize = 4

	// DefaultCacheMaxSize is the default number of memoised verification results.
	DefaultCacheMaxSize int64 = 10_000
	// DefaultVerifiedTTL is how long a memoised verification result is kept.
	DefaultVerifiedTTL = time.Hour
	// DefaultBatchParallelism is the number of concurrent provers of a batch.
	DefaultBatchParallelism = 1
)

// VerificationCacheOptions are the defaults for memoised receipt verification.
var VerificationCacheOptions = CacheTTLOptions{
	MaxSize: DefaultCacheMaxSize,
	TTL:     DefaultVerifiedTTL,
}

// CacheTTLOptions defines the size and TTL options for cache entries.
type CacheTTLOptions struct {
	MaxSize int64
	TTL     time.Duration
}
