package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// layoutKey keeps the strategy and seed readable so that entries can be
// inspected or dropped per strategy in a shared Redis, e.g.
// "layout:force:7:3f9a...".
func layoutKey(graphHash string, opts LayoutKeyOpts) string {
	strategy := strings.ReplaceAll(opts.Strategy, ":", "_")
	if strategy == "" {
		strategy = "-"
	}
	return strings.Join([]string{
		"layout",
		strategy,
		strconv.FormatUint(opts.Seed, 10),
		Hash([]byte(graphHash)),
	}, ":")
}
