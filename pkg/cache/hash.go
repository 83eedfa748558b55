package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 of data. Diagram hashes are Hash of the
// canonical JSON description, so the same diagram read from JSON, YAML or
// TOML hashes the same.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// digest hashes the JSON encoding of each part, one per line. Option
// structs encode their fields in declaration order and maps with sorted
// keys, so equal options always give equal digests.
func digest(parts ...any) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, p := range parts {
		_ = enc.Encode(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}
