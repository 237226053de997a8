package core

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// Short returns the first 12 hex characters, used for ETags and log lines
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// ComputeSubsetHash fingerprints the rows of one load of a dataset together
// with the filters that produced them. Each row is an opaque key that must
// change whenever the row's content does. Row order does not affect the result.
func ComputeSubsetHash(dataset DatasetID, rows []string, filters map[string]string) Hash {
	keys := make([]string, len(rows))
	copy(keys, rows)
	sort.Strings(keys)

	var data strings.Builder
	data.WriteString(dataset.String())
	data.WriteByte('|')
	for _, row := range keys {
		data.WriteString(row)
		data.WriteByte(',')
	}

	names := make([]string, 0, len(filters))
	for k := range filters {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, name := range names {
		data.WriteString(name)
		data.WriteByte('=')
		data.WriteString(filters[name])
		data.WriteByte(';')
	}

	return NewHash([]byte(data.String()))
}
