package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainModel is the domain-separation prefix for model fingerprints.
// The version suffix enables future encoding migrations.
const DomainModel = "metasql/model/v1"

// Fingerprint computes a content-addressed identity for a QueryModel:
// SHA-256 over the domain prefix, a null separator, and the canonical
// JSON encoding. Two structurally identical models always produce the
// same fingerprint, independent of how they were constructed.
func Fingerprint(m *QueryModel) (string, error) {
	canonical, err := Canonical(m)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}

	h := sha256.New()
	h.Write([]byte(DomainModel))
	h.Write([]byte{0x00}) // null separator prevents domain/data boundary ambiguity
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil)), nil
}
