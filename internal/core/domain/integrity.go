package domain

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"hash"

	"go.trai.ch/zerr"
)

// IntegrityMode selects the subresource-integrity digest for a shared chunk.
// The zero value disables integrity.
type IntegrityMode string

const (
	// IntegrityDisabled turns off integrity metadata.
	IntegrityDisabled IntegrityMode = ""
	// IntegritySHA256 uses SHA-256 digests.
	IntegritySHA256 IntegrityMode = "sha256"
	// IntegritySHA384 uses SHA-384 digests.
	IntegritySHA384 IntegrityMode = "sha384"
	// IntegritySHA512 uses SHA-512 digests.
	IntegritySHA512 IntegrityMode = "sha512"

	// DefaultIntegrity is used when integrity is enabled without naming an algorithm.
	DefaultIntegrity = IntegritySHA384
)

// ParseIntegrity parses an algorithm name. The empty string and "false" disable integrity,
// "true" selects DefaultIntegrity.
func ParseIntegrity(s string) (IntegrityMode, error) {
	switch s {
	case "", "false":
		return IntegrityDisabled, nil
	case "true":
		return DefaultIntegrity, nil
	}
	mode := IntegrityMode(s)
	if !mode.Valid() {
		return IntegrityDisabled, zerr.With(ErrInvalidIntegrity, "value", s)
	}
	return mode, nil
}

// Enabled reports whether a digest should be computed.
func (m IntegrityMode) Enabled() bool {
	return m != IntegrityDisabled
}

// Valid reports whether m is disabled or a supported algorithm.
func (m IntegrityMode) Valid() bool {
	switch m {
	case IntegrityDisabled, IntegritySHA256, IntegritySHA384, IntegritySHA512:
		return true
	default:
		return false
	}
}

func (m IntegrityMode) newHash() hash.Hash {
	switch m {
	case IntegritySHA256:
		return sha256.New()
	case IntegritySHA512:
		return sha512.New()
	default:
		return sha512.New384()
	}
}

// ComputeIntegrity hashes code and formats the digest as "<algorithm>-<base64>".
// It returns the empty string when integrity is disabled.
func ComputeIntegrity(mode IntegrityMode, code []byte) string {
	if !mode.Enabled() {
		return ""
	}
	h := mode.newHash()
	_, _ = h.Write(code)
	return string(mode) + "-" + base64.StdEncoding.EncodeToString(h.Sum(nil))
}
