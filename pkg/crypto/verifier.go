package crypto

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
)

// Verifier checks a detached signature against a payload and the sender's
// public key. It is the bridge's pluggable trust contract: the shipped
// implementation is real asymmetric verification (client signs with its
// private key, the bridge verifies with the advertised public key).
type Verifier interface {
	Verify(payload any, sigHex, pubKeyHex string) (bool, error)
}

// Ed25519Verifier verifies hex-encoded Ed25519 signatures over the
// RFC 8785 canonical form of the payload.
type Ed25519Verifier struct{}

// NewEd25519Verifier returns the standard verifier.
func NewEd25519Verifier() *Ed25519Verifier {
	return &Ed25519Verifier{}
}

// Verify reports whether sigHex is a valid signature by pubKeyHex over
// the canonical encoding of payload. Malformed keys or signatures are
// errors, not panics; an error always reads as "not verified" upstream.
func (Ed25519Verifier) Verify(payload any, sigHex, pubKeyHex string) (bool, error) {
	pubKey, err := hex.DecodeString(pubKeyHex)
	if err != nil {
		return false, fmt.Errorf("invalid public key hex: %w", err)
	}
	if len(pubKey) != ed25519.PublicKeySize {
		return false, fmt.Errorf("invalid public key size %d", len(pubKey))
	}
	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		return false, fmt.Errorf("invalid signature hex: %w", err)
	}
	data, err := Canonical(payload)
	if err != nil {
		return false, err
	}
	return ed25519.Verify(ed25519.PublicKey(pubKey), data, sig), nil
}
