// Package wallet owns the funding accounts: deriving their public
// identities from configured secret keys and deciding which account the
// next trading cycle uses.
package wallet

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
)

// PublicID derives the base58 public key for a base58-encoded secret key.
// Both 64-byte keypairs and 32-byte seeds are accepted.
func PublicID(secret string) (string, error) {
	raw, err := base58.Decode(secret)
	if err != nil {
		return "", fmt.Errorf("decode secret key: %w", err)
	}
	switch len(raw) {
	case ed25519.PrivateKeySize:
		return base58.Encode(raw[ed25519.PublicKeySize:]), nil
	case ed25519.SeedSize:
		priv := ed25519.NewKeyFromSeed(raw)
		return base58.Encode(priv.Public().(ed25519.PublicKey)), nil
	default:
		return "", fmt.Errorf("secret key has %d bytes, want 32 or 64", len(raw))
	}
}

// PublicIDs derives identities for all configured secrets, skipping invalid
// entries. Fails only when no account remains.
func PublicIDs(secrets []string) ([]string, error) {
	ids := make([]string, 0, len(secrets))
	for _, s := range secrets {
		id, err := PublicID(s)
		if err != nil {
			// Skipped keys are a configuration smell but not fatal on
			// their own; startup fails below if nothing is left.
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no valid accounts among %d configured secrets", len(secrets))
	}
	return ids, nil
}
