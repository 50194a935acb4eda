package access

import (
	"crypto/subtle"
	"strings"

	"github.com/tearaglass/godscruiseline/internal/catalog/domain"
)

// Tier is an access level resolved from a shared secret.
type Tier string

const (
	TierNone    Tier = ""
	TierAdmin   Tier = "admin"
	TierWitness Tier = "witness"
)

// ErrPassphraseRequired is returned for an empty or whitespace-only submission.
var ErrPassphraseRequired = &domain.ValidationError{Message: "Passphrase required", Missing: []string{"passphrase"}}

// Resolver maps a submitted passphrase to a Tier. It holds no state beyond
// the configured reference secrets.
type Resolver struct {
	admin   string
	witness string
}

func NewResolver(adminSecret, witnessSecret string) *Resolver {
	return &Resolver{admin: adminSecret, witness: witnessSecret}
}

// Resolve trims the submission and compares it against the admin secret,
// then the witness secret. Admin wins when both secrets are configured
// identically. An unset reference secret never matches.
func (r *Resolver) Resolve(passphrase string) (Tier, error) {
	p := strings.TrimSpace(passphrase)
	if p == "" {
		return TierNone, ErrPassphraseRequired
	}
	switch {
	case matches(p, r.admin):
		return TierAdmin, nil
	case matches(p, r.witness):
		return TierWitness, nil
	}
	return TierNone, nil
}

func matches(submitted, secret string) bool {
	if secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(secret)) == 1
}
