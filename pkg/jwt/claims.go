package jwt

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// ScopeIngest allows triggering ingestion runs
const ScopeIngest = "transcripts:ingest"

// Claims represents service token claims
type Claims struct {
	Service string   `json:"service"`
	Scopes  []string `json:"scopes"`
	jwt.RegisteredClaims
}

// HasScope reports whether the token grants scope
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}
