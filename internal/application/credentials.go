package application

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// CredentialChecker validates a presented principal/secret pair. Checkers
// return ErrInvalidCredentials when the pair cannot be verified and are free
// to return other errors for infrastructure failures.
type CredentialChecker interface {
	Check(ctx context.Context, principal, secret string) error
}

// AllowlistChecker verifies secrets against a fixed principal -> argon2id
// hash mapping loaded from a static user file.
type AllowlistChecker struct {
	hashes map[string]string
}

// NewAllowlistChecker builds a checker from a principal -> hash mapping.
func NewAllowlistChecker(hashes map[string]string) *AllowlistChecker {
	copied := make(map[string]string, len(hashes))
	for principal, hash := range hashes {
		copied[strings.TrimSpace(principal)] = hash
	}
	return &AllowlistChecker{hashes: copied}
}

// LoadAllowlist reads a JSON object of principal -> argon2id hash pairs.
func LoadAllowlist(path string) (*AllowlistChecker, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read allowlist: %w", err)
	}

	var hashes map[string]string
	if err := json.Unmarshal(data, &hashes); err != nil {
		return nil, fmt.Errorf("parse allowlist: %w", err)
	}
	return NewAllowlistChecker(hashes), nil
}

// Check implements CredentialChecker.
func (c *AllowlistChecker) Check(ctx context.Context, principal, secret string) error {
	if c == nil {
		return ErrInvalidCredentials
	}
	hash, ok := c.hashes[principal]
	if !ok {
		return ErrInvalidCredentials
	}
	return VerifySecret(hash, secret)
}

// SelfEqualityChecker accepts any non-empty principal whose secret equals the
// principal itself.
//
// INSECURE: this is a demo placeholder, never a production policy. It exists
// because one observed deployment shipped exactly this rule; the server
// driver only enables it behind an explicit opt-in flag.
type SelfEqualityChecker struct{}

// Check implements CredentialChecker.
func (SelfEqualityChecker) Check(ctx context.Context, principal, secret string) error {
	if principal == "" || secret != principal {
		return ErrInvalidCredentials
	}
	return nil
}
