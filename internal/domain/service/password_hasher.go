// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within
// a single entity.
package service

// PasswordHasher defines the interface for password hashing and verification.
// This abstracts the underlying hashing algorithm (e.g. bcrypt), keeping the
// domain pure.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password.
	Hash(password string) (string, error)

	// Check compares a plaintext password with a hash to see if they match.
	Check(password, hash string) bool

	// DummyCheck burns the same CPU cost as a real comparison against a
	// sentinel hash. The authenticator calls it for unknown emails so the
	// failure path is timing-indistinguishable from a wrong password.
	DummyCheck(password string)

	// ValidatePasswordStrength rejects passwords that fail the policy.
	ValidatePasswordStrength(password string) error
}
