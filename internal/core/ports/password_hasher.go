package ports

// PasswordHasher is a one-way salted hash with a matching verification.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches hashed. Malformed hashes never match.
	Verify(plaintext, hashed string) bool
}
