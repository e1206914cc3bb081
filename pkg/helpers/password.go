package helpers

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost matches the work factor of the original user store so existing digests verify unchanged.
const DefaultBcryptCost = 10

// BcryptHasher hashes and verifies passwords with a fixed bcrypt work factor.
type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{Cost: cost}
}

// MaxPasswordBytes is the longest input bcrypt reads. Longer passwords are
// truncated in both Hash and Verify, so only their first 72 bytes count.
const MaxPasswordBytes = 72

func truncate(plain string) []byte {
	b := []byte(plain)
	if len(b) > MaxPasswordBytes {
		b = b[:MaxPasswordBytes]
	}
	return b
}

// Hash returns a salted bcrypt digest of plain.
func (h *BcryptHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword(truncate(plain), h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify compares plain against digest. A malformed digest is a mismatch, not an error.
func (h *BcryptHasher) Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), truncate(plain)) == nil
}
