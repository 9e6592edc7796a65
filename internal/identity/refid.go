package identity

import "crypto/rand"

const (
	refIDPrefix  = "NETTS"
	refIDLength  = 7
	refIDCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// newRefID generates a referral code of the form NETTS[A-Z0-9]{7}.
// Generation is random without a local uniqueness check; the store's
// unique constraint backstops collisions and the caller retries.
func newRefID() (string, error) {
	buf := make([]byte, refIDLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = refIDCharset[int(b)%len(refIDCharset)]
	}
	return refIDPrefix + string(buf), nil
}
