package security

import (
	"crypto/rand"
	"errors"
)

var errInvalidLength = errors.New("length must be positive")

// RandomDigits returns n uniformly distributed decimal digits from crypto/rand.
func RandomDigits(n int) (string, error) {
	if n <= 0 {
		return "", errInvalidLength
	}

	digits := make([]byte, 0, n)
	buf := make([]byte, n+n/2)
	for len(digits) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			// 250 is the largest multiple of 10 below 256.
			if b >= 250 {
				continue
			}
			digits = append(digits, '0'+b%10)
			if len(digits) == n {
				break
			}
		}
	}
	return string(digits), nil
}
