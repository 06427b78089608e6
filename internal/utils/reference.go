// internal/utils/reference.go
package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const referenceCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateRandomString draws from an uppercase alphanumeric alphabet with the
// ambiguous characters (0/O, 1/I) removed, since reference numbers are read
// back over the phone and typed into lookup forms.
func GenerateRandomString(length int) (string, error) {
	b := make([]byte, length)

	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referenceCharset))))
		if err != nil {
			return "", err
		}
		b[i] = referenceCharset[n.Int64()]
	}

	return string(b), nil
}

// GenerateReferenceNumber produces the human-shareable application reference:
// EVISA-<unix millis>-<6 char random suffix>. The millisecond component keeps
// references roughly sortable; the random suffix makes them unguessable.
func GenerateReferenceNumber() (string, error) {
	suffix, err := GenerateRandomString(6)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("EVISA-%d-%s", time.Now().UnixMilli(), suffix), nil
}
