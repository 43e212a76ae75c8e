package utils // package utils provides credential and identifier helpers

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// SessionTokenBytes is the amount of random data behind a session token.
// Encoded as hex the token is twice as long (64 characters).
const SessionTokenBytes = 32

// NewSessionToken returns a hex-encoded token drawn from crypto/rand.
func NewSessionToken() (string, error) {
	return randomHex(SessionTokenBytes)
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// OrderNumberPrefix starts every generated order number.
const OrderNumberPrefix = "PG"

const base36Digits = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewOrderNumber builds PG-<base36 unix millis>-<4 random base36 chars>, all
// upper case.  Uniqueness is enforced by the orders table, not here.
func NewOrderNumber(now time.Time) (string, error) {
	ts := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	suffix := make([]byte, 4)
	max := big.NewInt(int64(len(base36Digits)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		suffix[i] = base36Digits[n.Int64()]
	}
	return OrderNumberPrefix + "-" + ts + "-" + string(suffix), nil
}
