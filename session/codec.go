package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
)

// ErrEmptySecret is returned by constructors given a zero-length secret.
var ErrEmptySecret = errors.New("session: secret must not be empty")

// Codec turns a user id into a tamper-evident token and back.
// Verify never distinguishes between malformed and forged tokens.
type Codec interface {
	Issue(userID int64) (string, error)
	Verify(token string) (int64, bool)
}

const separator = "|"

// HMACCodec issues "<decimal id>|<lower-hex HMAC-SHA256(secret, id)>".
// Tokens carry no expiry; they stay valid until the secret changes.
type HMACCodec struct {
	secret []byte
}

func NewHMACCodec(secret []byte) (*HMACCodec, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	return &HMACCodec{secret: append([]byte(nil), secret...)}, nil
}

func (c *HMACCodec) Issue(userID int64) (string, error) {
	if userID <= 0 {
		return "", errors.New("session: user id must be positive")
	}
	id := strconv.FormatInt(userID, 10)
	return id + separator + c.mac(id), nil
}

// Verify recomputes the MAC over the id part and compares the textual
// digests, so any changed character, hex case included, fails.
func (c *HMACCodec) Verify(token string) (int64, bool) {
	idPart, macPart, ok := strings.Cut(token, separator)
	if !ok || idPart == "" || macPart == "" {
		return 0, false
	}
	if !hmac.Equal([]byte(macPart), []byte(c.mac(idPart))) {
		return 0, false
	}
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || id <= 0 || strconv.FormatInt(id, 10) != idPart {
		return 0, false
	}
	return id, true
}

func (c *HMACCodec) mac(value string) string {
	h := hmac.New(sha256.New, c.secret)
	h.Write([]byte(value))
	return hex.EncodeToString(h.Sum(nil))
}
