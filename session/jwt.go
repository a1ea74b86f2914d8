package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type claims struct {
	UID int64 `json:"uid"`
	jwt.RegisteredClaims
}

// JWTCodec issues HS256 tokens carrying the user id in the "uid" claim.
// Like HMACCodec it sets no expiry.
type JWTCodec struct {
	secret []byte
	issuer string
	parser *jwt.Parser
	now    func() time.Time
}

func NewJWTCodec(secret []byte, issuer string) (*JWTCodec, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return &JWTCodec{
		secret: append([]byte(nil), secret...),
		issuer: issuer,
		parser: jwt.NewParser(opts...),
		now:    time.Now,
	}, nil
}

func (c *JWTCodec) Issue(userID int64) (string, error) {
	if userID <= 0 {
		return "", errors.New("session: user id must be positive")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(c.now()),
			Issuer:   c.issuer,
		},
	})
	return token.SignedString(c.secret)
}

func (c *JWTCodec) Verify(token string) (int64, bool) {
	parsed, err := c.parser.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return c.secret, nil
	})
	if err != nil {
		return 0, false
	}
	cl, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid || cl.UID <= 0 {
		return 0, false
	}
	return cl.UID, true
}
