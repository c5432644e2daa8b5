// Package token issues and verifies the HMAC-signed session tokens handed
// out by the password gate.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalid = errors.New("invalid token")
	ErrExpired = errors.New("token expired")
)

// payload structure for encoding/decoding
type payload struct {
	UserID string `json:"u"`
	TS     int64  `json:"t"`
}

// Generate creates a signed session token for the given user identity.
func Generate(userID string, secret []byte) (string, error) {
	pl := payload{
		UserID: userID,
		TS:     time.Now().Unix(),
	}
	data, err := json.Marshal(pl)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write(data)
	sig := mac.Sum(nil)

	enc := base64.RawURLEncoding
	return enc.EncodeToString(data) + "." + enc.EncodeToString(sig), nil
}

// Verify checks the token integrity and expiry and returns the user identity
// it was issued for. A zero ttl disables the expiry check.
func Verify(token string, secret []byte, ttl time.Duration) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return "", ErrInvalid
	}
	enc := base64.RawURLEncoding
	data, err := enc.DecodeString(parts[0])
	if err != nil {
		return "", ErrInvalid
	}
	sig, err := enc.DecodeString(parts[1])
	if err != nil {
		return "", ErrInvalid
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write(data)
	if !hmac.Equal(mac.Sum(nil), sig) {
		return "", ErrInvalid
	}

	var pl payload
	if err := json.Unmarshal(data, &pl); err != nil {
		return "", ErrInvalid
	}
	if ttl > 0 && time.Since(time.Unix(pl.TS, 0)) > ttl {
		return "", ErrExpired
	}
	return pl.UserID, nil
}
