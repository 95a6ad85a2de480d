package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"hoofix/models"

	"github.com/golang-jwt/jwt"
)

// ErrNoIdentity means the credential is missing or cannot be read; the caller
// should send the user back to the login page.
var ErrNoIdentity = errors.New("no valid identity in credential")

// DecodeIdentity reads the claims of a bearer token without verifying its
// signature. The client holds no key; the backend verifies on every call.
func DecodeIdentity(tokenString string) (models.Identity, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return models.Identity{}, ErrNoIdentity
	}

	token, _, err := new(jwt.Parser).ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: %v", ErrNoIdentity, err)
	}
	payload, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Identity{}, ErrNoIdentity
	}

	claims := map[string]interface{}(payload)
	if sub, ok := payload["sub"].(map[string]interface{}); ok {
		claims = sub
	} else if nested, ok := payload["claims"].(map[string]interface{}); ok {
		claims = nested
	}

	id := claimString(claims, "id")
	if id == "" {
		id = claimString(claims, "user_id")
	}
	if id == "" {
		// A plain string subject is the id itself.
		if sub, ok := payload["sub"].(string); ok {
			id = sub
		}
	}
	if id == "" {
		return models.Identity{}, ErrNoIdentity
	}

	name := claimString(claims, "name")
	if name == "" {
		name = "User"
	}

	return models.Identity{
		ID:    id,
		Name:  name,
		Email: claimString(claims, "email"),
		Role:  claimString(claims, "role"),
	}, nil
}

func claimString(claims map[string]interface{}, key string) string {
	switch v := claims[key].(type) {
	case string:
		return v
	case float64:
		// JSON numbers decode as float64; ids are integral.
		return fmt.Sprintf("%.0f", v)
	default:
		return ""
	}
}

// HashToken computes a SHA-256 hash of the token string. Used as a stable
// log fingerprint so raw credentials never reach the logs.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// TokenFingerprint is the short form of HashToken.
func TokenFingerprint(token string) string {
	return HashToken(token)[:12]
}
