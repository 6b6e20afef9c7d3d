package validators

import (
	"errors"
	"net/http"
	"strings"
)

var ErrMissingBearerToken = errors.New("missing bearer token")

// BearerToken extracts the raw JWT from the Authorization header.
func BearerToken(r *http.Request) (string, error) {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return "", ErrMissingBearerToken
	}
	if !strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return "", ErrMissingBearerToken
	}
	token := strings.TrimSpace(raw[7:])
	if token == "" {
		return "", ErrMissingBearerToken
	}
	return token, nil
}
