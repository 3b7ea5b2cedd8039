package session

import (
	"strings"

	crdb "github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is who the held token says the operator is.
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// DecodeIdentity reads sub and username from the token payload. The signature
// is not checked: the client only displays the claims, the service verifies them.
func DecodeIdentity(token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, crdb.New("empty token")
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Identity{}, err
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return Identity{}, err
	}
	if sub == "" {
		return Identity{}, crdb.New("token has no subject")
	}

	name := sub
	if username, ok := claims["username"].(string); ok && strings.TrimSpace(username) != "" {
		name = username
	}
	return Identity{ID: sub, DisplayName: name}, nil
}
