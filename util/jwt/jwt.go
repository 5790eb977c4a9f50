package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Principal is the authenticated caller carried by a token.
type Principal struct {
	Username string
	Role     string
}

func (p Principal) IsAdmin() bool { return p.Role == "admin" }

func Issue(secret string, username, role string, ttlHours int) (string, error) {
	if username == "" {
		return "", errors.New("empty subject")
	}
	claims := jwt.MapClaims{
		"sub":  username,
		"role": role,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Duration(ttlHours) * time.Hour).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseAuth verifies an Authorization header value ("Bearer <token>" or the
// bare token) and returns the principal.
func ParseAuth(authHeader string, secret string) (Principal, error) {
	tokenStr := strings.TrimSpace(authHeader)
	if tokenStr == "" {
		return Principal{}, errors.New("missing authorization")
	}

	if strings.HasPrefix(strings.ToLower(tokenStr), "bearer ") {
		tokenStr = strings.TrimSpace(tokenStr[7:])
	}
	if tokenStr == "" {
		return Principal{}, errors.New("missing token")
	}

	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil {
		return Principal{}, err
	}
	if !tok.Valid {
		return Principal{}, errors.New("invalid token")
	}

	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, errors.New("invalid claims")
	}
	return PrincipalFromClaims(mc)
}

func PrincipalFromClaims(mc jwt.MapClaims) (Principal, error) {
	sub, err := mc.GetSubject()
	if err != nil || sub == "" {
		return Principal{}, errors.New("sub missing in claims")
	}
	role, _ := mc["role"].(string)
	return Principal{Username: sub, Role: role}, nil
}
