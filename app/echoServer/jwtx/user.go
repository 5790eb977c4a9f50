package jwtx

import (
	"errors"

	"github.com/labstack/echo/v4"

	jwtutil "github.com/Rahulstark2/librarymanagement/util/jwt"
)

const principalKey = "principal"

// PrincipalFromToken reads the principal echojwt stored under "user" once
// jwtutil.ParseAuth verified the token.
func PrincipalFromToken(c echo.Context) (jwtutil.Principal, error) {
	p, ok := c.Get("user").(jwtutil.Principal)
	if !ok || p.Username == "" {
		return jwtutil.Principal{}, errors.New("no verified principal in context")
	}
	return p, nil
}

func SetPrincipal(c echo.Context, p jwtutil.Principal) { c.Set(principalKey, p) }

func PrincipalFromContext(c echo.Context) (jwtutil.Principal, bool) {
	p, ok := c.Get(principalKey).(jwtutil.Principal)
	return p, ok && p.Username != ""
}
