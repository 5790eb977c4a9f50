package echoServer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rahulstark2/librarymanagement/app/echoServer/controller/admin"
	"github.com/Rahulstark2/librarymanagement/app/echoServer/controller/auth"
	"github.com/Rahulstark2/librarymanagement/app/echoServer/controller/report"
	"github.com/Rahulstark2/librarymanagement/app/echoServer/controller/transaction"
	"github.com/Rahulstark2/librarymanagement/app/echoServer/validation"
	"github.com/Rahulstark2/librarymanagement/model"
	"github.com/Rahulstark2/librarymanagement/repository/memstore"
	authsvc "github.com/Rahulstark2/librarymanagement/service/auth"
	catalogsvc "github.com/Rahulstark2/librarymanagement/service/catalog"
	"github.com/Rahulstark2/librarymanagement/service/membership"
	reportsvc "github.com/Rahulstark2/librarymanagement/service/report"
	txsvc "github.com/Rahulstark2/librarymanagement/service/transaction"
	jwtutil "github.com/Rahulstark2/librarymanagement/util/jwt"
)

const secret = "routes-secret"

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	st := memstore.New()
	now := func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }
	v := validation.NewEngine()

	n := int64(1)
	require.NoError(t, st.Members().Create(context.Background(), &model.Member{
		MembershipNumber: n, NationalID: "x", FirstName: "Asha", LastName: "Rao",
		StartDate: now().AddDate(0, -1, 0), EndDate: now().AddDate(1, 0, 0), Tier: model.TierOneYear,
	}))
	require.NoError(t, st.Users().Create(context.Background(), &model.User{Username: "asha", Role: model.RoleUser, MembershipNumber: &n}))

	e := echo.New()
	e.Validator = validation.New()
	RegisterMiddlewares(e)
	Register(e, C{
		Auth: &auth.Controller{Svc: authsvc.New(st.Users(), st.Members(), authsvc.Config{
			Secret: secret, AdminUsername: "admin", AdminPassword: "pw",
		}), V: v},
		Transaction: &transaction.Controller{Svc: txsvc.New(st, txsvc.Options{Now: now}), V: v},
		Admin:       &admin.Controller{Members: membership.New(st), Catalog: catalogsvc.New(st), V: v},
		Report:      &report.Controller{Svc: reportsvc.New(st, now)},
		JWTSecret:   secret,
	})
	return e
}

func token(t *testing.T, user, role string) string {
	t.Helper()
	tok, err := jwtutil.Issue(secret, user, role, 1)
	require.NoError(t, err)
	return tok
}

func do(e *echo.Echo, method, path, body, tok string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if tok != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRoutes_RequireToken(t *testing.T) {
	e := newServer(t)

	rec := do(e, http.MethodPost, "/api/v1/transaction/calculate-fine", `{"actualReturnDate":"2024-03-02","returnDate":"2024-03-01"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodPost, "/api/v1/transaction/calculate-fine", `{"actualReturnDate":"2024-03-02","returnDate":"2024-03-01"}`, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodPost, "/api/v1/transaction/calculate-fine", `{"actualReturnDate":"2024-03-02","returnDate":"2024-03-01"}`, token(t, "asha", model.RoleUser))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"fine":50}`, rec.Body.String())
}

func TestRoutes_AdminGuard(t *testing.T) {
	e := newServer(t)
	item := `{"type":"book","name":"Dune","author":"Frank Herbert","procurementDate":"2024-01-01","quantity":1}`

	rec := do(e, http.MethodPost, "/api/v1/admin/addbookmovie", item, token(t, "asha", model.RoleUser))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(e, http.MethodPost, "/api/v1/admin/addbookmovie", item, token(t, "admin", model.RoleAdmin))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"serialNumber":1`)
}

func TestRoutes_LoginThenIssue(t *testing.T) {
	e := newServer(t)

	rec := do(e, http.MethodPost, "/api/v1/admin/adminlogin", `{"username":"admin","password":"pw"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodPost, "/api/v1/admin/addbookmovie",
		`{"type":"book","name":"Dune","author":"Frank Herbert","procurementDate":"2024-01-01","quantity":1}`,
		token(t, "admin", model.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/api/v1/transaction/search?type=book&itemQuery=du", "", token(t, "asha", model.RoleUser))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"author":"Frank Herbert"`)

	rec = do(e, http.MethodGet, "/api/v1/reports/active-memberships", "", token(t, "asha", model.RoleUser))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRoutes_RejectsUnverifiableTokens(t *testing.T) {
	e := newServer(t)
	sign := func(method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}

	cases := map[string]string{
		"no exp":       sign(jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "asha", "role": "admin"}),
		"expired":      sign(jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "asha", "exp": time.Now().Add(-time.Minute).Unix()}),
		"wrong secret": sign(jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": "asha", "exp": time.Now().Add(time.Hour).Unix()}),
		"HS512":        sign(jwt.SigningMethodHS512, []byte(secret), jwt.MapClaims{"sub": "asha", "exp": time.Now().Add(time.Hour).Unix()}),
		"no subject":   sign(jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"role": "admin", "exp": time.Now().Add(time.Hour).Unix()}),
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(e, http.MethodGet, "/api/v1/reports/active-memberships", "", tok)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}
