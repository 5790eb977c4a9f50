package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rahulstark2/librarymanagement/service/svcerr"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{svcerr.Invalid("bad"), http.StatusBadRequest},
		{svcerr.New(svcerr.ErrFineNotConfirmed, ""), http.StatusBadRequest},
		{svcerr.New(svcerr.ErrSerialMismatch, ""), http.StatusBadRequest},
		{svcerr.New(svcerr.ErrAlreadyIssued, ""), http.StatusBadRequest},
		{svcerr.New(svcerr.ErrDuplicateItem, ""), http.StatusBadRequest},
		{svcerr.New(svcerr.ErrUsernameTaken, ""), http.StatusConflict},
		{svcerr.New(svcerr.ErrItemNotFound, ""), http.StatusNotFound},
		{svcerr.New(svcerr.ErrIssueNotFound, ""), http.StatusNotFound},
		{svcerr.New(svcerr.ErrInactiveBorrower, ""), http.StatusForbidden},
		{svcerr.New(svcerr.ErrUnauthorized, ""), http.StatusForbidden},
		{svcerr.New(svcerr.ErrInvalidCreds, ""), http.StatusUnauthorized},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Status(tc.err), "%v", tc.err)
	}
}

func TestError_HidesUnexpected(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, Error(c, nil, "issue", errors.New("connection refused")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestError_IncludesFields(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	err := svcerr.Invalid("validation error", svcerr.FieldError{Field: "itemId", Rule: "required"})
	require.NoError(t, Error(c, nil, "issue", err))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"validation error","code":"BAD_INPUT","errors":[{"field":"itemId","rule":"required"}]}`, rec.Body.String())
}
