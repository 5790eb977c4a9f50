package httpx

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Rahulstark2/librarymanagement/service/svcerr"
)

// Status maps a coded service error to its HTTP status.
func Status(err error) int {
	code := svcerr.Code(err)
	switch code.Kind() {
	case svcerr.KindValidation, svcerr.KindIntegrity:
		return http.StatusBadRequest
	case svcerr.KindNotFound:
		return http.StatusNotFound
	case svcerr.KindConflict:
		if code == svcerr.ErrUsernameTaken {
			return http.StatusConflict
		}
		return http.StatusBadRequest
	case svcerr.KindAuthorization:
		return http.StatusForbidden
	case svcerr.KindAuthentication:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// Error writes err as {"message", "code", "errors"}. Uncoded errors are
// logged with the request id and answered with a generic 500.
func Error(c echo.Context, log *slog.Logger, op string, err error) error {
	status := Status(err)
	if status == http.StatusInternalServerError {
		if log != nil {
			log.Error(op+" failed",
				"err", err,
				"req_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"path", c.Path(),
				"method", c.Request().Method,
			)
		}
		return c.JSON(status, echo.Map{"message": "internal server error"})
	}

	body := echo.Map{
		"message": svcerr.Message(err),
		"code":    svcerr.Code(err),
	}
	if fields := svcerr.Fields(err); len(fields) > 0 {
		body["errors"] = fields
	}
	if log != nil {
		log.Warn(op+" rejected", "code", svcerr.Code(err), "path", c.Path())
	}
	return c.JSON(status, body)
}

// BadBody answers a request whose body could not be decoded.
func BadBody(c echo.Context, log *slog.Logger, err error) error {
	if log != nil {
		log.Warn("bind failed", "path", c.Path(), "err", err)
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
}
