package report

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Rahulstark2/librarymanagement/app/echoServer/jwtx"
	"github.com/Rahulstark2/librarymanagement/model"
	reportsvc "github.com/Rahulstark2/librarymanagement/service/report"
	"github.com/Rahulstark2/librarymanagement/util/httpx"
)

type Controller struct {
	Svc reportsvc.Service
	Log *slog.Logger
}

// scope limits loan reports to the caller unless the caller is an admin.
func scope(c echo.Context) string {
	p, _ := jwtx.PrincipalFromContext(c)
	if p.IsAdmin() {
		return ""
	}
	return p.Username
}

// ActiveIssues
// @Summary      Loans currently issued
// @Tags         reports
// @Produce      json
// @Success      200  {object}  map[string]any
// @Security     BearerAuth
// @Router       /api/v1/reports/active-issues [get]
func (h *Controller) ActiveIssues(c echo.Context) error {
	rows, err := h.Svc.ActiveIssues(c.Request().Context(), scope(c))
	if err != nil {
		return httpx.Error(c, h.Log, "active issues", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"issues": rows})
}

// OverdueReturns
// @Summary      Issued loans past their due date, with the fine owed today
// @Tags         reports
// @Produce      json
// @Success      200  {object}  map[string]any
// @Security     BearerAuth
// @Router       /api/v1/reports/overdue-returns [get]
func (h *Controller) OverdueReturns(c echo.Context) error {
	rows, err := h.Svc.OverdueReturns(c.Request().Context(), scope(c))
	if err != nil {
		return httpx.Error(c, h.Log, "overdue returns", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"overdue": rows})
}

// ActiveMemberships
// @Summary      Memberships with status and amount pending
// @Tags         reports
// @Produce      json
// @Success      200  {object}  map[string]any
// @Security     BearerAuth
// @Router       /api/v1/reports/active-memberships [get]
func (h *Controller) ActiveMemberships(c echo.Context) error {
	rows, err := h.Svc.ActiveMemberships(c.Request().Context())
	if err != nil {
		return httpx.Error(c, h.Log, "active memberships", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"memberships": rows})
}

// @Summary      Master list of books
// @Tags         reports
// @Produce      json
// @Success      200  {object}  map[string]any
// @Security     BearerAuth
// @Router       /api/v1/reports/books [get]
func (h *Controller) Books(c echo.Context) error { return h.catalog(c, model.ItemBook, "books") }

// @Summary      Master list of movies
// @Tags         reports
// @Produce      json
// @Success      200  {object}  map[string]any
// @Security     BearerAuth
// @Router       /api/v1/reports/movies [get]
func (h *Controller) Movies(c echo.Context) error { return h.catalog(c, model.ItemMovie, "movies") }

func (h *Controller) catalog(c echo.Context, t model.ItemType, key string) error {
	rows, err := h.Svc.Catalog(c.Request().Context(), t)
	if err != nil {
		return httpx.Error(c, h.Log, "catalog report", err)
	}
	return c.JSON(http.StatusOK, echo.Map{key: rows})
}
