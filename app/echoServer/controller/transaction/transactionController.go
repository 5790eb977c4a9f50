package transaction

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Rahulstark2/librarymanagement/app/echoServer/jwtx"
	"github.com/Rahulstark2/librarymanagement/app/echoServer/validation"
	"github.com/Rahulstark2/librarymanagement/model"
	catalogrepo "github.com/Rahulstark2/librarymanagement/repository/catalog"
	txsvc "github.com/Rahulstark2/librarymanagement/service/transaction"
	"github.com/Rahulstark2/librarymanagement/util/dates"
	"github.com/Rahulstark2/librarymanagement/util/httpx"
)

type Controller struct {
	Svc txsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func (h *Controller) bind(c echo.Context, op string, req interface{}) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, httpx.BadBody(c, h.Log, err)
	}
	if err := validation.Struct(h.V, req); err != nil {
		return false, httpx.Error(c, h.Log, op, err)
	}
	return true, nil
}

func principal(c echo.Context) (string, bool) {
	p, ok := jwtx.PrincipalFromContext(c)
	return p.Username, ok
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
}

// Issue
// @Summary      Issue an item
// @Tags         transaction
// @Accept       json
// @Produce      json
// @Param        payload  body  IssueReq  true  "Issue payload"
// @Success      201  {object}  map[string]any
// @Failure      400  {object}  map[string]any "already issued / unavailable"
// @Failure      403  {object}  map[string]any "inactive membership"
// @Failure      404  {object}  map[string]any "item or user not found"
// @Security     BearerAuth
// @Router       /api/v1/transaction/issue [post]
func (h *Controller) Issue(c echo.Context) error {
	user, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}
	var req IssueReq
	if ok, err := h.bind(c, "issue", &req); !ok {
		return err
	}
	t, _ := model.ParseItemType(req.Type)

	loan, err := h.Svc.Issue(c.Request().Context(), user, txsvc.IssueInput{
		ItemID:     uuid.MustParse(req.ItemID),
		Type:       t,
		IssueDate:  mustDate(req.IssueDate),
		ReturnDate: mustDate(req.ReturnDate),
		Remarks:    req.Remarks,
	})
	if err != nil {
		return httpx.Error(c, h.Log, "issue", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":     "item issued",
		"transaction": toLoanView(loan),
	})
}

// Return
// @Summary      Return an item
// @Tags         transaction
// @Accept       json
// @Produce      json
// @Param        payload  body  ReturnReq  true  "Return payload"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any "serial mismatch / not issued"
// @Failure      404  {object}  map[string]any
// @Security     BearerAuth
// @Router       /api/v1/transaction/return [post]
func (h *Controller) Return(c echo.Context) error {
	user, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}
	var req ReturnReq
	if ok, err := h.bind(c, "return", &req); !ok {
		return err
	}
	t, _ := model.ParseItemType(req.Type)

	loan, err := h.Svc.Return(c.Request().Context(), user, txsvc.ReturnInput{
		ItemID:       uuid.MustParse(req.ItemID),
		Type:         t,
		SerialNumber: int64(req.SerialNumber),
		ReturnDate:   mustDate(req.ReturnDate),
		Remarks:      req.Remarks,
	})
	if err != nil {
		return httpx.Error(c, h.Log, "return", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":     "item returned",
		"transaction": toLoanView(loan),
	})
}

// FetchIssueDate
// @Summary      Dates of the open loan on an item
// @Tags         transaction
// @Accept       json
// @Produce      json
// @Param        payload  body  FetchIssueDateReq  true  "Item"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Security     BearerAuth
// @Router       /api/v1/transaction/fetch-issue-date [post]
func (h *Controller) FetchIssueDate(c echo.Context) error {
	var req FetchIssueDateReq
	if ok, err := h.bind(c, "fetch issue date", &req); !ok {
		return err
	}
	t, _ := model.ParseItemType(req.Type)

	out, err := h.Svc.FetchIssueDate(c.Request().Context(), txsvc.FetchInput{
		Type:         t,
		Name:         req.Name,
		Creator:      req.AuthorOrDirector,
		SerialNumber: int64(req.SerialNumber),
	})
	if err != nil {
		return httpx.Error(c, h.Log, "fetch issue date", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"issueDate":  dates.Format(out.IssueDate),
		"returnDate": dates.Format(out.ReturnDate),
	})
}

// CalculateFine
// @Summary      Fine owed for a return date
// @Tags         transaction
// @Accept       json
// @Produce      json
// @Param        payload  body  CalculateFineReq  true  "Dates"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Security     BearerAuth
// @Router       /api/v1/transaction/calculate-fine [post]
func (h *Controller) CalculateFine(c echo.Context) error {
	var req CalculateFineReq
	if ok, err := h.bind(c, "calculate fine", &req); !ok {
		return err
	}
	fine := h.Svc.CalculateFine(mustDate(req.ActualReturnDate), mustDate(req.ReturnDate))
	return c.JSON(http.StatusOK, echo.Map{"fine": fine})
}

// PayFine
// @Summary      Pay the fine and settle an overdue loan
// @Tags         transaction
// @Accept       json
// @Produce      json
// @Param        payload  body  PayFineReq  true  "Payment"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any "fine not confirmed / mismatch"
// @Failure      403  {object}  map[string]any "not the borrower"
// @Failure      404  {object}  map[string]any "no open issue"
// @Security     BearerAuth
// @Router       /api/v1/transaction/pay-fine [post]
func (h *Controller) PayFine(c echo.Context) error {
	user, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}
	var req PayFineReq
	if ok, err := h.bind(c, "pay fine", &req); !ok {
		return err
	}
	t, _ := model.ParseItemType(req.Type)

	rec, err := h.Svc.PayFine(c.Request().Context(), user, txsvc.PayFineInput{
		Type:             t,
		Name:             req.Name,
		Creator:          req.AuthorOrDirector,
		SerialNumber:     int64(req.SerialNumber),
		ActualReturnDate: mustDate(req.ActualReturnDate),
		Fine:             int(req.Fine),
		Paid:             req.FinePaid,
		Remarks:          req.Remarks,
	})
	if err != nil {
		return httpx.Error(c, h.Log, "pay fine", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "fine paid",
		"fine":    toFineView(rec),
	})
}

// Search
// @Summary      Catalog autocomplete
// @Tags         transaction
// @Produce      json
// @Param        type         query  string  true   "book or movie"
// @Param        itemQuery    query  string  false  "name fragment"
// @Param        personQuery  query  string  false  "author or director fragment"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Security     BearerAuth
// @Router       /api/v1/transaction/search [get]
func (h *Controller) Search(c echo.Context) error {
	var req SearchReq
	if ok, err := h.bind(c, "search", &req); !ok {
		return err
	}
	t, _ := model.ParseItemType(req.Type)

	items, err := h.Svc.Search(c.Request().Context(), catalogrepo.SearchQuery{
		Type:        t,
		ItemQuery:   req.ItemQuery,
		PersonQuery: req.PersonQuery,
	})
	if err != nil {
		return httpx.Error(c, h.Log, "search", err)
	}

	out := make([]ItemView, 0, len(items))
	for _, it := range items {
		out = append(out, toItemView(it))
	}
	key := "books"
	if t == model.ItemMovie {
		key = "movies"
	}
	return c.JSON(http.StatusOK, echo.Map{key: out})
}
