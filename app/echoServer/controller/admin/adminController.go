package admin

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Rahulstark2/librarymanagement/app/echoServer/validation"
	"github.com/Rahulstark2/librarymanagement/model"
	catalogsvc "github.com/Rahulstark2/librarymanagement/service/catalog"
	"github.com/Rahulstark2/librarymanagement/service/membership"
	"github.com/Rahulstark2/librarymanagement/util/dates"
	"github.com/Rahulstark2/librarymanagement/util/httpx"
)

// Controller serves the maintenance screens. Routes are mounted behind the
// admin guard.
type Controller struct {
	Members membership.Service
	Catalog catalogsvc.Service
	V       *validator.Validate
	Log     *slog.Logger
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

// AddMembership
// @Summary      Add membership
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        payload  body  AddMembershipReq  true  "Member"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any "validation / duplicate"
// @Security     BearerAuth
// @Router       /api/v1/admin/addmembership [post]
func (h *Controller) AddMembership(c echo.Context) error {
	var req AddMembershipReq
	if ok, err := h.bind(c, "add membership", &req); !ok {
		return err
	}
	start, _ := dates.Parse(req.StartDate)
	end, _ := dates.Parse(req.EndDate)

	m, err := h.Members.Add(c.Request().Context(), membership.AddInput{
		NationalID:     req.AadharCardNo,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		ContactName:    req.ContactName,
		ContactAddress: req.ContactAddress,
		StartDate:      start,
		EndDate:        end,
		Tier:           model.MembershipTier(req.MembershipType),
	})
	if err != nil {
		return httpx.Error(c, h.Log, "add membership", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":          "membership added",
		"membershipNumber": m.MembershipNumber,
	})
}

// UpdateMembership
// @Summary      Update, extend or remove a membership
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        payload  body  UpdateMembershipReq  true  "Update"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Security     BearerAuth
// @Router       /api/v1/admin/updatemembership [put]
func (h *Controller) UpdateMembership(c echo.Context) error {
	var req UpdateMembershipReq
	if ok, err := h.bind(c, "update membership", &req); !ok {
		return err
	}
	start, _ := dates.Parse(req.StartDate)
	end, _ := dates.Parse(req.EndDate)

	res, err := h.Members.Update(c.Request().Context(), membership.UpdateInput{
		MembershipNumber: int64(req.MembershipNumber),
		StartDate:        start,
		EndDate:          end,
		Extension:        model.MembershipTier(req.MembershipExtension),
		Remove:           req.MembershipRemove,
	})
	if err != nil {
		return httpx.Error(c, h.Log, "update membership", err)
	}
	if res.Removed {
		return c.JSON(http.StatusOK, echo.Map{"message": "membership removed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":          "membership updated",
		"membershipNumber": res.Member.MembershipNumber,
		"startDate":        dates.Format(res.Member.StartDate),
		"endDate":          dates.Format(res.Member.EndDate),
	})
}

// AddItem
// @Summary      Add a book or movie
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        payload  body  AddItemReq  true  "Item"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any "validation / duplicate"
// @Security     BearerAuth
// @Router       /api/v1/admin/addbookmovie [post]
func (h *Controller) AddItem(c echo.Context) error {
	var req AddItemReq
	if ok, err := h.bind(c, "add item", &req); !ok {
		return err
	}
	t, _ := model.ParseItemType(req.Type)
	creator := req.Author
	if t == model.ItemMovie {
		creator = req.Director
	}
	procured, _ := dates.Parse(req.ProcurementDate)

	item, err := h.Catalog.Add(c.Request().Context(), catalogsvc.AddInput{
		Type:            t,
		Name:            req.Name,
		Creator:         creator,
		ProcurementDate: procured,
		Quantity:        req.Quantity,
	})
	if err != nil {
		return httpx.Error(c, h.Log, "add item", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":      strings.ToLower(string(t)) + " added",
		"serialNumber": item.SerialNumber,
	})
}

// UpdateItem
// @Summary      Set the status of a book or movie
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        payload  body  UpdateItemReq  true  "Status"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Security     BearerAuth
// @Router       /api/v1/admin/updatebookmovie [put]
func (h *Controller) UpdateItem(c echo.Context) error {
	var req UpdateItemReq
	if ok, err := h.bind(c, "update item", &req); !ok {
		return err
	}
	t, _ := model.ParseItemType(req.Type)
	date, _ := dates.Parse(req.Date)

	item, err := h.Catalog.UpdateStatus(c.Request().Context(), catalogsvc.StatusInput{
		Type:         t,
		Name:         req.Name,
		SerialNumber: int64(req.SerialNo),
		Status:       model.ItemStatus(req.Status),
		Date:         date,
	})
	if err != nil {
		return httpx.Error(c, h.Log, "update item", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":      "status updated",
		"serialNumber": item.SerialNumber,
		"status":       item.Status,
	})
}
