package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/Rahulstark2/librarymanagement/model"
	"github.com/Rahulstark2/librarymanagement/util/dates"
	"github.com/Rahulstark2/librarymanagement/util/jsonx"
)

type IssueReq struct {
	ItemID     string `json:"itemId" validate:"required,uuid"`
	Type       string `json:"type" validate:"required,itemtype"`
	IssueDate  string `json:"issueDate" validate:"required,isodate"`
	ReturnDate string `json:"returnDate" validate:"omitempty,isodate"`
	Remarks    string `json:"remarks" validate:"max=500"`
}

type ReturnReq struct {
	ItemID       string    `json:"itemId" validate:"required,uuid"`
	Type         string    `json:"type" validate:"required,itemtype"`
	SerialNumber jsonx.Int `json:"serialNumber" validate:"required,gt=0"`
	IssueDate    string    `json:"issueDate" validate:"omitempty,isodate"`
	ReturnDate   string    `json:"returnDate" validate:"required,isodate"`
	Remarks      string    `json:"remarks" validate:"max=500"`
}

type FetchIssueDateReq struct {
	Type             string    `json:"type" validate:"omitempty,itemtype"`
	Name             string    `json:"name" validate:"required"`
	AuthorOrDirector string    `json:"authorOrDirector"`
	SerialNumber     jsonx.Int `json:"serialNumber" validate:"required,gt=0"`
}

type CalculateFineReq struct {
	ActualReturnDate string `json:"actualReturnDate" validate:"required,isodate"`
	ReturnDate       string `json:"returnDate" validate:"required,isodate"`
}

type PayFineReq struct {
	Type             string    `json:"type" validate:"required,itemtype"`
	Name             string    `json:"name" validate:"required"`
	AuthorOrDirector string    `json:"authorOrDirector" validate:"required"`
	SerialNumber     jsonx.Int `json:"serialNumber" validate:"required,gt=0"`
	IssueDate        string    `json:"issueDate" validate:"omitempty,isodate"`
	ReturnDate       string    `json:"returnDate" validate:"omitempty,isodate"`
	ActualReturnDate string    `json:"actualReturnDate" validate:"required,isodate"`
	Fine             jsonx.Int `json:"fine" validate:"gte=0"`
	FinePaid         bool      `json:"finePaid"`
	Remarks          string    `json:"remarks" validate:"max=500"`
}

type SearchReq struct {
	Type        string `query:"type" validate:"required,itemtype"`
	ItemQuery   string `query:"itemQuery" validate:"max=100"`
	PersonQuery string `query:"personQuery" validate:"max=100"`
}

type LoanView struct {
	ID         uuid.UUID        `json:"id"`
	ItemID     uuid.UUID        `json:"itemId"`
	Type       model.ItemType   `json:"type"`
	Borrower   string           `json:"borrower"`
	IssueDate  string           `json:"issueDate"`
	ReturnDate string           `json:"returnDate"`
	Remarks    string           `json:"remarks,omitempty"`
	Status     model.LoanStatus `json:"status"`
}

func toLoanView(l *model.Loan) LoanView {
	return LoanView{
		ID:         l.ID,
		ItemID:     l.ItemID,
		Type:       l.ItemType,
		Borrower:   l.Borrower,
		IssueDate:  dates.Format(l.IssueDate),
		ReturnDate: dates.Format(l.ReturnDate),
		Remarks:    l.Remarks,
		Status:     l.Status,
	}
}

type FineView struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	SerialNumber     int64     `json:"serialNumber"`
	IssueDate        string    `json:"issueDate"`
	ReturnDate       string    `json:"returnDate"`
	ActualReturnDate string    `json:"actualReturnDate"`
	Fine             int       `json:"fine"`
	FinePaid         bool      `json:"finePaid"`
	Remarks          string    `json:"remarks,omitempty"`
}

func toFineView(f *model.FineRecord) FineView {
	return FineView{
		ID:               f.ID,
		Name:             f.ItemName,
		SerialNumber:     f.SerialNumber,
		IssueDate:        dates.Format(f.IssueDate),
		ReturnDate:       dates.Format(f.ReturnDate),
		ActualReturnDate: dates.Format(f.ActualReturnDate),
		Fine:             f.Fine,
		FinePaid:         f.Paid,
		Remarks:          f.Remarks,
	}
}

// ItemView is a search hit; Author or Director is set depending on the type.
type ItemView struct {
	ID           uuid.UUID        `json:"id"`
	SerialNumber int64            `json:"serialNumber"`
	Name         string           `json:"name"`
	Author       string           `json:"author,omitempty"`
	Director     string           `json:"director,omitempty"`
	Quantity     int              `json:"quantity"`
	Status       model.ItemStatus `json:"status"`
}

func toItemView(i model.CatalogItem) ItemView {
	v := ItemView{ID: i.ID, SerialNumber: i.SerialNumber, Name: i.Name, Quantity: i.Quantity, Status: i.Status}
	if i.Type == model.ItemMovie {
		v.Director = i.Creator
	} else {
		v.Author = i.Creator
	}
	return v
}

// mustDate parses a value the validator already accepted; empty stays zero.
func mustDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := dates.Parse(s)
	return t
}
