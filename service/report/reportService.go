// Package report builds the read-only report views. Nothing here mutates the
// store.
package report

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/Rahulstark2/librarymanagement/model"
	"github.com/Rahulstark2/librarymanagement/repository"
	loanrepo "github.com/Rahulstark2/librarymanagement/repository/loan"
	"github.com/Rahulstark2/librarymanagement/service/fine"
	"github.com/Rahulstark2/librarymanagement/util/dates"
)

type ActiveIssue struct {
	Type         model.ItemType `json:"type"`
	SerialNumber int64          `json:"serialNumber"`
	Name         string         `json:"name"`
	Borrower     string         `json:"borrower"`
	MembershipID *int64         `json:"membershipId,omitempty"`
	IssueDate    string         `json:"issueDate"`
	ReturnDate   string         `json:"returnDate"`
}

type OverdueReturn struct {
	ActiveIssue
	Fine int `json:"fine"`
}

type MembershipRow struct {
	MembershipID   int64  `json:"membershipId"`
	MemberName     string `json:"memberName"`
	ContactName    string `json:"contactName"`
	ContactAddress string `json:"contactAddress"`
	AadharCardNo   string `json:"aadharCardNo"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
	Status         string `json:"status"`
	AmountPending  int    `json:"amountPending"`
}

type CatalogRow struct {
	SerialNumber    int64            `json:"serialNumber"`
	Name            string           `json:"name"`
	AuthorName      string           `json:"authorName,omitempty"`
	DirectorName    string           `json:"directorName,omitempty"`
	Status          model.ItemStatus `json:"status"`
	ProcurementDate string           `json:"procurementDate"`
}

type Service interface {
	// ActiveIssues lists issued loans; an empty borrower lists everyone's.
	ActiveIssues(ctx context.Context, borrower string) ([]ActiveIssue, error)
	OverdueReturns(ctx context.Context, borrower string) ([]OverdueReturn, error)
	ActiveMemberships(ctx context.Context) ([]MembershipRow, error)
	Catalog(ctx context.Context, t model.ItemType) ([]CatalogRow, error)
}

type service struct {
	store repository.Store
	now   func() time.Time
}

func New(store repository.Store, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{store: store, now: now}
}

func (s *service) ActiveIssues(ctx context.Context, borrower string) ([]ActiveIssue, error) {
	rows, err := s.store.Loans().ListIssued(ctx, loanrepo.IssuedFilter{Borrower: borrower})
	if err != nil {
		return nil, errors.Wrap(err, "list issued loans")
	}
	members := s.memberships(ctx)
	out := make([]ActiveIssue, 0, len(rows))
	for _, r := range rows {
		row, err := s.activeIssue(members, r)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *service) OverdueReturns(ctx context.Context, borrower string) ([]OverdueReturn, error) {
	now := s.now()
	rows, err := s.store.Loans().ListIssued(ctx, loanrepo.IssuedFilter{DueBefore: dates.Day(now), Borrower: borrower})
	if err != nil {
		return nil, errors.Wrap(err, "list overdue loans")
	}
	members := s.memberships(ctx)
	out := make([]OverdueReturn, 0, len(rows))
	for _, r := range rows {
		row, err := s.activeIssue(members, r)
		if err != nil {
			return nil, err
		}
		out = append(out, OverdueReturn{ActiveIssue: row, Fine: fine.Calculate(now, r.ReturnDate)})
	}
	return out, nil
}

func (s *service) ActiveMemberships(ctx context.Context) ([]MembershipRow, error) {
	list, err := s.store.Members().List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list memberships")
	}
	now := s.now()
	rows, err := s.store.Loans().ListIssued(ctx, loanrepo.IssuedFilter{DueBefore: dates.Day(now)})
	if err != nil {
		return nil, errors.Wrap(err, "list overdue loans")
	}

	members := s.memberships(ctx)
	pending := map[int64]int{}
	for _, r := range rows {
		n, err := members(r.Borrower)
		if err != nil {
			return nil, err
		}
		if n != nil {
			pending[*n] += fine.Calculate(now, r.ReturnDate)
		}
	}

	out := make([]MembershipRow, 0, len(list))
	for _, m := range list {
		status := "Inactive"
		if m.IsActive(now) {
			status = "Active"
		}
		out = append(out, MembershipRow{
			MembershipID:   m.MembershipNumber,
			MemberName:     m.FullName(),
			ContactName:    m.ContactName,
			ContactAddress: m.ContactAddress,
			AadharCardNo:   m.NationalID,
			StartDate:      dates.FormatGB(m.StartDate),
			EndDate:        dates.FormatGB(m.EndDate),
			Status:         status,
			AmountPending:  pending[m.MembershipNumber],
		})
	}
	return out, nil
}

func (s *service) Catalog(ctx context.Context, t model.ItemType) ([]CatalogRow, error) {
	items, err := s.store.Catalog().List(ctx, t)
	if err != nil {
		return nil, errors.Wrap(err, "list catalog")
	}
	out := make([]CatalogRow, 0, len(items))
	for _, it := range items {
		row := CatalogRow{
			SerialNumber:    it.SerialNumber,
			Name:            it.Name,
			Status:          it.Status,
			ProcurementDate: dates.FormatGB(it.ProcurementDate),
		}
		if it.Type == model.ItemMovie {
			row.DirectorName = it.Creator
		} else {
			row.AuthorName = it.Creator
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *service) activeIssue(members func(string) (*int64, error), r loanrepo.IssuedRow) (ActiveIssue, error) {
	n, err := members(r.Borrower)
	if err != nil {
		return ActiveIssue{}, err
	}
	return ActiveIssue{
		Type:         r.ItemType,
		SerialNumber: r.SerialNumber,
		Name:         r.ItemName,
		Borrower:     r.Borrower,
		MembershipID: n,
		IssueDate:    dates.FormatGB(r.IssueDate),
		ReturnDate:   dates.FormatGB(r.ReturnDate),
	}, nil
}

// memberships resolves a borrower to its membership number, caching lookups.
func (s *service) memberships(ctx context.Context) func(string) (*int64, error) {
	cache := map[string]*int64{}
	return func(username string) (*int64, error) {
		if n, ok := cache[username]; ok {
			return n, nil
		}
		u, err := s.store.Users().ByUsername(ctx, username)
		if err != nil {
			return nil, errors.Wrap(err, "find user")
		}
		var n *int64
		if u != nil {
			n = u.MembershipNumber
		}
		cache[username] = n
		return n, nil
	}
}
