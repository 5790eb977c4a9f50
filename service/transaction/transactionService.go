package transaction

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Rahulstark2/librarymanagement/model"
	"github.com/Rahulstark2/librarymanagement/repository"
	catalogrepo "github.com/Rahulstark2/librarymanagement/repository/catalog"
	loanrepo "github.com/Rahulstark2/librarymanagement/repository/loan"
	"github.com/Rahulstark2/librarymanagement/service/fine"
	"github.com/Rahulstark2/librarymanagement/service/svcerr"
	"github.com/Rahulstark2/librarymanagement/util/dates"
)

const DefaultMaxLoanDays = 15

type IssueInput struct {
	ItemID    uuid.UUID
	Type      model.ItemType
	IssueDate time.Time
	// ReturnDate is the due date; zero means IssueDate plus the maximum loan period.
	ReturnDate time.Time
	Remarks    string
}

type ReturnInput struct {
	ItemID       uuid.UUID
	Type         model.ItemType
	SerialNumber int64
	ReturnDate   time.Time
	Remarks      string
}

type FetchInput struct {
	// Type is optional; both types are searched when empty.
	Type         model.ItemType
	Name         string
	Creator      string
	SerialNumber int64
}

type IssueDates struct {
	IssueDate  time.Time `json:"issueDate"`
	ReturnDate time.Time `json:"returnDate"`
}

type PayFineInput struct {
	Type             model.ItemType
	Name             string
	Creator          string
	SerialNumber     int64
	ActualReturnDate time.Time
	Fine             int
	Paid             bool
	Remarks          string
}

type Service interface {
	Issue(ctx context.Context, borrower string, in IssueInput) (*model.Loan, error)
	Return(ctx context.Context, borrower string, in ReturnInput) (*model.Loan, error)
	FetchIssueDate(ctx context.Context, in FetchInput) (*IssueDates, error)
	CalculateFine(actualReturn, due time.Time) int
	// PayFine settles an issued loan: it closes the loan on the actual
	// return date, restores the item and appends a fine record.
	PayFine(ctx context.Context, principal string, in PayFineInput) (*model.FineRecord, error)
	Search(ctx context.Context, q catalogrepo.SearchQuery) ([]model.CatalogItem, error)
}

type Options struct {
	MaxLoanDays int
	Now         func() time.Time
}

type service struct {
	store       repository.Store
	maxLoanDays int
	now         func() time.Time
}

func New(store repository.Store, opts Options) Service {
	s := &service{store: store, maxLoanDays: opts.MaxLoanDays, now: opts.Now}
	if s.maxLoanDays <= 0 {
		s.maxLoanDays = DefaultMaxLoanDays
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) Issue(ctx context.Context, borrower string, in IssueInput) (*model.Loan, error) {
	in.IssueDate = dates.Day(in.IssueDate)
	if in.ReturnDate.IsZero() && !in.IssueDate.IsZero() {
		in.ReturnDate = in.IssueDate.AddDate(0, 0, s.maxLoanDays)
	}
	in.ReturnDate = dates.Day(in.ReturnDate)
	if err := s.validateIssue(in); err != nil {
		return nil, err
	}

	var loan *model.Loan
	err := s.store.RunInTx(ctx, func(tx repository.Tx) error {
		item, err := findItem(ctx, tx, in.ItemID, in.Type)
		if err != nil {
			return err
		}
		active, err := s.borrowerActive(ctx, tx, borrower)
		if err != nil {
			return err
		}
		current, err := tx.Loans().FindIssuedByItem(ctx, item.ID)
		if err != nil {
			return errors.Wrap(err, "find issued loan")
		}
		if err := decideIssue(issueState{item: *item, borrowerActive: active, activeLoan: current}); err != nil {
			return err
		}

		qty, err := tx.Catalog().AdjustQuantity(ctx, item.ID, -1)
		if errors.Is(err, catalogrepo.ErrNegativeQuantity) {
			return svcerr.Newf(svcerr.ErrItemUnavailable, "%s %q is not available", item.Type, item.Name)
		}
		if err != nil {
			return errors.Wrap(err, "decrement quantity")
		}
		if st, changed := statusAfterIssue(item.Status, qty); changed {
			if err := tx.Catalog().SetStatus(ctx, item.ID, st); err != nil {
				return errors.Wrap(err, "set item status")
			}
		}

		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "loan id")
		}
		loan = &model.Loan{
			ID:         id,
			ItemID:     item.ID,
			ItemType:   item.Type,
			Borrower:   borrower,
			IssueDate:  in.IssueDate,
			ReturnDate: in.ReturnDate,
			Remarks:    in.Remarks,
		}
		if err := tx.Loans().Insert(ctx, loan); err != nil {
			if errors.Is(err, loanrepo.ErrAlreadyIssued) {
				return svcerr.Newf(svcerr.ErrAlreadyIssued, "%s %q is already issued", item.Type, item.Name)
			}
			return errors.Wrap(err, "insert loan")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

func (s *service) validateIssue(in IssueInput) error {
	var fields []svcerr.FieldError
	if in.ItemID == uuid.Nil {
		fields = append(fields, svcerr.FieldError{Field: "itemId", Rule: "required"})
	}
	if in.Type != model.ItemBook && in.Type != model.ItemMovie {
		fields = append(fields, svcerr.FieldError{Field: "type", Rule: "oneof"})
	}
	if in.IssueDate.IsZero() {
		fields = append(fields, svcerr.FieldError{Field: "issueDate", Rule: "required"})
	} else {
		switch {
		case in.ReturnDate.Before(in.IssueDate):
			fields = append(fields, svcerr.FieldError{Field: "returnDate", Rule: "gtefield"})
		case in.ReturnDate.After(in.IssueDate.AddDate(0, 0, s.maxLoanDays)):
			fields = append(fields, svcerr.FieldError{Field: "returnDate", Rule: "max_loan_period"})
		}
	}
	if len(fields) > 0 {
		return svcerr.Invalid("invalid issue request", fields...)
	}
	return nil
}

func (s *service) Return(ctx context.Context, borrower string, in ReturnInput) (*model.Loan, error) {
	in.ReturnDate = dates.Day(in.ReturnDate)
	var fields []svcerr.FieldError
	if in.ItemID == uuid.Nil {
		fields = append(fields, svcerr.FieldError{Field: "itemId", Rule: "required"})
	}
	if in.Type != model.ItemBook && in.Type != model.ItemMovie {
		fields = append(fields, svcerr.FieldError{Field: "type", Rule: "oneof"})
	}
	if in.SerialNumber <= 0 {
		fields = append(fields, svcerr.FieldError{Field: "serialNumber", Rule: "gt"})
	}
	if in.ReturnDate.IsZero() {
		fields = append(fields, svcerr.FieldError{Field: "returnDate", Rule: "required"})
	}
	if len(fields) > 0 {
		return nil, svcerr.Invalid("invalid return request", fields...)
	}

	var loan *model.Loan
	err := s.store.RunInTx(ctx, func(tx repository.Tx) error {
		item, err := findItem(ctx, tx, in.ItemID, in.Type)
		if err != nil {
			return err
		}
		active, err := s.borrowerActive(ctx, tx, borrower)
		if err != nil {
			return err
		}
		issued, err := tx.Loans().FindIssued(ctx, item.ID, borrower)
		if err != nil {
			return errors.Wrap(err, "find issued loan")
		}
		if err := decideReturn(returnState{item: *item, serialNumber: in.SerialNumber, borrowerActive: active, loan: issued}); err != nil {
			return err
		}
		if in.ReturnDate.Before(issued.IssueDate) {
			return svcerr.Invalid("return date is before issue date", svcerr.FieldError{Field: "returnDate", Rule: "gtefield"})
		}

		if err := closeLoan(ctx, tx, item, issued, in.ReturnDate, in.Remarks, s.now().UTC()); err != nil {
			return err
		}
		loan = issued
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

// closeLoan marks the loan returned and puts the copy back into circulation.
func closeLoan(ctx context.Context, tx repository.Tx, item *model.CatalogItem, loan *model.Loan, returnDate time.Time, remarks string, at time.Time) error {
	if err := tx.Loans().Close(ctx, loan.ID, returnDate, remarks, at); err != nil {
		if errors.Is(err, loanrepo.ErrNotIssued) {
			return svcerr.Newf(svcerr.ErrNotIssued, "%s %q is not issued", item.Type, item.Name)
		}
		return errors.Wrap(err, "close loan")
	}
	qty, err := tx.Catalog().AdjustQuantity(ctx, item.ID, 1)
	if err != nil {
		return errors.Wrap(err, "increment quantity")
	}
	if st, changed := statusAfterReturn(item.Status, qty); changed {
		if err := tx.Catalog().SetStatus(ctx, item.ID, st); err != nil {
			return errors.Wrap(err, "set item status")
		}
	}

	loan.Status = model.LoanReturned
	loan.ReturnDate = returnDate
	loan.Remarks = remarks
	loan.ReturnedAt = &at
	return nil
}

func (s *service) FetchIssueDate(ctx context.Context, in FetchInput) (*IssueDates, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || in.SerialNumber <= 0 {
		return nil, svcerr.Invalid("name and serial number are required",
			svcerr.FieldError{Field: "name", Rule: "required"},
			svcerr.FieldError{Field: "serialNumber", Rule: "gt"})
	}
	types := []model.ItemType{model.ItemBook, model.ItemMovie}
	if in.Type != "" {
		types = []model.ItemType{in.Type}
	}

	var item *model.CatalogItem
	for _, t := range types {
		it, err := findBySerial(ctx, s.store, t, in.Name, in.Creator, in.SerialNumber)
		if err != nil {
			return nil, err
		}
		if it != nil {
			item = it
			break
		}
	}
	if item == nil {
		return nil, svcerr.Newf(svcerr.ErrItemNotFound, "%q with serial number %d not found", in.Name, in.SerialNumber)
	}

	loan, err := s.store.Loans().FindIssuedByItem(ctx, item.ID)
	if err != nil {
		return nil, errors.Wrap(err, "find issued loan")
	}
	if loan == nil {
		return nil, svcerr.Newf(svcerr.ErrIssueNotFound, "no issue found for %s %q", item.Type, item.Name)
	}
	return &IssueDates{IssueDate: loan.IssueDate, ReturnDate: loan.ReturnDate}, nil
}

func (s *service) CalculateFine(actualReturn, due time.Time) int {
	return fine.Calculate(actualReturn, due)
}

func (s *service) PayFine(ctx context.Context, principal string, in PayFineInput) (*model.FineRecord, error) {
	in.ActualReturnDate = dates.Day(in.ActualReturnDate)
	var fields []svcerr.FieldError
	if in.Type != model.ItemBook && in.Type != model.ItemMovie {
		fields = append(fields, svcerr.FieldError{Field: "type", Rule: "oneof"})
	}
	if strings.TrimSpace(in.Name) == "" {
		fields = append(fields, svcerr.FieldError{Field: "name", Rule: "required"})
	}
	if in.SerialNumber <= 0 {
		fields = append(fields, svcerr.FieldError{Field: "serialNumber", Rule: "gt"})
	}
	if in.ActualReturnDate.IsZero() {
		fields = append(fields, svcerr.FieldError{Field: "actualReturnDate", Rule: "required"})
	}
	if in.Fine < 0 {
		fields = append(fields, svcerr.FieldError{Field: "fine", Rule: "gte"})
	}
	if len(fields) > 0 {
		return nil, svcerr.Invalid("invalid fine payment", fields...)
	}

	var rec *model.FineRecord
	err := s.store.RunInTx(ctx, func(tx repository.Tx) error {
		item, err := findBySerial(ctx, tx, in.Type, strings.TrimSpace(in.Name), in.Creator, in.SerialNumber)
		if err != nil {
			return err
		}
		var issued *model.Loan
		if item != nil {
			// lock the row so the status decided below is the current one
			if item, err = tx.Catalog().FindByIDForUpdate(ctx, item.ID); err != nil {
				return errors.Wrap(err, "lock item")
			}
		}
		if item != nil {
			if issued, err = tx.Loans().FindIssuedByItem(ctx, item.ID); err != nil {
				return errors.Wrap(err, "find issued loan")
			}
		}
		st := payFineState{item: item, loan: issued, principal: principal, paid: in.Paid, claimed: in.Fine}
		if issued != nil {
			st.computed = fine.Calculate(in.ActualReturnDate, issued.ReturnDate)
		}
		if err := decidePayFine(st); err != nil {
			return err
		}
		if in.ActualReturnDate.Before(issued.IssueDate) {
			return svcerr.Invalid("actual return date is before issue date", svcerr.FieldError{Field: "actualReturnDate", Rule: "gtefield"})
		}

		due := issued.ReturnDate
		if err := closeLoan(ctx, tx, item, issued, in.ActualReturnDate, in.Remarks, s.now().UTC()); err != nil {
			return err
		}

		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "fine id")
		}
		rec = &model.FineRecord{
			ID:               id,
			LoanID:           issued.ID,
			ItemType:         item.Type,
			ItemName:         item.Name,
			CreatorName:      item.Creator,
			SerialNumber:     item.SerialNumber,
			Borrower:         issued.Borrower,
			IssueDate:        issued.IssueDate,
			ReturnDate:       due,
			ActualReturnDate: in.ActualReturnDate,
			Fine:             st.computed,
			Paid:             true,
			Remarks:          in.Remarks,
		}
		return errors.Wrap(tx.Fines().Insert(ctx, rec), "insert fine")
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *service) Search(ctx context.Context, q catalogrepo.SearchQuery) ([]model.CatalogItem, error) {
	if q.Type != model.ItemBook && q.Type != model.ItemMovie {
		return nil, svcerr.Invalid("invalid type", svcerr.FieldError{Field: "type", Rule: "oneof"})
	}
	if strings.TrimSpace(q.ItemQuery) == "" && strings.TrimSpace(q.PersonQuery) == "" {
		return nil, svcerr.Invalid("itemQuery or personQuery is required",
			svcerr.FieldError{Field: "itemQuery", Rule: "required_without"},
			svcerr.FieldError{Field: "personQuery", Rule: "required_without"})
	}
	items, err := s.store.Catalog().Search(ctx, q)
	if err != nil {
		return nil, errors.Wrap(err, "search catalog")
	}
	return items, nil
}

// borrowerActive resolves the principal to its membership. An account with no
// membership, or a removed one, is inactive.
func (s *service) borrowerActive(ctx context.Context, tx repository.Tx, username string) (bool, error) {
	u, err := tx.Users().ByUsername(ctx, username)
	if err != nil {
		return false, errors.Wrap(err, "find user")
	}
	if u == nil {
		return false, svcerr.Newf(svcerr.ErrUserNotFound, "user %q not found", username)
	}
	if u.MembershipNumber == nil {
		return false, nil
	}
	m, err := tx.Members().FindByNumber(ctx, *u.MembershipNumber)
	if err != nil {
		return false, errors.Wrap(err, "find membership")
	}
	if m == nil {
		return false, nil
	}
	return m.IsActive(s.now()), nil
}

func findItem(ctx context.Context, tx repository.Tx, id uuid.UUID, t model.ItemType) (*model.CatalogItem, error) {
	item, err := tx.Catalog().FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "find item")
	}
	if item == nil || item.Type != t {
		return nil, svcerr.Newf(svcerr.ErrItemNotFound, "%s %s not found", t, id)
	}
	return item, nil
}

// findBySerial returns nil, nil when no item of type t has this name, serial
// and creator. An empty creator matches any.
func findBySerial(ctx context.Context, tx repository.Tx, t model.ItemType, name, creator string, serial int64) (*model.CatalogItem, error) {
	item, err := tx.Catalog().FindByNameAndSerial(ctx, t, name, serial)
	if err != nil {
		return nil, errors.Wrap(err, "find item")
	}
	if item == nil {
		return nil, nil
	}
	if c := strings.TrimSpace(creator); c != "" && !strings.EqualFold(c, item.Creator) {
		return nil, nil
	}
	return item, nil
}
