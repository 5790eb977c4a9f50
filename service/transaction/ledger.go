package transaction

import (
	"github.com/Rahulstark2/librarymanagement/model"
	"github.com/Rahulstark2/librarymanagement/service/svcerr"
)

// The loan ledger moves each item through NoActiveLoan -> Issued -> NoActiveLoan.
// The functions below decide a transition from the state read inside a unit of
// work. They have no side effects.

type issueState struct {
	item           model.CatalogItem
	borrowerActive bool
	activeLoan     *model.Loan
}

// decideIssue checks, in order: borrower active, no issued loan for the item,
// item issuable.
func decideIssue(s issueState) error {
	if !s.borrowerActive {
		return svcerr.New(svcerr.ErrInactiveBorrower, "membership is not active")
	}
	if s.activeLoan != nil {
		return svcerr.Newf(svcerr.ErrAlreadyIssued, "%s %q is already issued", s.item.Type, s.item.Name)
	}
	if !s.item.Issuable() {
		return svcerr.Newf(svcerr.ErrItemUnavailable, "%s %q is not available", s.item.Type, s.item.Name)
	}
	return nil
}

// statusAfterIssue is the item status once quantity has dropped to qty.
func statusAfterIssue(cur model.ItemStatus, qty int) (model.ItemStatus, bool) {
	if qty == 0 && cur == model.StatusAvailable {
		return model.StatusUnavailable, true
	}
	return cur, false
}

type returnState struct {
	item           model.CatalogItem
	serialNumber   int64
	borrowerActive bool
	loan           *model.Loan
}

// decideReturn checks, in order: borrower active, serial matches the item,
// an issued loan exists for the item and borrower.
func decideReturn(s returnState) error {
	if !s.borrowerActive {
		return svcerr.New(svcerr.ErrInactiveBorrower, "membership is not active")
	}
	if s.serialNumber != s.item.SerialNumber {
		return svcerr.Newf(svcerr.ErrSerialMismatch, "serial number %d does not match %s %q", s.serialNumber, s.item.Type, s.item.Name)
	}
	if s.loan == nil || !s.loan.IsIssued() {
		return svcerr.Newf(svcerr.ErrNotIssued, "%s %q is not issued to you", s.item.Type, s.item.Name)
	}
	return nil
}

// statusAfterReturn is the item status once quantity has risen to qty.
// Administrator overrides are left alone.
func statusAfterReturn(cur model.ItemStatus, qty int) (model.ItemStatus, bool) {
	if cur == model.StatusUnavailable && qty > 0 {
		return model.StatusAvailable, true
	}
	return cur, false
}

type payFineState struct {
	item      *model.CatalogItem
	loan      *model.Loan
	principal string
	paid      bool
	claimed   int
	computed  int
}

// decidePayFine checks, in order: item and issued loan exist, the principal
// holds the loan, the loan is late, payment is confirmed, the claimed amount
// is the computed one. An on-time loan is closed through Return instead.
func decidePayFine(s payFineState) error {
	if s.item == nil {
		return svcerr.New(svcerr.ErrItemNotFound, "item not found")
	}
	if s.loan == nil || !s.loan.IsIssued() {
		return svcerr.Newf(svcerr.ErrIssueNotFound, "no issue found for %s %q", s.item.Type, s.item.Name)
	}
	if s.loan.Borrower != s.principal {
		return svcerr.New(svcerr.ErrUnauthorized, "only the borrower can pay this fine")
	}
	if s.computed == 0 {
		return svcerr.New(svcerr.ErrNotOverdue, "nothing to pay, the item is not overdue")
	}
	if !s.paid {
		return svcerr.New(svcerr.ErrFineNotConfirmed, "fine payment not confirmed")
	}
	if s.claimed != s.computed {
		return svcerr.Newf(svcerr.ErrFineMismatch, "fine should be %d, got %d", s.computed, s.claimed)
	}
	return nil
}
