package transaction

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Rahulstark2/librarymanagement/model"
	"github.com/Rahulstark2/librarymanagement/service/svcerr"
)

func TestDecideIssue_Order(t *testing.T) {
	avail := model.CatalogItem{Name: "Dune", Type: model.ItemBook, Quantity: 1, Status: model.StatusAvailable}
	empty := model.CatalogItem{Name: "Dune", Type: model.ItemBook, Quantity: 0, Status: model.StatusUnavailable}
	loan := &model.Loan{Status: model.LoanIssued}

	require.NoError(t, decideIssue(issueState{item: avail, borrowerActive: true}))
	require.Equal(t, svcerr.ErrInactiveBorrower, svcerr.Code(decideIssue(issueState{item: empty, activeLoan: loan})))
	require.Equal(t, svcerr.ErrAlreadyIssued, svcerr.Code(decideIssue(issueState{item: empty, borrowerActive: true, activeLoan: loan})))
	require.Equal(t, svcerr.ErrItemUnavailable, svcerr.Code(decideIssue(issueState{item: empty, borrowerActive: true})))
}

func TestStatusTransitions(t *testing.T) {
	st, changed := statusAfterIssue(model.StatusAvailable, 0)
	require.True(t, changed)
	require.Equal(t, model.StatusUnavailable, st)

	_, changed = statusAfterIssue(model.StatusAvailable, 2)
	require.False(t, changed)

	st, changed = statusAfterReturn(model.StatusUnavailable, 1)
	require.True(t, changed)
	require.Equal(t, model.StatusAvailable, st)

	st, changed = statusAfterReturn(model.StatusRemoved, 1)
	require.False(t, changed)
	require.Equal(t, model.StatusRemoved, st)
}

func TestDecideReturn_SerialCheckedBeforeLoan(t *testing.T) {
	item := model.CatalogItem{Name: "Dune", Type: model.ItemBook, SerialNumber: 3}

	err := decideReturn(returnState{item: item, serialNumber: 4, borrowerActive: true})
	require.Equal(t, svcerr.ErrSerialMismatch, svcerr.Code(err))

	err = decideReturn(returnState{item: item, serialNumber: 3, borrowerActive: true})
	require.Equal(t, svcerr.ErrNotIssued, svcerr.Code(err))
}

func TestDecidePayFine_Order(t *testing.T) {
	item := &model.CatalogItem{Name: "Dune", Type: model.ItemBook, SerialNumber: 1}
	loan := &model.Loan{Borrower: "alice", Status: model.LoanIssued}
	ok := payFineState{item: item, loan: loan, principal: "alice", paid: true, claimed: 60, computed: 60}
	require.NoError(t, decidePayFine(ok))

	cases := []struct {
		name string
		mut  func(s *payFineState)
		want svcerr.ErrCode
	}{
		{"no item", func(s *payFineState) { s.item = nil }, svcerr.ErrItemNotFound},
		{"no loan", func(s *payFineState) { s.loan = nil }, svcerr.ErrIssueNotFound},
		{"other principal", func(s *payFineState) { s.principal = "bob"; s.computed = 0 }, svcerr.ErrUnauthorized},
		{"on time", func(s *payFineState) { s.computed, s.claimed = 0, 0 }, svcerr.ErrNotOverdue},
		{"on time unpaid", func(s *payFineState) { s.computed, s.paid = 0, false }, svcerr.ErrNotOverdue},
		{"unpaid", func(s *payFineState) { s.paid = false }, svcerr.ErrFineNotConfirmed},
		{"wrong amount", func(s *payFineState) { s.claimed = 50 }, svcerr.ErrFineMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := ok
			tc.mut(&s)
			require.Equal(t, tc.want, svcerr.Code(decidePayFine(s)))
		})
	}
}
