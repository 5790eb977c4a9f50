package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Rahulstark2/librarymanagement/model"
	"github.com/Rahulstark2/librarymanagement/repository"
	catalogrepo "github.com/Rahulstark2/librarymanagement/repository/catalog"
	loanrepo "github.com/Rahulstark2/librarymanagement/repository/loan"
)

func book(name, creator string, serial int64, qty int) *model.CatalogItem {
	return &model.CatalogItem{
		ID:              uuid.New(),
		Type:            model.ItemBook,
		Name:            name,
		Creator:         creator,
		SerialNumber:    serial,
		Quantity:        qty,
		Status:          model.StatusAvailable,
		ProcurementDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestNextID_StartsAtOneAndIncrements(t *testing.T) {
	ctx := context.Background()
	s := New()

	id, err := s.Sequences().NextID(ctx, model.SequenceMembership)
	require.NoError(t, err)
	require.Equal(t, int64(1), id)

	id, err = s.Sequences().NextID(ctx, model.SequenceMembership)
	require.NoError(t, err)
	require.Equal(t, int64(2), id)

	// classes are independent
	id, err = s.Sequences().NextID(ctx, model.SequenceBook)
	require.NoError(t, err)
	require.Equal(t, int64(1), id)
}

func TestNextID_SeedsFromExistingMax(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Catalog().Create(ctx, book("Dune", "Herbert", 7, 1)))

	id, err := s.Sequences().NextID(ctx, model.SequenceBook)
	require.NoError(t, err)
	require.Equal(t, int64(8), id)
}

func TestRunInTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	it := book("Dune", "Herbert", 1, 2)
	require.NoError(t, s.Catalog().Create(ctx, it))

	boom := errors.New("boom")
	err := s.RunInTx(ctx, func(tx repository.Tx) error {
		qty, err := tx.Catalog().AdjustQuantity(ctx, it.ID, -1)
		require.NoError(t, err)
		require.Equal(t, 1, qty)
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Catalog().FindByID(ctx, it.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.Quantity)
}

func TestRunInTx_Commits(t *testing.T) {
	ctx := context.Background()
	s := New()
	it := book("Dune", "Herbert", 1, 2)
	require.NoError(t, s.Catalog().Create(ctx, it))

	err := s.RunInTx(ctx, func(tx repository.Tx) error {
		_, err := tx.Catalog().AdjustQuantity(ctx, it.ID, -2)
		return err
	})
	require.NoError(t, err)

	got, err := s.Catalog().FindByID(ctx, it.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.Quantity)
}

func TestAdjustQuantity_NeverNegative(t *testing.T) {
	ctx := context.Background()
	s := New()
	it := book("Dune", "Herbert", 1, 0)
	require.NoError(t, s.Catalog().Create(ctx, it))

	_, err := s.Catalog().AdjustQuantity(ctx, it.ID, -1)
	require.ErrorIs(t, err, catalogrepo.ErrNegativeQuantity)
}

func TestCreate_DuplicateNameAndCreator(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Catalog().Create(ctx, book("Dune", "Herbert", 1, 1)))

	err := s.Catalog().Create(ctx, book("Dune", "Herbert", 2, 1))
	require.ErrorIs(t, err, catalogrepo.ErrDuplicate)
}

func TestLoanInsert_OneIssuedPerItem(t *testing.T) {
	ctx := context.Background()
	s := New()
	itemID := uuid.New()
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	first := &model.Loan{ID: uuid.New(), ItemID: itemID, Borrower: "alice", IssueDate: day, ReturnDate: day.AddDate(0, 0, 7)}
	require.NoError(t, s.Loans().Insert(ctx, first))

	err := s.Loans().Insert(ctx, &model.Loan{ID: uuid.New(), ItemID: itemID, Borrower: "bob", IssueDate: day, ReturnDate: day})
	require.ErrorIs(t, err, loanrepo.ErrAlreadyIssued)

	require.NoError(t, s.Loans().Close(ctx, first.ID, day.AddDate(0, 0, 3), "ok", day))
	require.ErrorIs(t, s.Loans().Close(ctx, first.ID, day, "", day), loanrepo.ErrNotIssued)

	// after the return the item can be issued again
	require.NoError(t, s.Loans().Insert(ctx, &model.Loan{ID: uuid.New(), ItemID: itemID, Borrower: "bob", IssueDate: day, ReturnDate: day}))
}

func TestSearch_MatchesNameOrCreatorCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Catalog().Create(ctx, book("The Hobbit", "Tolkien", 1, 1)))
	require.NoError(t, s.Catalog().Create(ctx, book("Dune", "Herbert", 2, 1)))
	require.NoError(t, s.Catalog().Create(ctx, book("Emma", "Austen", 3, 1)))

	out, err := s.Catalog().Search(ctx, catalogrepo.SearchQuery{Type: model.ItemBook, ItemQuery: "hob", PersonQuery: "HERB"})
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "Dune", out[0].Name)
	require.Equal(t, "The Hobbit", out[1].Name)

	out, err = s.Catalog().Search(ctx, catalogrepo.SearchQuery{Type: model.ItemMovie, ItemQuery: "hob"})
	require.NoError(t, err)
	require.Empty(t, out)
}
