package report

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Rahulstark2/librarymanagement/model"
	"github.com/Rahulstark2/librarymanagement/repository/memstore"
)

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func seed(t *testing.T) (*memstore.Store, Service) {
	t.Helper()
	ctx := context.Background()
	st := memstore.New()

	for i, name := range []string{"alice", "bob"} {
		n := int64(i + 1)
		end := day(2024, 12, 31)
		if name == "bob" {
			end = day(2024, 1, 31)
		}
		require.NoError(t, st.Members().Create(ctx, &model.Member{
			MembershipNumber: n, NationalID: name, FirstName: name, LastName: "Test",
			StartDate: day(2023, 1, 1), EndDate: end, Tier: model.TierOneYear,
		}))
		require.NoError(t, st.Users().Create(ctx, &model.User{Username: name, Role: model.RoleUser, MembershipNumber: &n}))
	}

	dune := &model.CatalogItem{ID: uuid.New(), Type: model.ItemBook, Name: "Dune", Creator: "Frank Herbert", SerialNumber: 1, Quantity: 0, Status: model.StatusUnavailable, ProcurementDate: day(2023, 5, 4)}
	alien := &model.CatalogItem{ID: uuid.New(), Type: model.ItemMovie, Name: "Alien", Creator: "Ridley Scott", SerialNumber: 1, Quantity: 1, Status: model.StatusAvailable, ProcurementDate: day(2023, 6, 1)}
	require.NoError(t, st.Catalog().Create(ctx, dune))
	require.NoError(t, st.Catalog().Create(ctx, alien))

	// alice is two days late on Dune; bob's loan is due tomorrow
	require.NoError(t, st.Loans().Insert(ctx, &model.Loan{ID: uuid.New(), ItemID: dune.ID, ItemType: model.ItemBook, Borrower: "alice", IssueDate: day(2024, 2, 20), ReturnDate: day(2024, 2, 28)}))
	require.NoError(t, st.Loans().Insert(ctx, &model.Loan{ID: uuid.New(), ItemID: alien.ID, ItemType: model.ItemMovie, Borrower: "bob", IssueDate: day(2024, 2, 25), ReturnDate: day(2024, 3, 2)}))

	now := time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)
	return st, New(st, func() time.Time { return now })
}

func TestActiveIssues(t *testing.T) {
	_, svc := seed(t)

	rows, err := svc.ActiveIssues(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Dune", rows[0].Name)
	require.Equal(t, "20/02/2024", rows[0].IssueDate)
	require.Equal(t, "28/02/2024", rows[0].ReturnDate)
	require.Equal(t, int64(1), *rows[0].MembershipID)

	rows, err = svc.ActiveIssues(context.Background(), "bob")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Alien", rows[0].Name)
}

func TestOverdueReturns_UsesFineCalculator(t *testing.T) {
	_, svc := seed(t)

	rows, err := svc.OverdueReturns(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "alice", rows[0].Borrower)
	require.Equal(t, 60, rows[0].Fine)
}

func TestActiveMemberships(t *testing.T) {
	_, svc := seed(t)

	rows, err := svc.ActiveMemberships(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Equal(t, "alice Test", rows[0].MemberName)
	require.Equal(t, "Active", rows[0].Status)
	require.Equal(t, 60, rows[0].AmountPending)

	require.Equal(t, "Inactive", rows[1].Status)
	require.Equal(t, 0, rows[1].AmountPending)
	require.Equal(t, "31/01/2024", rows[1].EndDate)
}

func TestCatalog(t *testing.T) {
	_, svc := seed(t)

	books, err := svc.Catalog(context.Background(), model.ItemBook)
	require.NoError(t, err)
	require.Len(t, books, 1)
	require.Equal(t, "Frank Herbert", books[0].AuthorName)
	require.Empty(t, books[0].DirectorName)
	require.Equal(t, "04/05/2023", books[0].ProcurementDate)

	movies, err := svc.Catalog(context.Background(), model.ItemMovie)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	require.Equal(t, "Ridley Scott", movies[0].DirectorName)
}
