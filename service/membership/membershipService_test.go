package membership

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Rahulstark2/librarymanagement/model"
	"github.com/Rahulstark2/librarymanagement/repository/memstore"
	"github.com/Rahulstark2/librarymanagement/service/svcerr"
)

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func addInput(nationalID string) AddInput {
	return AddInput{
		NationalID:     nationalID,
		FirstName:      "Asha",
		LastName:       "Rao",
		ContactName:    "9876543210",
		ContactAddress: "12 MG Road",
		StartDate:      day(2024, 1, 15),
		EndDate:        day(2024, 7, 15),
		Tier:           model.TierSixMonths,
	}
}

func TestAdd_AllocatesSequentialNumbers(t *testing.T) {
	ctx := context.Background()
	svc := New(memstore.New())

	m1, err := svc.Add(ctx, addInput("1111"))
	require.NoError(t, err)
	require.Equal(t, int64(1), m1.MembershipNumber)

	m2, err := svc.Add(ctx, addInput("2222"))
	require.NoError(t, err)
	require.Equal(t, int64(2), m2.MembershipNumber)
}

func TestAdd_DuplicateNationalID(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := New(st)

	_, err := svc.Add(ctx, addInput("1111"))
	require.NoError(t, err)

	_, err = svc.Add(ctx, addInput("1111"))
	require.Equal(t, svcerr.ErrDuplicateMember, svcerr.Code(err))

	list, err := st.Members().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestAdd_BadInput(t *testing.T) {
	in := addInput("")
	in.Tier = "Forever"
	in.EndDate = day(2023, 1, 1)

	_, err := New(memstore.New()).Add(context.Background(), in)
	require.Equal(t, svcerr.ErrBadInput, svcerr.Code(err))
	fields := svcerr.Fields(err)
	require.Contains(t, fields, svcerr.FieldError{Field: "aadharCardNo", Rule: "required"})
	require.Contains(t, fields, svcerr.FieldError{Field: "membershipType", Rule: "oneof"})
	require.Contains(t, fields, svcerr.FieldError{Field: "endDate", Rule: "gtefield"})
}

func TestUpdate_Extension(t *testing.T) {
	cases := []struct {
		name string
		end  time.Time
		ext  model.MembershipTier
		want time.Time
	}{
		{"one year", day(2024, 1, 15), model.TierOneYear, day(2025, 1, 15)},
		{"six months", day(2024, 1, 15), model.TierSixMonths, day(2024, 7, 15)},
		// 2024-01-15 + 730 days would be 2026-01-14
		{"two years across leap day", day(2024, 1, 15), model.TierTwoYears, day(2026, 1, 15)},
		{"no extension", day(2024, 1, 15), "", day(2024, 1, 15)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			svc := New(memstore.New())
			m, err := svc.Add(ctx, addInput("1111"))
			require.NoError(t, err)

			res, err := svc.Update(ctx, UpdateInput{
				MembershipNumber: m.MembershipNumber,
				StartDate:        day(2023, 1, 15),
				EndDate:          tc.end,
				Extension:        tc.ext,
			})
			require.NoError(t, err)
			require.False(t, res.Removed)
			require.Equal(t, tc.want, res.Member.EndDate)
			require.Equal(t, day(2023, 1, 15), res.Member.StartDate)
		})
	}
}

func TestUpdate_Remove(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := New(st)
	m, err := svc.Add(ctx, addInput("1111"))
	require.NoError(t, err)

	res, err := svc.Update(ctx, UpdateInput{MembershipNumber: m.MembershipNumber, StartDate: m.StartDate, EndDate: m.EndDate, Remove: true})
	require.NoError(t, err)
	require.True(t, res.Removed)

	got, err := st.Members().FindByNumber(ctx, m.MembershipNumber)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestUpdate_NotFoundAndInvalidExtension(t *testing.T) {
	ctx := context.Background()
	svc := New(memstore.New())

	_, err := svc.Update(ctx, UpdateInput{MembershipNumber: 42, StartDate: day(2024, 1, 1), EndDate: day(2024, 6, 1)})
	require.Equal(t, svcerr.ErrMemberNotFound, svcerr.Code(err))

	_, err = svc.Update(ctx, UpdateInput{MembershipNumber: 42, StartDate: day(2024, 1, 1), EndDate: day(2024, 6, 1), Extension: "Ten Years"})
	require.Equal(t, svcerr.ErrBadInput, svcerr.Code(err))
}

func TestUpdate_EndBeforeStart(t *testing.T) {
	ctx := context.Background()
	svc := New(memstore.New())
	m, err := svc.Add(ctx, addInput("1111"))
	require.NoError(t, err)

	_, err = svc.Update(ctx, UpdateInput{MembershipNumber: m.MembershipNumber, StartDate: day(2024, 6, 1), EndDate: day(2024, 5, 31)})
	require.Equal(t, svcerr.ErrBadInput, svcerr.Code(err))
	require.Contains(t, svcerr.Fields(err), svcerr.FieldError{Field: "endDate", Rule: "gtefield"})

	_, err = svc.Update(ctx, UpdateInput{MembershipNumber: m.MembershipNumber, StartDate: day(2024, 6, 1), EndDate: day(2024, 6, 1)})
	require.NoError(t, err)
}

func TestAdd_ConcurrentNumbersAreUnique(t *testing.T) {
	ctx := context.Background()
	svc := New(memstore.New())
	const n = 20

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers []int64
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := svc.Add(ctx, addInput(fmt.Sprintf("ID-%03d", i)))
			if err != nil {
				t.Errorf("add %d: %v", i, err)
				return
			}
			mu.Lock()
			numbers = append(numbers, m.MembershipNumber)
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	require.Len(t, numbers, n)
	for i, got := range numbers {
		require.Equal(t, int64(i+1), got)
	}
}

func TestAdd_ConcurrentSameNationalID(t *testing.T) {
	ctx := context.Background()
	svc := New(memstore.New())

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		ok, dupes int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Add(ctx, addInput("1111"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case svcerr.Is(err, svcerr.ErrDuplicateMember):
				dupes++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, ok)
	require.Equal(t, 9, dupes)
}
