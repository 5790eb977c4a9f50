// Package memstore is an in-memory Store. A transaction works on a cloned
// state that replaces the live one only when the transaction succeeds.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Rahulstark2/librarymanagement/model"
	"github.com/Rahulstark2/librarymanagement/repository"
	auth "github.com/Rahulstark2/librarymanagement/repository/auth"
	catalogrepo "github.com/Rahulstark2/librarymanagement/repository/catalog"
	finerepo "github.com/Rahulstark2/librarymanagement/repository/fine"
	loanrepo "github.com/Rahulstark2/librarymanagement/repository/loan"
	memberrepo "github.com/Rahulstark2/librarymanagement/repository/member"
	sequencerepo "github.com/Rahulstark2/librarymanagement/repository/sequence"
)

type state struct {
	items    map[uuid.UUID]model.CatalogItem
	loans    []model.Loan
	fines    []model.FineRecord
	members  map[int64]model.Member
	users    []model.User
	seq      map[model.SequenceClass]int64
	nextUser int64
}

func newState() *state {
	return &state{
		items:   map[uuid.UUID]model.CatalogItem{},
		members: map[int64]model.Member{},
		seq:     map[model.SequenceClass]int64{},
	}
}

func (s *state) clone() *state {
	c := &state{
		items:    make(map[uuid.UUID]model.CatalogItem, len(s.items)),
		loans:    append([]model.Loan(nil), s.loans...),
		fines:    append([]model.FineRecord(nil), s.fines...),
		members:  make(map[int64]model.Member, len(s.members)),
		users:    append([]model.User(nil), s.users...),
		seq:      make(map[model.SequenceClass]int64, len(s.seq)),
		nextUser: s.nextUser,
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.members {
		c.members[k] = v
	}
	for k, v := range s.seq {
		c.seq[k] = v
	}
	return c
}

// Store is safe for concurrent use. Transactions are serialized.
type Store struct {
	mu sync.Mutex
	st *state
}

var _ repository.Store = (*Store)(nil)

func New() *Store { return &Store{st: newState()} }

func (s *Store) RunInTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(&view{tx: work}); err != nil {
		return err
	}
	s.st = work
	return nil
}

func (s *Store) Catalog() catalogrepo.Repo    { return catalogView{s.view()} }
func (s *Store) Loans() loanrepo.Repo         { return loanView{s.view()} }
func (s *Store) Fines() finerepo.Repo         { return fineView{s.view()} }
func (s *Store) Members() memberrepo.Repo     { return memberView{s.view()} }
func (s *Store) Sequences() sequencerepo.Repo { return seqView{s.view()} }
func (s *Store) Users() auth.Repo             { return userView{s.view()} }

func (s *Store) view() *view { return &view{store: s} }

// view reads either a transaction's working state or, outside a
// transaction, the live state under the store lock.
type view struct {
	store *Store
	tx    *state
}

func (v *view) do(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.st)
}

func (v *view) Catalog() catalogrepo.Repo    { return catalogView{v} }
func (v *view) Loans() loanrepo.Repo         { return loanView{v} }
func (v *view) Fines() finerepo.Repo         { return fineView{v} }
func (v *view) Members() memberrepo.Repo     { return memberView{v} }
func (v *view) Sequences() sequencerepo.Repo { return seqView{v} }
func (v *view) Users() auth.Repo             { return userView{v} }

func now() time.Time { return time.Now().UTC() }

// catalog

type catalogView struct{ v *view }

func (c catalogView) FindByID(_ context.Context, id uuid.UUID) (out *model.CatalogItem, err error) {
	err = c.v.do(func(st *state) error {
		if it, ok := st.items[id]; ok {
			out = &it
		}
		return nil
	})
	return out, err
}

func (c catalogView) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.CatalogItem, error) {
	return c.FindByID(ctx, id)
}

func (c catalogView) FindByNameAndCreator(_ context.Context, t model.ItemType, name, creator string) (out *model.CatalogItem, err error) {
	err = c.v.do(func(st *state) error {
		for _, it := range st.items {
			if it.Type == t && it.Name == name && it.Creator == creator {
				out = &it
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (c catalogView) FindByNameAndSerial(_ context.Context, t model.ItemType, name string, serial int64) (out *model.CatalogItem, err error) {
	err = c.v.do(func(st *state) error {
		for _, it := range st.items {
			if it.Type == t && it.Name == name && it.SerialNumber == serial {
				out = &it
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (c catalogView) Create(_ context.Context, item *model.CatalogItem) error {
	return c.v.do(func(st *state) error {
		if _, ok := st.items[item.ID]; ok {
			return catalogrepo.ErrDuplicate
		}
		for _, it := range st.items {
			if it.Type != item.Type {
				continue
			}
			if (it.Name == item.Name && it.Creator == item.Creator) || it.SerialNumber == item.SerialNumber {
				return catalogrepo.ErrDuplicate
			}
		}
		item.CreatedAt = now()
		st.items[item.ID] = *item
		return nil
	})
}

func (c catalogView) UpdateStatus(_ context.Context, id uuid.UUID, status model.ItemStatus, date time.Time) error {
	return c.v.do(func(st *state) error {
		it, ok := st.items[id]
		if !ok {
			return catalogrepo.ErrNotFound
		}
		it.Status = status
		it.StatusDate = &date
		st.items[id] = it
		return nil
	})
}

func (c catalogView) SetStatus(_ context.Context, id uuid.UUID, status model.ItemStatus) error {
	return c.v.do(func(st *state) error {
		it, ok := st.items[id]
		if !ok {
			return catalogrepo.ErrNotFound
		}
		it.Status = status
		st.items[id] = it
		return nil
	})
}

func (c catalogView) AdjustQuantity(_ context.Context, id uuid.UUID, delta int) (qty int, err error) {
	err = c.v.do(func(st *state) error {
		it, ok := st.items[id]
		if !ok || it.Quantity+delta < 0 {
			return catalogrepo.ErrNegativeQuantity
		}
		it.Quantity += delta
		st.items[id] = it
		qty = it.Quantity
		return nil
	})
	return qty, err
}

func (c catalogView) List(_ context.Context, t model.ItemType) (out []model.CatalogItem, err error) {
	err = c.v.do(func(st *state) error {
		for _, it := range st.items {
			if it.Type == t {
				out = append(out, it)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].SerialNumber < out[j].SerialNumber })
	return out, err
}

func (c catalogView) Search(_ context.Context, q catalogrepo.SearchQuery) (out []model.CatalogItem, err error) {
	name := strings.ToLower(strings.TrimSpace(q.ItemQuery))
	person := strings.ToLower(strings.TrimSpace(q.PersonQuery))
	err = c.v.do(func(st *state) error {
		for _, it := range st.items {
			if it.Type != q.Type {
				continue
			}
			if name == "" && person == "" {
				out = append(out, it)
				continue
			}
			if (name != "" && strings.Contains(strings.ToLower(it.Name), name)) ||
				(person != "" && strings.Contains(strings.ToLower(it.Creator), person)) {
				out = append(out, it)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if len(out) > catalogrepo.SearchLimit {
		out = out[:catalogrepo.SearchLimit]
	}
	return out, err
}

// loans

type loanView struct{ v *view }

func (l loanView) Insert(_ context.Context, loan *model.Loan) error {
	return l.v.do(func(st *state) error {
		for _, x := range st.loans {
			if x.ItemID == loan.ItemID && x.IsIssued() {
				return loanrepo.ErrAlreadyIssued
			}
		}
		loan.Status = model.LoanIssued
		loan.CreatedAt = now()
		st.loans = append(st.loans, *loan)
		return nil
	})
}

func (l loanView) FindIssuedByItem(_ context.Context, itemID uuid.UUID) (out *model.Loan, err error) {
	err = l.v.do(func(st *state) error {
		for _, x := range st.loans {
			if x.ItemID == itemID && x.IsIssued() {
				out = &x
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (l loanView) FindIssued(_ context.Context, itemID uuid.UUID, borrower string) (out *model.Loan, err error) {
	err = l.v.do(func(st *state) error {
		for _, x := range st.loans {
			if x.ItemID == itemID && x.Borrower == borrower && x.IsIssued() {
				out = &x
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (l loanView) Close(_ context.Context, id uuid.UUID, returnDate time.Time, remarks string, at time.Time) error {
	return l.v.do(func(st *state) error {
		for i := range st.loans {
			x := &st.loans[i]
			if x.ID != id {
				continue
			}
			if !x.IsIssued() {
				return loanrepo.ErrNotIssued
			}
			x.Status = model.LoanReturned
			x.ReturnDate = returnDate
			x.Remarks = remarks
			x.ReturnedAt = &at
			return nil
		}
		return loanrepo.ErrNotIssued
	})
}

func (l loanView) ListIssued(_ context.Context, f loanrepo.IssuedFilter) (out []loanrepo.IssuedRow, err error) {
	err = l.v.do(func(st *state) error {
		for _, x := range st.loans {
			if !x.IsIssued() {
				continue
			}
			if !f.DueBefore.IsZero() && !x.ReturnDate.Before(f.DueBefore) {
				continue
			}
			if f.Borrower != "" && x.Borrower != f.Borrower {
				continue
			}
			it := st.items[x.ItemID]
			out = append(out, loanrepo.IssuedRow{
				LoanID:       x.ID,
				ItemID:       x.ItemID,
				ItemType:     x.ItemType,
				ItemName:     it.Name,
				Creator:      it.Creator,
				SerialNumber: it.SerialNumber,
				Borrower:     x.Borrower,
				IssueDate:    x.IssueDate,
				ReturnDate:   x.ReturnDate,
			})
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].ReturnDate.Before(out[j].ReturnDate) })
	return out, err
}

func (l loanView) ListByBorrower(_ context.Context, borrower string) (out []model.Loan, err error) {
	err = l.v.do(func(st *state) error {
		for i := len(st.loans) - 1; i >= 0; i-- {
			if st.loans[i].Borrower == borrower {
				out = append(out, st.loans[i])
			}
		}
		return nil
	})
	return out, err
}

// fines

type fineView struct{ v *view }

func (f fineView) Insert(_ context.Context, rec *model.FineRecord) error {
	return f.v.do(func(st *state) error {
		rec.CreatedAt = now()
		st.fines = append(st.fines, *rec)
		return nil
	})
}

func (f fineView) List(_ context.Context) (out []model.FineRecord, err error) {
	err = f.v.do(func(st *state) error {
		for i := len(st.fines) - 1; i >= 0; i-- {
			out = append(out, st.fines[i])
		}
		return nil
	})
	return out, err
}

func (f fineView) ListByBorrower(_ context.Context, borrower string) (out []model.FineRecord, err error) {
	err = f.v.do(func(st *state) error {
		for i := len(st.fines) - 1; i >= 0; i-- {
			if st.fines[i].Borrower == borrower {
				out = append(out, st.fines[i])
			}
		}
		return nil
	})
	return out, err
}

// memberships

type memberView struct{ v *view }

func (m memberView) FindByNumber(_ context.Context, number int64) (out *model.Member, err error) {
	err = m.v.do(func(st *state) error {
		if x, ok := st.members[number]; ok {
			out = &x
		}
		return nil
	})
	return out, err
}

func (m memberView) FindByNationalID(_ context.Context, nationalID string) (out *model.Member, err error) {
	err = m.v.do(func(st *state) error {
		for _, x := range st.members {
			if x.NationalID == nationalID {
				out = &x
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (m memberView) Create(_ context.Context, mem *model.Member) error {
	return m.v.do(func(st *state) error {
		if _, ok := st.members[mem.MembershipNumber]; ok {
			return memberrepo.ErrDuplicate
		}
		for _, x := range st.members {
			if x.NationalID == mem.NationalID {
				return memberrepo.ErrDuplicate
			}
		}
		mem.CreatedAt = now()
		st.members[mem.MembershipNumber] = *mem
		return nil
	})
}

func (m memberView) UpdateDates(_ context.Context, number int64, start, end time.Time) error {
	return m.v.do(func(st *state) error {
		x, ok := st.members[number]
		if !ok {
			return memberrepo.ErrNotFound
		}
		x.StartDate, x.EndDate = start, end
		st.members[number] = x
		return nil
	})
}

func (m memberView) Remove(_ context.Context, number int64) error {
	return m.v.do(func(st *state) error {
		if _, ok := st.members[number]; !ok {
			return memberrepo.ErrNotFound
		}
		delete(st.members, number)
		for i := range st.users {
			if n := st.users[i].MembershipNumber; n != nil && *n == number {
				st.users[i].MembershipNumber = nil
			}
		}
		return nil
	})
}

func (m memberView) List(_ context.Context) (out []model.Member, err error) {
	err = m.v.do(func(st *state) error {
		for _, x := range st.members {
			out = append(out, x)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].MembershipNumber < out[j].MembershipNumber })
	return out, err
}

// sequences

type seqView struct{ v *view }

func (s seqView) NextID(_ context.Context, class model.SequenceClass) (id int64, err error) {
	err = s.v.do(func(st *state) error {
		last, ok := st.seq[class]
		if !ok {
			last = st.maxID(class)
		}
		id = last + 1
		st.seq[class] = id
		return nil
	})
	return id, err
}

func (st *state) maxID(class model.SequenceClass) int64 {
	var max int64
	switch class {
	case model.SequenceMembership:
		for n := range st.members {
			if n > max {
				max = n
			}
		}
	default:
		for _, it := range st.items {
			if it.Type.SequenceClass() == class && it.SerialNumber > max {
				max = it.SerialNumber
			}
		}
	}
	return max
}

// users

type userView struct{ v *view }

func (u userView) Create(_ context.Context, usr *model.User) error {
	return u.v.do(func(st *state) error {
		for _, x := range st.users {
			if strings.EqualFold(x.Username, usr.Username) {
				return auth.ErrUsernameTaken
			}
		}
		st.nextUser++
		usr.ID = st.nextUser
		usr.CreatedAt = now()
		st.users = append(st.users, *usr)
		return nil
	})
}

func (u userView) ByUsername(_ context.Context, username string) (out *model.User, err error) {
	err = u.v.do(func(st *state) error {
		for _, x := range st.users {
			if strings.EqualFold(x.Username, username) {
				out = &x
				return nil
			}
		}
		return nil
	})
	return out, err
}
