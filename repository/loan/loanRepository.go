// repository/loan/loanRepository.go
package loanrepo

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Rahulstark2/librarymanagement/model"
	"github.com/Rahulstark2/librarymanagement/util/database"
)

var (
	ErrAlreadyIssued = errors.New("item already has an issued loan")
	ErrNotIssued     = errors.New("loan is not issued")
)

// IssuedRow is an issued loan joined with its catalog item, as shown by the
// active issues report.
type IssuedRow struct {
	LoanID       uuid.UUID      `json:"loan_id"`
	ItemID       uuid.UUID      `json:"item_id"`
	ItemType     model.ItemType `json:"item_type"`
	ItemName     string         `json:"item_name"`
	Creator      string         `json:"creator"`
	SerialNumber int64          `json:"serial_number"`
	Borrower     string         `json:"borrower"`
	IssueDate    time.Time      `json:"issue_date"`
	ReturnDate   time.Time      `json:"return_date"`
}

// IssuedFilter narrows ListIssued. Zero fields do not filter.
type IssuedFilter struct {
	DueBefore time.Time
	Borrower  string
}

type Repo interface {
	Insert(ctx context.Context, l *model.Loan) error
	// FindIssuedByItem locks the item's issued loan, if any.
	FindIssuedByItem(ctx context.Context, itemID uuid.UUID) (*model.Loan, error)
	FindIssued(ctx context.Context, itemID uuid.UUID, borrower string) (*model.Loan, error)
	// Close marks an issued loan returned on returnDate.
	Close(ctx context.Context, id uuid.UUID, returnDate time.Time, remarks string, at time.Time) error
	ListIssued(ctx context.Context, f IssuedFilter) ([]IssuedRow, error)
	ListByBorrower(ctx context.Context, borrower string) ([]model.Loan, error)
}

var dialect = goqu.Dialect("postgres")

const selectCols = `id, item_id, item_type, borrower, issue_date, return_date, remarks, status, created_at, returned_at`

type repo struct{ q database.Querier }

func New(q database.Querier) Repo { return &repo{q: q} }

func scanLoan(row pgx.Row) (*model.Loan, error) {
	var l model.Loan
	if err := row.Scan(
		&l.ID, &l.ItemID, &l.ItemType, &l.Borrower, &l.IssueDate,
		&l.ReturnDate, &l.Remarks, &l.Status, &l.CreatedAt, &l.ReturnedAt,
	); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repo) Insert(ctx context.Context, l *model.Loan) error {
	const q = `
		INSERT INTO loans (id, item_id, item_type, borrower, issue_date, return_date, remarks, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'issued')
		RETURNING created_at`
	err := r.q.QueryRow(ctx, q,
		l.ID, l.ItemID, l.ItemType, l.Borrower, l.IssueDate, l.ReturnDate, l.Remarks,
	).Scan(&l.CreatedAt)
	if _, dup := database.UniqueViolation(err); dup {
		return ErrAlreadyIssued
	}
	if err != nil {
		return err
	}
	l.Status = model.LoanIssued
	return nil
}

func (r *repo) FindIssuedByItem(ctx context.Context, itemID uuid.UUID) (*model.Loan, error) {
	const q = `
		SELECT ` + selectCols + `
		FROM loans
		WHERE item_id = $1
		AND status = 'issued'
		FOR UPDATE`
	l, err := scanLoan(r.q.QueryRow(ctx, q, itemID))
	if database.NoRows(err) {
		return nil, nil
	}
	return l, err
}

func (r *repo) FindIssued(ctx context.Context, itemID uuid.UUID, borrower string) (*model.Loan, error) {
	const q = `
		SELECT ` + selectCols + `
		FROM loans
		WHERE item_id = $1
		AND borrower = $2
		AND status = 'issued'
		FOR UPDATE`
	l, err := scanLoan(r.q.QueryRow(ctx, q, itemID, borrower))
	if database.NoRows(err) {
		return nil, nil
	}
	return l, err
}

func (r *repo) Close(ctx context.Context, id uuid.UUID, returnDate time.Time, remarks string, at time.Time) error {
	const q = `
		UPDATE loans
		SET status = 'returned',
			return_date = $2,
			remarks = $3,
			returned_at = $4
		WHERE id = $1
		AND status = 'issued'`
	tag, err := r.q.Exec(ctx, q, id, returnDate, remarks, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotIssued
	}
	return nil
}

func (r *repo) ListIssued(ctx context.Context, f IssuedFilter) ([]IssuedRow, error) {
	sql, args, err := BuildIssuedQuery(f)
	if err != nil {
		return nil, err
	}
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []IssuedRow
	for rows.Next() {
		var h IssuedRow
		if err := rows.Scan(
			&h.LoanID, &h.ItemID, &h.ItemType, &h.ItemName, &h.Creator,
			&h.SerialNumber, &h.Borrower, &h.IssueDate, &h.ReturnDate,
		); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// BuildIssuedQuery joins issued loans with their items, earliest due first.
func BuildIssuedQuery(f IssuedFilter) (string, []interface{}, error) {
	ds := dialect.From(goqu.T("loans").As("l")).Prepared(true).
		Join(goqu.T("catalog_items").As("c"), goqu.On(goqu.I("c.id").Eq(goqu.I("l.item_id")))).
		Select(
			goqu.I("l.id"), goqu.I("l.item_id"), goqu.I("l.item_type"),
			goqu.I("c.name"), goqu.I("c.creator"), goqu.I("c.serial_number"),
			goqu.I("l.borrower"), goqu.I("l.issue_date"), goqu.I("l.return_date"),
		).
		Where(goqu.I("l.status").Eq(string(model.LoanIssued)))
	if !f.DueBefore.IsZero() {
		ds = ds.Where(goqu.I("l.return_date").Lt(f.DueBefore))
	}
	if f.Borrower != "" {
		ds = ds.Where(goqu.I("l.borrower").Eq(f.Borrower))
	}
	return ds.Order(goqu.I("l.return_date").Asc(), goqu.I("l.created_at").Asc()).ToSQL()
}

func (r *repo) ListByBorrower(ctx context.Context, borrower string) ([]model.Loan, error) {
	const q = `
		SELECT ` + selectCols + `
		FROM loans
		WHERE borrower = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := r.q.Query(ctx, q, borrower)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}
