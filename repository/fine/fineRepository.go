package finerepo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/Rahulstark2/librarymanagement/model"
	"github.com/Rahulstark2/librarymanagement/util/database"
)

// Repo is the append-only fine ledger.
type Repo interface {
	Insert(ctx context.Context, f *model.FineRecord) error
	List(ctx context.Context) ([]model.FineRecord, error)
	ListByBorrower(ctx context.Context, borrower string) ([]model.FineRecord, error)
}

const selectCols = `id, loan_id, item_type, item_name, creator_name, serial_number, borrower,
issue_date, return_date, actual_return_date, fine, paid, remarks, created_at`

type repo struct{ q database.Querier }

func New(q database.Querier) Repo { return &repo{q} }

func (r *repo) Insert(ctx context.Context, f *model.FineRecord) error {
	const q = `
INSERT INTO fines (id, loan_id, item_type, item_name, creator_name, serial_number, borrower,
	issue_date, return_date, actual_return_date, fine, paid, remarks)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
RETURNING created_at`
	return r.q.QueryRow(ctx, q,
		f.ID, f.LoanID, f.ItemType, f.ItemName, f.CreatorName, f.SerialNumber, f.Borrower,
		f.IssueDate, f.ReturnDate, f.ActualReturnDate, f.Fine, f.Paid, f.Remarks,
	).Scan(&f.CreatedAt)
}

func (r *repo) List(ctx context.Context) ([]model.FineRecord, error) {
	const q = `
SELECT ` + selectCols + `
FROM fines
ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *repo) ListByBorrower(ctx context.Context, borrower string) ([]model.FineRecord, error) {
	const q = `
SELECT ` + selectCols + `
FROM fines
WHERE borrower=$1
ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, q, borrower)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func collect(rows pgx.Rows) ([]model.FineRecord, error) {
	defer rows.Close()

	var out []model.FineRecord
	for rows.Next() {
		var f model.FineRecord
		if err := rows.Scan(
			&f.ID, &f.LoanID, &f.ItemType, &f.ItemName, &f.CreatorName, &f.SerialNumber, &f.Borrower,
			&f.IssueDate, &f.ReturnDate, &f.ActualReturnDate, &f.Fine, &f.Paid, &f.Remarks, &f.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
