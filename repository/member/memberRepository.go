package memberrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Rahulstark2/librarymanagement/model"
	"github.com/Rahulstark2/librarymanagement/util/database"
)

var (
	ErrDuplicate = errors.New("membership already exists")
	ErrNotFound  = errors.New("membership not found")
)

type Repo interface {
	FindByNumber(ctx context.Context, number int64) (*model.Member, error)
	FindByNationalID(ctx context.Context, nationalID string) (*model.Member, error)
	Create(ctx context.Context, m *model.Member) error
	UpdateDates(ctx context.Context, number int64, start, end time.Time) error
	Remove(ctx context.Context, number int64) error
	List(ctx context.Context) ([]model.Member, error)
}

const selectCols = `membership_number, aadhar_card_no, first_name, last_name, contact_name,
contact_address, start_date, end_date, membership_type, created_at`

type repo struct{ q database.Querier }

func New(q database.Querier) Repo { return &repo{q: q} }

func scanMember(row pgx.Row) (*model.Member, error) {
	var m model.Member
	if err := row.Scan(
		&m.MembershipNumber, &m.NationalID, &m.FirstName, &m.LastName, &m.ContactName,
		&m.ContactAddress, &m.StartDate, &m.EndDate, &m.Tier, &m.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repo) FindByNumber(ctx context.Context, number int64) (*model.Member, error) {
	m, err := scanMember(r.q.QueryRow(ctx, `
		SELECT `+selectCols+`
		FROM memberships
		WHERE membership_number = $1`, number))
	if database.NoRows(err) {
		return nil, nil
	}
	return m, err
}

func (r *repo) FindByNationalID(ctx context.Context, nationalID string) (*model.Member, error) {
	m, err := scanMember(r.q.QueryRow(ctx, `
		SELECT `+selectCols+`
		FROM memberships
		WHERE aadhar_card_no = $1`, nationalID))
	if database.NoRows(err) {
		return nil, nil
	}
	return m, err
}

func (r *repo) Create(ctx context.Context, m *model.Member) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO memberships (membership_number, aadhar_card_no, first_name, last_name,
			contact_name, contact_address, start_date, end_date, membership_type)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at`,
		m.MembershipNumber, m.NationalID, m.FirstName, m.LastName,
		m.ContactName, m.ContactAddress, m.StartDate, m.EndDate, m.Tier,
	).Scan(&m.CreatedAt)
	if _, dup := database.UniqueViolation(err); dup {
		return ErrDuplicate
	}
	return err
}

func (r *repo) UpdateDates(ctx context.Context, number int64, start, end time.Time) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE memberships
		SET start_date = $2, end_date = $3
		WHERE membership_number = $1`, number, start, end)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) Remove(ctx context.Context, number int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM memberships WHERE membership_number = $1`, number)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) List(ctx context.Context) ([]model.Member, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+selectCols+`
		FROM memberships
		ORDER BY membership_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}
