package membership

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/Rahulstark2/librarymanagement/model"
	"github.com/Rahulstark2/librarymanagement/repository"
	memberrepo "github.com/Rahulstark2/librarymanagement/repository/member"
	"github.com/Rahulstark2/librarymanagement/service/svcerr"
	"github.com/Rahulstark2/librarymanagement/util/dates"
)

type AddInput struct {
	NationalID     string
	FirstName      string
	LastName       string
	ContactName    string
	ContactAddress string
	StartDate      time.Time
	EndDate        time.Time
	Tier           model.MembershipTier
}

type UpdateInput struct {
	MembershipNumber int64
	StartDate        time.Time
	EndDate          time.Time
	// Extension is applied to the end date after it is overwritten.
	Extension model.MembershipTier
	Remove    bool
}

type UpdateResult struct {
	Member  *model.Member
	Removed bool
}

type Service interface {
	Add(ctx context.Context, in AddInput) (*model.Member, error)
	Update(ctx context.Context, in UpdateInput) (*UpdateResult, error)
}

type service struct{ store repository.Store }

func New(store repository.Store) Service { return &service{store: store} }

func (s *service) Add(ctx context.Context, in AddInput) (*model.Member, error) {
	in.StartDate, in.EndDate = dates.Day(in.StartDate), dates.Day(in.EndDate)
	if err := validateAdd(in); err != nil {
		return nil, err
	}

	m := &model.Member{
		NationalID:     strings.TrimSpace(in.NationalID),
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		ContactName:    strings.TrimSpace(in.ContactName),
		ContactAddress: strings.TrimSpace(in.ContactAddress),
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		Tier:           in.Tier,
	}
	err := s.store.RunInTx(ctx, func(tx repository.Tx) error {
		existing, err := tx.Members().FindByNationalID(ctx, m.NationalID)
		if err != nil {
			return errors.Wrap(err, "find membership")
		}
		if existing != nil {
			return svcerr.New(svcerr.ErrDuplicateMember, "a membership with this Aadhar card number already exists")
		}

		if m.MembershipNumber, err = tx.Sequences().NextID(ctx, model.SequenceMembership); err != nil {
			return errors.Wrap(err, "allocate membership number")
		}
		if err := tx.Members().Create(ctx, m); err != nil {
			if errors.Is(err, memberrepo.ErrDuplicate) {
				return svcerr.New(svcerr.ErrDuplicateMember, "membership already exists")
			}
			return errors.Wrap(err, "create membership")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func validateAdd(in AddInput) error {
	var fields []svcerr.FieldError
	required := map[string]string{
		"aadharCardNo":   in.NationalID,
		"firstName":      in.FirstName,
		"lastName":       in.LastName,
		"contactName":    in.ContactName,
		"contactAddress": in.ContactAddress,
	}
	for _, f := range []string{"aadharCardNo", "firstName", "lastName", "contactName", "contactAddress"} {
		if strings.TrimSpace(required[f]) == "" {
			fields = append(fields, svcerr.FieldError{Field: f, Rule: "required"})
		}
	}
	if in.StartDate.IsZero() {
		fields = append(fields, svcerr.FieldError{Field: "startDate", Rule: "required"})
	}
	if in.EndDate.IsZero() {
		fields = append(fields, svcerr.FieldError{Field: "endDate", Rule: "required"})
	} else if in.EndDate.Before(in.StartDate) {
		fields = append(fields, svcerr.FieldError{Field: "endDate", Rule: "gtefield"})
	}
	if !in.Tier.Valid() {
		fields = append(fields, svcerr.FieldError{Field: "membershipType", Rule: "oneof"})
	}
	if len(fields) > 0 {
		return svcerr.Invalid("invalid membership", fields...)
	}
	return nil
}

func (s *service) Update(ctx context.Context, in UpdateInput) (*UpdateResult, error) {
	in.StartDate, in.EndDate = dates.Day(in.StartDate), dates.Day(in.EndDate)
	var fields []svcerr.FieldError
	if in.MembershipNumber <= 0 {
		fields = append(fields, svcerr.FieldError{Field: "membershipNumber", Rule: "gt"})
	}
	if in.StartDate.IsZero() {
		fields = append(fields, svcerr.FieldError{Field: "startDate", Rule: "required"})
	}
	if in.EndDate.IsZero() {
		fields = append(fields, svcerr.FieldError{Field: "endDate", Rule: "required"})
	} else if in.EndDate.Before(in.StartDate) {
		fields = append(fields, svcerr.FieldError{Field: "endDate", Rule: "gtefield"})
	}
	if in.Extension != "" && !in.Extension.Valid() {
		fields = append(fields, svcerr.FieldError{Field: "membershipExtension", Rule: "oneof"})
	}
	if len(fields) > 0 {
		return nil, svcerr.Invalid("invalid membership update", fields...)
	}

	res := &UpdateResult{}
	err := s.store.RunInTx(ctx, func(tx repository.Tx) error {
		m, err := tx.Members().FindByNumber(ctx, in.MembershipNumber)
		if err != nil {
			return errors.Wrap(err, "find membership")
		}
		if m == nil {
			return svcerr.Newf(svcerr.ErrMemberNotFound, "membership %d not found", in.MembershipNumber)
		}

		if in.Remove {
			res.Removed = true
			return errors.Wrap(tx.Members().Remove(ctx, m.MembershipNumber), "remove membership")
		}

		m.StartDate, m.EndDate = in.StartDate, in.EndDate
		if in.Extension != "" {
			m.EndDate, _ = in.Extension.Extend(m.EndDate)
		}
		if err := tx.Members().UpdateDates(ctx, m.MembershipNumber, m.StartDate, m.EndDate); err != nil {
			return errors.Wrap(err, "update membership")
		}
		res.Member = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
