// model/member.go
package model

import (
	"time"
)

type MembershipTier string

const (
	TierSixMonths MembershipTier = "Six Months"
	TierOneYear   MembershipTier = "One Year"
	TierTwoYears  MembershipTier = "Two Years"
)

func (t MembershipTier) Valid() bool {
	switch t {
	case TierSixMonths, TierOneYear, TierTwoYears:
		return true
	}
	return false
}

// Extend adds the tier's period to end using calendar arithmetic.
func (t MembershipTier) Extend(end time.Time) (time.Time, bool) {
	switch t {
	case TierSixMonths:
		return end.AddDate(0, 6, 0), true
	case TierOneYear:
		return end.AddDate(1, 0, 0), true
	case TierTwoYears:
		return end.AddDate(2, 0, 0), true
	}
	return end, false
}

type Member struct {
	MembershipNumber int64          `json:"membership_number"`
	NationalID       string         `json:"aadhar_card_no"`
	FirstName        string         `json:"first_name"`
	LastName         string         `json:"last_name"`
	ContactName      string         `json:"contact_name"`
	ContactAddress   string         `json:"contact_address"`
	StartDate        time.Time      `json:"start_date"`
	EndDate          time.Time      `json:"end_date"`
	Tier             MembershipTier `json:"membership_type"`
	CreatedAt        time.Time      `json:"created_at"`
}

// IsActive reports whether the membership end date has not passed as of asOf.
// Only the calendar day is compared.
func (m Member) IsActive(asOf time.Time) bool {
	end := time.Date(m.EndDate.Year(), m.EndDate.Month(), m.EndDate.Day(), 0, 0, 0, 0, time.UTC)
	now := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	return !end.Before(now)
}

func (m Member) FullName() string { return m.FirstName + " " + m.LastName }
