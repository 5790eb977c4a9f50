// model/loan.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type LoanStatus string

const (
	LoanIssued   LoanStatus = "issued"
	LoanReturned LoanStatus = "returned"
)

// Loan is an issue record. ReturnDate holds the due date while the loan is
// issued and the actual return date once it is returned.
type Loan struct {
	ID         uuid.UUID  `json:"id"`
	ItemID     uuid.UUID  `json:"item_id"`
	ItemType   ItemType   `json:"item_type"`
	Borrower   string     `json:"borrower"`
	IssueDate  time.Time  `json:"issue_date"`
	ReturnDate time.Time  `json:"return_date"`
	Remarks    string     `json:"remarks,omitempty"`
	Status     LoanStatus `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
}

func (l Loan) IsIssued() bool { return l.Status == LoanIssued }
