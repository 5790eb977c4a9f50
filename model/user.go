package model

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID               int64     `json:"id"`
	Username         string    `json:"username"`
	PasswordHash     string    `json:"-"`
	Role             string    `json:"role"`
	MembershipNumber *int64    `json:"membership_number,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// RegisterReq represents user registration payload
// swagger:model RegisterReq
type RegisterReq struct {
	Username         string `json:"username" validate:"required,min=3"`
	Password         string `json:"password" validate:"required,min=6"`
	MembershipNumber int64  `json:"membershipNumber" validate:"required,gt=0"`
}

// LoginReq represents login payload
// swagger:model LoginReq
type LoginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
