package user

import "time"

type MembershipType string

const (
	MembershipUnlimited   MembershipType = "unlimited"
	MembershipThreeWeekly MembershipType = "3_times_weekly"
	MembershipTwoWeekly   MembershipType = "2_times_weekly"
	MembershipNone        MembershipType = "none"
)

type User struct {
	ID               int            `db:"id" json:"id"`
	Email            string         `db:"email" json:"email"`
	FullName         string         `db:"full_name" json:"full_name"`
	PasswordHash     string         `db:"password_hash" json:"-"`
	CreditsRemaining int            `db:"credits_remaining" json:"credits_remaining"`
	MembershipType   MembershipType `db:"membership_type" json:"membership_type"`
	Role             string         `db:"role" json:"role"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// CanBook reports whether the member may reserve a class: unlimited
// memberships always qualify, everyone else needs at least one credit.
// Pure check over already-fetched state, no I/O.
func (u *User) CanBook() bool {
	return u.MembershipType == MembershipUnlimited || u.CreditsRemaining > 0
}

// ConsumesCredit reports whether a successful booking debits a credit.
func (u *User) ConsumesCredit() bool {
	return u.MembershipType != MembershipUnlimited
}

func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

type RegisterRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

type UpdateCreditsRequest struct {
	CreditsRemaining int `json:"credits_remaining" binding:"min=0"`
}
