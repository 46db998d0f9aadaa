package model

import (
	"time"

	"softdesk/internal/apperr"
)

// MinimumAge is the GDPR consent floor. Accounts below it are rejected on
// every persistence path.
const MinimumAge = 15

type User struct {
	ID              int64     `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	DateOfBirth     time.Time `json:"date_of_birth"`
	CanBeContacted  bool      `json:"can_be_contacted"`
	CanDataBeShared bool      `json:"can_data_be_shared"`
	CreatedAt       time.Time `json:"created_at"`
}

// Age computes full years elapsed since DateOfBirth, calendar-aware: the year
// difference drops by one when (month, day) of now precedes the birth
// (month, day). On the birthday itself the year counts.
func (u *User) Age(now time.Time) int {
	age := now.Year() - u.DateOfBirth.Year()
	nm, nd := now.Month(), now.Day()
	bm, bd := u.DateOfBirth.Month(), u.DateOfBirth.Day()
	if nm < bm || (nm == bm && nd < bd) {
		age--
	}
	return age
}

// Validate enforces the minimum-age rule relative to now.
func (u *User) Validate(now time.Time) error {
	if u.Username == "" {
		return apperr.Validation("username is required")
	}
	if u.DateOfBirth.IsZero() {
		return apperr.Validation("date_of_birth is required")
	}
	if u.Age(now) < MinimumAge {
		return apperr.Validation("user must be at least %d years old", MinimumAge)
	}
	return nil
}
