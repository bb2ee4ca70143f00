package user

import (
	"errors"
	"strings"
	"time"
)

// Skin type constants. Empty means the user has not set one.
const (
	SkinTypeDry         = "dry"
	SkinTypeOily        = "oily"
	SkinTypeCombination = "combination"
	SkinTypeNormal      = "normal"
	SkinTypeSensitive   = "sensitive"
)

// ValidSkinTypes contains all valid skin type values.
var ValidSkinTypes = []string{
	SkinTypeDry, SkinTypeOily, SkinTypeCombination, SkinTypeNormal, SkinTypeSensitive,
}

// Domain errors
var (
	ErrEmptyID         = errors.New("user ID is required")
	ErrInvalidEmail    = errors.New("user email must contain '@'")
	ErrInvalidSkinType = errors.New("unknown skin type")
)

// User is the public profile row for an account. Routines and shelf items
// reference it by ID, so it must exist before any routine is created.
type User struct {
	ID           string
	Email        string
	SkinType     string
	SkinConcerns []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate checks if the User has valid data.
// PRE: User struct is populated
// POST: Returns nil if valid, error otherwise
func (u *User) Validate() error {
	if u.ID == "" {
		return ErrEmptyID
	}
	if !strings.Contains(u.Email, "@") {
		return ErrInvalidEmail
	}
	if u.SkinType != "" && !isValidSkinType(u.SkinType) {
		return ErrInvalidSkinType
	}
	return nil
}

// SkinProfile is the subset of the user captured during onboarding.
type SkinProfile struct {
	SkinType     string
	SkinConcerns []string
}

// ApplyProfile sets the skin profile fields and refreshes UpdatedAt.
// PRE: profile.SkinType is empty or valid
// POST: SkinType and SkinConcerns replaced; UpdatedAt set to now
func (u *User) ApplyProfile(profile SkinProfile, now time.Time) {
	u.SkinType = profile.SkinType
	if profile.SkinConcerns == nil {
		u.SkinConcerns = []string{}
	} else {
		u.SkinConcerns = profile.SkinConcerns
	}
	u.UpdatedAt = now
}

func isValidSkinType(t string) bool {
	for _, v := range ValidSkinTypes {
		if t == v {
			return true
		}
	}
	return false
}
