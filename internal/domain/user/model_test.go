package user_test

import (
	"reflect"
	"testing"
	"time"

	"glow/internal/domain/user"
)

// TestUser_Validate tests validation of User.
func TestUser_Validate(t *testing.T) {
	tests := []struct {
		name    string
		u       user.User
		wantErr bool
	}{
		{"valid", user.User{ID: "u1", Email: "a@b.com"}, false},
		{"valid with skin type", user.User{ID: "u2", Email: "a@b.com", SkinType: user.SkinTypeOily}, false},
		{"missing id", user.User{Email: "a@b.com"}, true},
		{"bad email", user.User{ID: "u3", Email: "nope"}, true},
		{"unknown skin type", user.User{ID: "u4", Email: "a@b.com", SkinType: "glassy"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.u.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("User.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestUser_ApplyProfile verifies profile application and concern defaulting.
func TestUser_ApplyProfile(t *testing.T) {
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	u := user.User{ID: "u1", Email: "a@b.com"}

	u.ApplyProfile(user.SkinProfile{SkinType: user.SkinTypeDry, SkinConcerns: []string{"acne", "redness"}}, now)
	if u.SkinType != user.SkinTypeDry {
		t.Errorf("SkinType = %q, want %q", u.SkinType, user.SkinTypeDry)
	}
	if !reflect.DeepEqual(u.SkinConcerns, []string{"acne", "redness"}) {
		t.Errorf("SkinConcerns = %v", u.SkinConcerns)
	}
	if !u.UpdatedAt.Equal(now) {
		t.Errorf("UpdatedAt = %v, want %v", u.UpdatedAt, now)
	}

	// nil concerns normalise to an empty list, never nil.
	u.ApplyProfile(user.SkinProfile{}, now)
	if u.SkinConcerns == nil || len(u.SkinConcerns) != 0 {
		t.Errorf("SkinConcerns after nil profile = %v, want []", u.SkinConcerns)
	}
}
