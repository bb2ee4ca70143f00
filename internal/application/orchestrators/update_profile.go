package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"glow/internal/domain/user"
)

// UserStoreForProfile defines the user store interface needed by UpdateProfile.
type UserStoreForProfile interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	Save(ctx context.Context, u user.User) error
}

// UpdateProfileInput carries input for the orchestrator.
type UpdateProfileInput struct {
	UserID       string
	Email        string // used when the profile row has to be created
	SkinType     string
	SkinConcerns []string
}

// UpdateProfileDeps holds dependencies for UpdateProfile.
type UpdateProfileDeps struct {
	UserStore UserStoreForProfile
	Now       func() time.Time
}

// ExecuteUpdateProfile replaces the user's skin profile. A missing profile
// row is created first so the update works right after registration races.
// PRE: UserID is non-empty; SkinType is empty or valid
// POST: Profile row holds the new skin type and concerns
func ExecuteUpdateProfile(ctx context.Context, input UpdateProfileInput, deps UpdateProfileDeps) (user.User, error) {
	if input.UserID == "" {
		return user.User{}, errors.New("user ID cannot be empty")
	}

	now := deps.Now()
	u, err := deps.UserStore.GetByID(ctx, input.UserID)
	if err != nil {
		u = user.User{
			ID:        input.UserID,
			Email:     input.Email,
			CreatedAt: now,
		}
	}

	u.ApplyProfile(user.SkinProfile{
		SkinType:     input.SkinType,
		SkinConcerns: input.SkinConcerns,
	}, now)

	if err := u.Validate(); err != nil {
		return user.User{}, err
	}
	if err := deps.UserStore.Save(ctx, u); err != nil {
		return user.User{}, err
	}

	slog.Info("profile_updated", "user_id", input.UserID, "skin_type", input.SkinType)
	return u, nil
}
