package orchestrators

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	emailAdapter "glow/internal/adapters/email"
	"glow/internal/adapters/storage/devicepref"
	"glow/internal/domain/account"
	"glow/internal/domain/user"
)

// UserStoreForRegister defines the user store interface needed by RegisterUser.
type UserStoreForRegister interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	Save(ctx context.Context, u user.User) error
}

// DevicePrefsForRegister defines the device preference access needed by RegisterUser.
type DevicePrefsForRegister interface {
	Get(ctx context.Context, deviceKey, prefKey string) (string, error)
	Delete(ctx context.Context, deviceKey, prefKey string) error
}

// RegisterUserInput carries input for the orchestrator. DeviceKey is
// optional; when present, a skin profile staged during onboarding before
// the account existed is applied and cleared.
type RegisterUserInput struct {
	Email     string
	Password  string
	DeviceKey string
}

// RegisterUserDeps holds dependencies for RegisterUser.
type RegisterUserDeps struct {
	AccountStore AccountStoreForCreate
	UserStore    UserStoreForRegister
	DevicePrefs  DevicePrefsForRegister
	EmailSender  emailAdapter.Sender
	Now          func() time.Time
}

// RegisterUserResult carries the result of a successful registration.
type RegisterUserResult struct {
	AccountID string
	Email     string
	SkinType  string
}

// ExecuteRegisterUser creates an account and its public profile row in one
// flow. The profile row must exist before routines or shelf items can
// reference the user. If account creation succeeds but the profile save
// fails, the registration is reported as failed so the client retries;
// the retry path tolerates the existing account.
// PRE: Valid email and password
// POST: Account and users row exist; pending device profile applied and cleared
func ExecuteRegisterUser(ctx context.Context, input RegisterUserInput, deps RegisterUserDeps) (RegisterUserResult, error) {
	accountID, err := ExecuteCreateAccount(ctx, CreateAccountInput{
		Email:    input.Email,
		Password: input.Password,
		Role:     account.RoleUser,
	}, CreateAccountDeps{AccountStore: deps.AccountStore})
	if err != nil {
		return RegisterUserResult{}, err
	}

	now := deps.Now()
	u := user.User{
		ID:           accountID,
		Email:        input.Email,
		SkinConcerns: []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Apply any skin profile staged on the device before sign-up
	if input.DeviceKey != "" && deps.DevicePrefs != nil {
		if profile, ok := pendingProfile(ctx, deps.DevicePrefs, input.DeviceKey); ok {
			u.ApplyProfile(profile, now)
		}
	}

	if err := u.Validate(); err != nil {
		return RegisterUserResult{}, err
	}
	if err := deps.UserStore.Save(ctx, u); err != nil {
		return RegisterUserResult{}, fmt.Errorf("save user profile: %w", err)
	}

	// Clear the staged profile only after the row is durably applied
	if input.DeviceKey != "" && deps.DevicePrefs != nil {
		if err := deps.DevicePrefs.Delete(ctx, input.DeviceKey, devicepref.KeyPendingProfile); err != nil {
			slog.Warn("pending_profile_clear_failed", "error", err)
		}
	}

	// Welcome email is best effort; registration never fails on send errors
	if deps.EmailSender != nil {
		if _, err := deps.EmailSender.Send(ctx, welcomeEmail(input.Email)); err != nil {
			slog.Warn("welcome_email_failed", "email", input.Email, "error", err)
		}
	}

	slog.Info("auth_event", "event", "user_registered", "email", input.Email, "skin_type", u.SkinType)

	return RegisterUserResult{
		AccountID: accountID,
		Email:     input.Email,
		SkinType:  u.SkinType,
	}, nil
}

func pendingProfile(ctx context.Context, prefs DevicePrefsForRegister, deviceKey string) (user.SkinProfile, bool) {
	raw, err := prefs.Get(ctx, deviceKey, devicepref.KeyPendingProfile)
	if err != nil {
		return user.SkinProfile{}, false
	}
	var profile user.SkinProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		slog.Warn("pending_profile_malformed", "error", err)
		return user.SkinProfile{}, false
	}
	return profile, true
}

func welcomeEmail(to string) emailAdapter.SendRequest {
	return emailAdapter.SendRequest{
		To:      []string{to},
		Subject: "Welcome to Glow",
		HTML: `<p>Welcome to Glow!</p>
<p>Your skincare shelf is ready. Add the products you use, build your morning
and evening routines, and check off each step as you go.</p>
<p>Consistency is everything. See you tomorrow morning.</p>`,
	}
}
