package devicepref

import (
	"context"
	"errors"
)

// Known preference keys. Values are opaque strings; the onboarding flow
// stages a pending skin profile here before an account exists.
const (
	KeyOnboardingDone = "onboarding_complete"
	KeyPendingProfile = "pending_profile"
	KeyTheme          = "theme"
)

// Store persists per-device preferences keyed by an opaque device key.
type Store interface {
	Get(ctx context.Context, deviceKey, prefKey string) (string, error)
	GetAll(ctx context.Context, deviceKey string) (map[string]string, error)
	Set(ctx context.Context, deviceKey, prefKey, value string) error
	Delete(ctx context.Context, deviceKey, prefKey string) error
}

// ErrNotFound is returned by Get when the preference is unset.
var ErrNotFound = errors.New("device preference not set")
