package orchestrators

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"glow/internal/adapters/storage/devicepref"
	"glow/internal/domain/user"
)

// DevicePrefStore defines the device preference interface needed by the
// onboarding orchestrators.
type DevicePrefStore interface {
	Get(ctx context.Context, deviceKey, prefKey string) (string, error)
	Set(ctx context.Context, deviceKey, prefKey, value string) error
}

// StageProfileInput carries input for staging a pre-signup skin profile.
type StageProfileInput struct {
	DeviceKey    string
	SkinType     string
	SkinConcerns []string
}

// OnboardingDeps holds dependencies for the onboarding orchestrators.
type OnboardingDeps struct {
	DevicePrefs DevicePrefStore
}

// ExecuteStageProfile stores the skin profile captured during onboarding,
// keyed by device, so it can be applied when the account is created.
// PRE: DeviceKey is non-empty; SkinType is empty or valid
// POST: Pending profile stored for the device
func ExecuteStageProfile(ctx context.Context, input StageProfileInput, deps OnboardingDeps) error {
	if input.DeviceKey == "" {
		return errors.New("device key cannot be empty")
	}

	if input.SkinType != "" && !validSkinType(input.SkinType) {
		return user.ErrInvalidSkinType
	}

	profile := user.SkinProfile{
		SkinType:     input.SkinType,
		SkinConcerns: input.SkinConcerns,
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	if err := deps.DevicePrefs.Set(ctx, input.DeviceKey, devicepref.KeyPendingProfile, string(raw)); err != nil {
		return err
	}

	slog.Info("profile_staged", "skin_type", input.SkinType)
	return nil
}

// ExecuteCompleteOnboarding marks onboarding done for a device so the
// client skips the intro screens on later launches.
// PRE: DeviceKey is non-empty
// POST: Completion flag stored for the device
func ExecuteCompleteOnboarding(ctx context.Context, deviceKey string, deps OnboardingDeps) error {
	if deviceKey == "" {
		return errors.New("device key cannot be empty")
	}
	return deps.DevicePrefs.Set(ctx, deviceKey, devicepref.KeyOnboardingDone, "true")
}

// ExecuteOnboardingStatus reports whether a device finished onboarding.
// PRE: DeviceKey is non-empty
// POST: Returns true only when the completion flag is set
func ExecuteOnboardingStatus(ctx context.Context, deviceKey string, deps OnboardingDeps) (bool, error) {
	if deviceKey == "" {
		return false, errors.New("device key cannot be empty")
	}
	v, err := deps.DevicePrefs.Get(ctx, deviceKey, devicepref.KeyOnboardingDone)
	if err != nil {
		if errors.Is(err, devicepref.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return v == "true", nil
}

func validSkinType(t string) bool {
	for _, v := range user.ValidSkinTypes {
		if t == v {
			return true
		}
	}
	return false
}
