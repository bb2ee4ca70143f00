package web

import (
	"database/sql"
	"errors"
	"net/http"

	"glow/internal/application/orchestrators"
	"glow/internal/domain/user"
)

// handleGetProfile returns the signed-in user's skin profile. A missing
// profile row is reported as a blank profile, not an error, so clients
// right after registration see a consistent shape.
func handleGetProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	u, err := stores.UserStore.GetByID(r.Context(), sess.AccountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusOK, toProfileView(user.User{
				ID:           sess.AccountID,
				Email:        sess.Email,
				SkinConcerns: []string{},
			}))
			return
		}
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileView(u))
}

// handleUpdateProfile replaces the skin type and concern list.
func handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input struct {
		SkinType     string   `json:"skin_type"`
		SkinConcerns []string `json:"skin_concerns"`
	}
	if err := strictDecode(r, &input); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := orchestrators.ExecuteUpdateProfile(r.Context(), orchestrators.UpdateProfileInput{
		UserID:       sess.AccountID,
		Email:        sess.Email,
		SkinType:     input.SkinType,
		SkinConcerns: input.SkinConcerns,
	}, orchestrators.UpdateProfileDeps{
		UserStore: stores.UserStore,
		Now:       timeNow,
	})
	if err != nil {
		if errors.Is(err, user.ErrInvalidSkinType) {
			errorJSON(w, http.StatusBadRequest, err.Error())
			return
		}
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileView(u))
}

// handleOnboardingStatus reports whether this device finished onboarding.
// Pre-auth: identified by the device key header, not a session.
func handleOnboardingStatus(w http.ResponseWriter, r *http.Request) {
	key := deviceKey(r)
	if key == "" {
		errorJSON(w, http.StatusBadRequest, "device key required")
		return
	}

	done, err := orchestrators.ExecuteOnboardingStatus(r.Context(), key, orchestrators.OnboardingDeps{
		DevicePrefs: stores.DevicePrefStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"onboarding_complete": done})
}

// handleOnboardingProfile stages a skin profile for the device so it can
// be applied when the account is created.
func handleOnboardingProfile(w http.ResponseWriter, r *http.Request) {
	key := deviceKey(r)
	if key == "" {
		errorJSON(w, http.StatusBadRequest, "device key required")
		return
	}

	var input struct {
		SkinType     string   `json:"skin_type"`
		SkinConcerns []string `json:"skin_concerns"`
	}
	if err := strictDecode(r, &input); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := orchestrators.ExecuteStageProfile(r.Context(), orchestrators.StageProfileInput{
		DeviceKey:    key,
		SkinType:     input.SkinType,
		SkinConcerns: input.SkinConcerns,
	}, orchestrators.OnboardingDeps{DevicePrefs: stores.DevicePrefStore})
	if err != nil {
		if errors.Is(err, user.ErrInvalidSkinType) {
			errorJSON(w, http.StatusBadRequest, err.Error())
			return
		}
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "profile staged"})
}

// handleOnboardingComplete marks onboarding finished for the device.
func handleOnboardingComplete(w http.ResponseWriter, r *http.Request) {
	key := deviceKey(r)
	if key == "" {
		errorJSON(w, http.StatusBadRequest, "device key required")
		return
	}

	if err := orchestrators.ExecuteCompleteOnboarding(r.Context(), key, orchestrators.OnboardingDeps{
		DevicePrefs: stores.DevicePrefStore,
	}); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "onboarding complete"})
}
