package account_test

import (
	"testing"
	"time"

	"glow/internal/domain/account"
)

// TestAccount_Validate tests validation of Account.
func TestAccount_Validate(t *testing.T) {
	tests := []struct {
		name    string
		a       account.Account
		wantErr bool
	}{
		{"valid user", account.Account{ID: "1", Email: "a@b.com", Role: account.RoleUser}, false},
		{"valid admin", account.Account{ID: "2", Email: "a@b.com", Role: account.RoleAdmin}, false},
		{"empty email", account.Account{ID: "3", Role: account.RoleUser}, true},
		{"bad email", account.Account{ID: "4", Email: "nope", Role: account.RoleUser}, true},
		{"bad role", account.Account{ID: "5", Email: "a@b.com", Role: "coach"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.a.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Account.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestAccount_PasswordRoundTrip verifies hashing and verification.
func TestAccount_PasswordRoundTrip(t *testing.T) {
	a := account.Account{ID: "1", Email: "a@b.com", Role: account.RoleUser}

	if err := a.SetPassword("short"); err != account.ErrPasswordTooShort {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}
	if err := a.SetPassword(""); err != account.ErrEmptyPassword {
		t.Errorf("expected ErrEmptyPassword, got %v", err)
	}

	if err := a.SetPassword("rosewater123"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	if a.PasswordHash == "" || a.PasswordHash == "rosewater123" {
		t.Error("password was not hashed")
	}
	if err := a.CheckPassword("rosewater123"); err != nil {
		t.Errorf("CheckPassword(correct) = %v", err)
	}
	if err := a.CheckPassword("wrong password"); err != account.ErrWrongPassword {
		t.Errorf("expected ErrWrongPassword, got %v", err)
	}
}

// TestAccount_Lockout verifies lock after 5 failed attempts and reset.
func TestAccount_Lockout(t *testing.T) {
	a := account.Account{ID: "1", Email: "a@b.com", Role: account.RoleUser}

	for i := 0; i < 4; i++ {
		a.RecordFailedLogin()
	}
	if a.IsLocked() {
		t.Error("account locked before 5th failure")
	}
	a.RecordFailedLogin()
	if !a.IsLocked() {
		t.Error("account not locked after 5 failures")
	}
	if time.Until(a.LockedUntil) <= 0 {
		t.Error("LockedUntil not in the future")
	}

	a.ResetFailedLogins()
	if a.IsLocked() || a.FailedLogins != 0 {
		t.Error("reset did not clear lock state")
	}
}
