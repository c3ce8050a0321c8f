package auth

import (
	"testing"
	"time"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewJWTManager("dashboard-secret", time.Hour)

	token, expiresAt, err := m.GenerateToken("admin")
	if err != nil {
		t.Fatal(err)
	}
	if token == "" {
		t.Fatal("empty token")
	}
	if until := time.Until(expiresAt); until < 59*time.Minute || until > 61*time.Minute {
		t.Errorf("expiresAt %v from now, want about an hour", until)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != "admin" {
		t.Errorf("UserID = %q, want admin", claims.UserID)
	}
}

func TestValidateRejectsBadTokens(t *testing.T) {
	m := NewJWTManager("dashboard-secret", time.Hour)

	expired, _, err := NewJWTManager("dashboard-secret", -time.Hour).GenerateToken("admin")
	if err != nil {
		t.Fatal(err)
	}
	foreign, _, err := NewJWTManager("other-secret", time.Hour).GenerateToken("admin")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expired},
		{"wrong signature", foreign},
		{"malformed", "not-a-token"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.ValidateToken(tt.token); err == nil {
				t.Error("want error")
			}
		})
	}
}
