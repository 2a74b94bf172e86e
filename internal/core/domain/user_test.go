package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		role     Role
		want     []string
	}{
		{"valid", "alice", "pw12", RoleUser, nil},
		{"every field", "", "x", "OWNER", []string{
			"username is required",
			"password must be at least 4 characters",
			"role must be one of: ADMIN USER",
		}},
		{"empty password", "alice", "", RoleAdmin, []string{"password is required"}},
		{"multibyte minimum", "alice", "éééé", RoleUser, nil},
		{"byte limit", "alice", strings.Repeat("a", 72), RoleUser, nil},
		{"over byte limit", "alice", strings.Repeat("é", 37), RoleUser, []string{"password must be at most 72 bytes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegistration(tt.username, tt.password, tt.role)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(verr.Violations) != len(tt.want) {
				t.Fatalf("expected %d violations, got %+v", len(tt.want), verr.Violations)
			}
			for i, msg := range tt.want {
				if verr.Violations[i].Message != msg {
					t.Errorf("violation %d: expected %q, got %q", i, msg, verr.Violations[i].Message)
				}
			}
		})
	}
}

func TestIdentityHasRole(t *testing.T) {
	admin := Identity{Username: "root", Role: RoleAdmin}
	if !admin.HasRole(RoleAdmin) {
		t.Error("expected ADMIN identity to have ADMIN")
	}
	if admin.HasRole(RoleUser) {
		t.Error("roles are not hierarchical")
	}
}
