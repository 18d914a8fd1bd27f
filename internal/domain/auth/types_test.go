package auth

import (
	"testing"
	"time"
)

func TestSession_IsAdmin(t *testing.T) {
	s := Session{Role: RoleAdmin}
	if !s.IsAdmin() {
		t.Fatalf("expected admin")
	}
	if (Session{Role: RoleStudent}).IsAdmin() {
		t.Fatalf("did not expect admin")
	}
}

func TestIdentity_SimpleFields(t *testing.T) {
	id := Identity{UserID: "u", Email: "e", ExpiresAt: time.Now().Add(time.Hour)}
	if id.UserID != "u" || id.Email != "e" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"ADMIN", RoleAdmin, true},
		{" admin ", RoleAdmin, true},
		{"Student", RoleStudent, true},
		{"", "", false},
		{"TA", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseRole(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseRole(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestState_IsAdmin(t *testing.T) {
	if Anonymous().IsAdmin() {
		t.Fatalf("anonymous state must not be admin")
	}
	st := State{LoggedIn: true, User: &StateUser{NetID: "n", Role: RoleStudent}}
	if st.IsAdmin() {
		t.Fatalf("student must not be admin")
	}
	st.User.Role = RoleAdmin
	if !st.IsAdmin() {
		t.Fatalf("expected admin")
	}
}
