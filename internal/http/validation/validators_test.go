package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidators(t *testing.T) {
	tests := []struct {
		name string
		v    Validator
		in   string
		want string
	}{
		{"required empty", Required("Repository URL", 10), "  ", "Repository URL is required."},
		{"required too long", Required("Name", 3), "abcd", "Name cannot exceed 3 characters."},
		{"required ok", Required("Name", 3), "abc", ""},
		{"optional empty", Optional("First name", 3), "", ""},
		{"optional counts runes", Optional("First name", 3), "héé", ""},
		{"optional too long", Optional("First name", 3), "abcd", "First name cannot exceed 3 characters."},
		{"https ok", HTTPSURL(), "https://github.com/cosmo/chess", ""},
		{"https empty passes", HTTPSURL(), "", ""},
		{"http rejected", HTTPSURL(), "http://github.com/cosmo/chess", "Enter an https repository URL such as https://github.com/netid/chess."},
		{"missing path", HTTPSURL(), "https://github.com/", "Enter an https repository URL such as https://github.com/netid/chess."},
		{"one of case insensitive", OneOf("Role", []string{"STUDENT", "ADMIN"}), "admin", ""},
		{"one of empty passes", OneOf("Role", []string{"STUDENT", "ADMIN"}), "", ""},
		{"one of rejects", OneOf("Role", []string{"STUDENT", "ADMIN"}), "TA", "Role must be one of: STUDENT, ADMIN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v(tt.in))
		})
	}
}

func TestFieldValidator(t *testing.T) {
	fv := New().
		Validate("repo_url", "", Required("Repository URL", 255), HTTPSURL()).
		Validate("role", "TA", OneOf("Role", []string{"STUDENT", "ADMIN"})).
		Validate("first_name", strings.Repeat("x", 5), Optional("First name", 100))

	assert.False(t, fv.Valid())
	assert.Equal(t, map[string]string{
		"repo_url": "Repository URL is required.",
		"role":     "Role must be one of: STUDENT, ADMIN",
	}, fv.Errors())

	field, msg := fv.First()
	assert.Equal(t, "repo_url", field)
	assert.Equal(t, "Repository URL is required.", msg)

	assert.True(t, New().Validate("role", "ADMIN", OneOf("Role", []string{"ADMIN"})).Valid())
}
