package authroles

import (
	"strings"

	domainauth "github.com/softwareconstruction240/autograder/internal/domain/auth"
)

// StaticRoleMapper maps IdP groups to application roles by exact, case-insensitive
// group name. Members of AdminGroup are admins; everyone else is a student.
// StudentGroup, when set, is only informational: the autograder has no guest role,
// so a user outside both groups still signs in as a student.
type StaticRoleMapper struct {
	AdminGroup   string
	StudentGroup string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	if m.AdminGroup == "" {
		return domainauth.RoleStudent
	}
	for _, g := range groups {
		if strings.EqualFold(strings.TrimSpace(g), m.AdminGroup) {
			return domainauth.RoleAdmin
		}
	}
	return domainauth.RoleStudent
}

// InStudentGroup reports whether groups contains the configured student group.
// It returns true when no student group is configured.
func (m StaticRoleMapper) InStudentGroup(groups []string) bool {
	if m.StudentGroup == "" {
		return true
	}
	for _, g := range groups {
		if strings.EqualFold(strings.TrimSpace(g), m.StudentGroup) {
			return true
		}
	}
	return false
}
