// Package entity contains the core business objects of the project.
package entity

// Role represents the type of role an account can have in the system.
// The set is closed: authorization decisions switch over these three values
// rather than consulting dynamically resolved permissions.
type Role string

const (
	// RolePatient indicates a patient account. Patients own their telemetry.
	RolePatient Role = "patient"
	// RoleClinician indicates a clinician account. Clinicians may read
	// patient telemetry subject to the patient's consent.
	RoleClinician Role = "clinician"
	// RoleAdmin indicates an administrative account. Admins provision and
	// deactivate accounts but are excluded from all clinical data.
	RoleAdmin Role = "admin"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RolePatient, RoleClinician, RoleAdmin:
		return true
	default:
		return false
	}
}

// RoleFromString converts a string (e.g. a JWT claim) back into a Role.
// Invalid strings yield the zero Role, which fails IsValid.
func RoleFromString(s string) Role {
	role := Role(s)
	if !role.IsValid() {
		return ""
	}

	return role
}
