package domain

// Role represents the caller's role as supplied by the identity provider.
// The service trusts it verbatim - authentication lives outside this core.
type Role string

const (
	RoleUser          Role = "user"
	RoleStationMaster Role = "station_master"
	RoleAdmin         Role = "admin"
)

// IsAdmin returns true for administrators
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// IsValid returns true for known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleStationMaster, RoleAdmin:
		return true
	default:
		return false
	}
}
