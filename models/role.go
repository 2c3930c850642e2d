package models

// ClubRole is the caller's resolved role within the club that owns the
// tournament or match being mutated.
type ClubRole string

const (
	RoleAdmin       ClubRole = "admin"
	RoleHost        ClubRole = "host"
	RoleParticipant ClubRole = "participant"
	RoleSpectator   ClubRole = "spectator"
)

// Valid reports whether the role is one of the known club roles.
func (r ClubRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleHost, RoleParticipant, RoleSpectator:
		return true
	}
	return false
}
