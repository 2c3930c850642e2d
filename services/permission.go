package services

import "github.com/Gintoki006/Sportify-sub001/models"

// Action is a permission-gated operation on club resources.
type Action string

const (
	ActionEnterScores      Action = "enterScores"
	ActionEditTournament   Action = "editTournament"
	ActionDeleteTournament Action = "deleteTournament"
)

// rolePermissions is the club role / action matrix. Spectators can only
// read; participants may score their own matches; hosts additionally manage
// tournaments; admins can do everything including deletion.
var rolePermissions = map[models.ClubRole]map[Action]bool{
	models.RoleAdmin: {
		ActionEnterScores:      true,
		ActionEditTournament:   true,
		ActionDeleteTournament: true,
	},
	models.RoleHost: {
		ActionEnterScores:    true,
		ActionEditTournament: true,
	},
	models.RoleParticipant: {
		ActionEnterScores: true,
	},
	models.RoleSpectator: {},
}

// Allowed is the permission oracle: a pure (role, action) predicate every
// mutating service call checks before touching state.
func Allowed(role models.ClubRole, action Action) bool {
	return rolePermissions[role][action]
}

// Require converts a denied check into the shared authorization error.
func Require(role models.ClubRole, action Action) error {
	if !Allowed(role, action) {
		return ErrForbiddenOperation
	}
	return nil
}
