package services

import (
	"errors"
	"testing"

	"github.com/Gintoki006/Sportify-sub001/models"
)

func TestAllowedMatrix(t *testing.T) {
	tests := []struct {
		role   models.ClubRole
		action Action
		want   bool
	}{
		{models.RoleAdmin, ActionEnterScores, true},
		{models.RoleAdmin, ActionEditTournament, true},
		{models.RoleAdmin, ActionDeleteTournament, true},
		{models.RoleHost, ActionEnterScores, true},
		{models.RoleHost, ActionEditTournament, true},
		{models.RoleHost, ActionDeleteTournament, false},
		{models.RoleParticipant, ActionEnterScores, true},
		{models.RoleParticipant, ActionEditTournament, false},
		{models.RoleParticipant, ActionDeleteTournament, false},
		{models.RoleSpectator, ActionEnterScores, false},
		{models.RoleSpectator, ActionEditTournament, false},
		{models.RoleSpectator, ActionDeleteTournament, false},
	}
	for _, tt := range tests {
		if got := Allowed(tt.role, tt.action); got != tt.want {
			t.Errorf("Allowed(%s, %s) = %v, want %v", tt.role, tt.action, got, tt.want)
		}
	}
}

func TestAllowedUnknownRole(t *testing.T) {
	if Allowed(models.ClubRole("stranger"), ActionEnterScores) {
		t.Error("unknown role granted a permission")
	}
}

func TestRequire(t *testing.T) {
	if err := Require(models.RoleHost, ActionEditTournament); err != nil {
		t.Errorf("Require for permitted action: %v", err)
	}
	err := Require(models.RoleSpectator, ActionEnterScores)
	if !errors.Is(err, ErrForbiddenOperation) {
		t.Errorf("Require for denied action = %v, want ErrForbiddenOperation", err)
	}
}
