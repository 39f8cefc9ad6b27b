package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gohire/internal/domain/profile"
)

func TestCanTransition(t *testing.T) {
	statuses := []Status{StatusPending, StatusActive, StatusRejected}
	roles := []profile.Role{profile.RoleProfessor, profile.RoleInstitution}

	allowed := map[[2]Status]bool{
		{StatusPending, StatusActive}:   true,
		{StatusPending, StatusRejected}: true,
	}
	for _, from := range statuses {
		for _, to := range statuses {
			for _, role := range roles {
				want := allowed[[2]Status{from, to}] && role == profile.RoleProfessor
				assert.Equal(t, want, CanTransition(from, to, role), "%s -> %s by %s", from, to, role)
			}
		}
	}
}

func TestFinalStatuses(t *testing.T) {
	assert.False(t, StatusPending.IsFinal())
	assert.True(t, StatusActive.IsFinal())
	assert.True(t, StatusRejected.IsFinal())
	for _, tr := range Transitions {
		assert.False(t, tr.From.IsFinal(), "no transition may leave a final status")
	}
}

func TestTitleFor(t *testing.T) {
	assert.Equal(t, "Contrato para Professor de Física", TitleFor("Professor de Física"))
}
