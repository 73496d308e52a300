package permission

import (
	"testing"

	"lis_client/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestFor_Admin(t *testing.T) {
	caps := For(model.RoleAdmin)

	assert.Equal(t, PanelAdmin, caps.Panel)
	assert.True(t, caps.CanProcess)
	assert.True(t, caps.CanVerify)
	assert.True(t, caps.CanManageUsers)
	assert.False(t, caps.CanCreateEntries)
}

func TestFor_Technician(t *testing.T) {
	caps := For(model.RoleTechnician)

	assert.Equal(t, PanelTechnician, caps.Panel)
	assert.True(t, caps.CanProcess)
	assert.True(t, caps.CanCreateEntries)
	assert.False(t, caps.CanVerify)
	assert.False(t, caps.CanManageUsers)
}

func TestFor_Supervisor(t *testing.T) {
	caps := For(model.RoleSupervisor)

	assert.Equal(t, PanelSupervisor, caps.Panel)
	assert.True(t, caps.CanProcess)
	assert.True(t, caps.CanVerify)
	assert.False(t, caps.CanCreateEntries)
	assert.False(t, caps.CanManageUsers)
}

// Any role outside the three known ones must yield no panel and no actions.
func TestFor_UnknownRolesFailClosed(t *testing.T) {
	unknown := []model.Role{"", "admin", "Intern", "ADMIN", "Superuser"}

	for _, role := range unknown {
		caps := For(role)
		assert.Equal(t, Capabilities{}, caps, "role %q must carry no capabilities", role)
		assert.Equal(t, PanelNone, caps.Panel)
	}
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, model.RoleAdmin, model.ParseRole("Admin"))
	assert.Equal(t, model.RoleTechnician, model.ParseRole("Technician"))
	assert.Equal(t, model.RoleSupervisor, model.ParseRole("Supervisor"))
	assert.Equal(t, model.Role(""), model.ParseRole("technician"))
	assert.Equal(t, model.Role(""), model.ParseRole("root"))
}
