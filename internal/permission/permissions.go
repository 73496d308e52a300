package permission

import "lis_client/internal/model"

// Panel identifies which role panel the front end should show.
type Panel string

const (
	PanelNone       Panel = ""
	PanelAdmin      Panel = "admin"
	PanelTechnician Panel = "technician"
	PanelSupervisor Panel = "supervisor"
)

// Capabilities is the set of UI affordances a role unlocks.
type Capabilities struct {
	Panel            Panel
	CanProcess       bool
	CanVerify        bool
	CanCreateEntries bool
	CanManageUsers   bool
}

// For maps a role onto its capabilities. The mapping is total: any role
// outside the three known ones gets the zero Capabilities, so nothing is
// shown and no action is allowed.
func For(role model.Role) Capabilities {
	switch role {
	case model.RoleAdmin:
		return Capabilities{
			Panel:          PanelAdmin,
			CanProcess:     true,
			CanVerify:      true,
			CanManageUsers: true,
		}
	case model.RoleTechnician:
		return Capabilities{
			Panel:            PanelTechnician,
			CanProcess:       true,
			CanCreateEntries: true,
		}
	case model.RoleSupervisor:
		return Capabilities{
			Panel:      PanelSupervisor,
			CanProcess: true,
			CanVerify:  true,
		}
	}
	return Capabilities{}
}
