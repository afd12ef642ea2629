// service/visibility.go
package service

import "github.com/fayhaa-municipality/complaints-api/model"

// AreaMunicipalityIndex maps area IDs to their municipality for manager
// scoping. Built from the reference data, which is read-only.
func AreaMunicipalityIndex(areas []*model.Area) map[string]string {
	index := make(map[string]string, len(areas))
	for _, area := range areas {
		index[area.ID] = area.MunicipalityID
	}
	return index
}

// Visible reports whether user may see the complaint. The same predicate
// backs the list endpoint and the realtime feed, so no role ever sees a
// record in one surface it cannot see in the other.
//
// Citizens see their own complaints. Workers see complaints they appear in
// the assignment history of. Supervisors are scoped to their assigned areas
// and managers to their municipalities; a staff record with no scoping sees
// everything, matching the seeded legacy accounts. Admins see everything.
func Visible(user *model.User, c *model.Complaint, areaMunicipality map[string]string) bool {
	switch user.Role {
	case model.RoleAdmin:
		return true
	case model.RoleCitizen:
		return c.UserID == user.ID
	case model.RoleWorker:
		return c.HasWorker(user.ID)
	case model.RoleSupervisor:
		if len(user.AssignedAreaIDs) == 0 {
			return true
		}
		for _, areaID := range user.AssignedAreaIDs {
			if areaID == c.AreaID {
				return true
			}
		}
		return false
	case model.RoleManager:
		if len(user.MunicipalityIDs) == 0 {
			return true
		}
		municipality := areaMunicipality[c.AreaID]
		for _, id := range user.MunicipalityIDs {
			if id == municipality {
				return true
			}
		}
		return false
	}
	return false
}

// VisibleComplaints filters a snapshot down to what user may see, preserving
// order.
func VisibleComplaints(user *model.User, complaints []*model.Complaint, areaMunicipality map[string]string) []*model.Complaint {
	var visible []*model.Complaint
	for _, c := range complaints {
		if Visible(user, c, areaMunicipality) {
			visible = append(visible, c)
		}
	}
	return visible
}
