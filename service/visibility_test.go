// service/visibility_test.go
package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fayhaa-municipality/complaints-api/model"
)

func visibilityFixtures() ([]*model.Complaint, map[string]string) {
	complaints := []*model.Complaint{
		{ID: "c1", UserID: "citizen-1", AreaID: "area-a"},
		{ID: "c2", UserID: "citizen-2", AreaID: "area-b"},
		{
			ID: "c3", UserID: "citizen-1", AreaID: "area-b",
			Assignments: []model.Assignment{{WorkerID: "worker-1", WorkerName: "W"}},
		},
	}
	areaMunicipality := map[string]string{
		"area-a": "muni-1",
		"area-b": "muni-2",
	}
	return complaints, areaMunicipality
}

func TestVisibleComplaints(t *testing.T) {
	complaints, index := visibilityFixtures()

	t.Run("CitizenSeesOwnOnly", func(t *testing.T) {
		citizen := &model.User{ID: "citizen-1", Role: model.RoleCitizen}
		visible := VisibleComplaints(citizen, complaints, index)
		assert.Len(t, visible, 2)
		assert.Equal(t, "c1", visible[0].ID)
		assert.Equal(t, "c3", visible[1].ID)
	})

	t.Run("WorkerSeesAssignedOnly", func(t *testing.T) {
		worker := &model.User{ID: "worker-1", Role: model.RoleWorker}
		visible := VisibleComplaints(worker, complaints, index)
		assert.Len(t, visible, 1)
		assert.Equal(t, "c3", visible[0].ID)
	})

	t.Run("SupervisorScopedToAssignedAreas", func(t *testing.T) {
		supervisor := &model.User{
			ID:              "super-1",
			Role:            model.RoleSupervisor,
			AssignedAreaIDs: []string{"area-b"},
		}
		visible := VisibleComplaints(supervisor, complaints, index)
		assert.Len(t, visible, 2)
		assert.Equal(t, "c2", visible[0].ID)
		assert.Equal(t, "c3", visible[1].ID)
	})

	t.Run("SupervisorWithoutScopeSeesAll", func(t *testing.T) {
		supervisor := &model.User{ID: "super-2", Role: model.RoleSupervisor}
		assert.Len(t, VisibleComplaints(supervisor, complaints, index), 3)
	})

	t.Run("ManagerScopedToMunicipality", func(t *testing.T) {
		manager := &model.User{
			ID:              "manager-1",
			Role:            model.RoleManager,
			MunicipalityIDs: []string{"muni-1"},
		}
		visible := VisibleComplaints(manager, complaints, index)
		assert.Len(t, visible, 1)
		assert.Equal(t, "c1", visible[0].ID)
	})

	t.Run("AdminSeesAll", func(t *testing.T) {
		admin := &model.User{ID: "admin-1", Role: model.RoleAdmin}
		assert.Len(t, VisibleComplaints(admin, complaints, index), 3)
	})
}
