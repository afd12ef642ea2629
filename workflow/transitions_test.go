package workflow_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	fayhaa_errors "github.com/fayhaa-municipality/complaints-api/errors"
	"github.com/fayhaa-municipality/complaints-api/model"
	"github.com/fayhaa-municipality/complaints-api/workflow"
)

var (
	admin      = &model.User{ID: "admin-1", FullName: "Hassan", Role: model.RoleAdmin}
	manager    = &model.User{ID: "mgr-1", FullName: "Rana", Role: model.RoleManager}
	supervisor = &model.User{ID: "sup-1", FullName: "Omar", Role: model.RoleSupervisor}
	workerA    = &model.User{ID: "wrk-a", FullName: "Ali", Role: model.RoleWorker}
	workerB    = &model.User{ID: "wrk-b", FullName: "Karim", Role: model.RoleWorker}
	citizen    = &model.User{ID: "cit-1", FullName: "Maya", Role: model.RoleCitizen}
)

func newComplaint(status model.Status) *model.Complaint {
	return &model.Complaint{
		ID:        "cmp-1",
		UserID:    citizen.ID,
		Status:    status,
		CreatedAt: time.Now(),
	}
}

func TestCheck(t *testing.T) {
	t.Run("AllowedTransitions", func(t *testing.T) {
		cases := []struct {
			op    workflow.Op
			from  model.Status
			actor model.Role
		}{
			{workflow.OpAssign, model.StatusPending, model.RoleAdmin},
			{workflow.OpAssign, model.StatusPending, model.RoleManager},
			{workflow.OpAssign, model.StatusAssigned, model.RoleManager},
			{workflow.OpResolve, model.StatusAssigned, model.RoleWorker},
			{workflow.OpResolve, model.StatusAssigned, model.RoleSupervisor},
			{workflow.OpComplete, model.StatusResolved, model.RoleManager},
			{workflow.OpComplete, model.StatusResolved, model.RoleAdmin},
			{workflow.OpComplete, model.StatusResolved, model.RoleSupervisor},
			{workflow.OpDeny, model.StatusResolved, model.RoleManager},
			{workflow.OpReResolve, model.StatusDenied, model.RoleWorker},
			{workflow.OpReject, model.StatusPending, model.RoleManager},
			{workflow.OpReject, model.StatusAssigned, model.RoleAdmin},
			{workflow.OpReject, model.StatusResolved, model.RoleManager},
		}
		for _, tc := range cases {
			assert.NoError(t, workflow.Check(tc.op, tc.from, tc.actor),
				"op %s from %s by %s", tc.op, tc.from, tc.actor)
		}
	})

	t.Run("ForbiddenActors", func(t *testing.T) {
		assert.ErrorIs(t, workflow.Check(workflow.OpAssign, model.StatusPending, model.RoleWorker), fayhaa_errors.ErrForbidden)
		assert.ErrorIs(t, workflow.Check(workflow.OpResolve, model.StatusAssigned, model.RoleCitizen), fayhaa_errors.ErrForbidden)
		assert.ErrorIs(t, workflow.Check(workflow.OpReject, model.StatusPending, model.RoleSupervisor), fayhaa_errors.ErrForbidden)
		assert.ErrorIs(t, workflow.Check(workflow.OpReResolve, model.StatusDenied, model.RoleSupervisor), fayhaa_errors.ErrForbidden)
	})

	t.Run("TerminalStatusesNeverTransition", func(t *testing.T) {
		ops := []workflow.Op{workflow.OpAssign, workflow.OpResolve, workflow.OpComplete, workflow.OpDeny, workflow.OpReResolve, workflow.OpReject}
		for _, terminal := range []model.Status{model.StatusCompleted, model.StatusRejected} {
			for _, op := range ops {
				err := workflow.Check(op, terminal, model.RoleAdmin)
				assert.ErrorIs(t, err, fayhaa_errors.ErrTerminalStatus, "op %s from %s", op, terminal)
			}
		}
	})

	t.Run("WrongSourceStatus", func(t *testing.T) {
		assert.ErrorIs(t, workflow.Check(workflow.OpResolve, model.StatusPending, model.RoleWorker), fayhaa_errors.ErrInvalidTransition)
		assert.ErrorIs(t, workflow.Check(workflow.OpComplete, model.StatusAssigned, model.RoleAdmin), fayhaa_errors.ErrInvalidTransition)
		assert.ErrorIs(t, workflow.Check(workflow.OpReResolve, model.StatusResolved, model.RoleWorker), fayhaa_errors.ErrInvalidTransition)
	})
}

func TestAssignManager(t *testing.T) {
	now := time.Now()

	t.Run("AdminReplacesManagerFields", func(t *testing.T) {
		c := newComplaint(model.StatusPending)
		update, err := workflow.AssignManager(c, admin, now)
		assert.NoError(t, err)

		assert.Equal(t, model.StatusAssigned, c.Status)
		assert.Equal(t, admin.ID, c.ManagerAssigneeID)
		assert.Equal(t, admin.FullName, c.ManagerName)
		assert.Equal(t, now, *c.AssignedAt)
		assert.Equal(t, string(model.StatusAssigned), update["status"])
		assert.Equal(t, admin.ID, update["manager_assignee_id"])
	})

	t.Run("ManagerCannotSelfAssign", func(t *testing.T) {
		c := newComplaint(model.StatusPending)
		_, err := workflow.AssignManager(c, manager, now)
		assert.ErrorIs(t, err, fayhaa_errors.ErrForbidden)
		assert.Equal(t, model.StatusPending, c.Status)
	})
}

func TestAssignWorker(t *testing.T) {
	now := time.Now()

	t.Run("AppendsInOrder", func(t *testing.T) {
		c := newComplaint(model.StatusPending)

		_, dup, err := workflow.AssignWorker(c, manager, workerA, now)
		assert.NoError(t, err)
		assert.False(t, dup)

		_, dup, err = workflow.AssignWorker(c, manager, workerB, now.Add(time.Minute))
		assert.NoError(t, err)
		assert.False(t, dup)

		assert.Len(t, c.Assignments, 2)
		assert.Equal(t, workerA.ID, c.Assignments[0].WorkerID)
		assert.Equal(t, workerB.ID, c.Assignments[1].WorkerID)
		assert.Equal(t, workerB.ID, c.CurrentWorker().WorkerID)
	})

	t.Run("DuplicateIsAdvisoryNotBlocking", func(t *testing.T) {
		c := newComplaint(model.StatusPending)
		_, _, err := workflow.AssignWorker(c, manager, workerA, now)
		assert.NoError(t, err)

		_, dup, err := workflow.AssignWorker(c, manager, workerA, now)
		assert.NoError(t, err)
		assert.True(t, dup)
		assert.Len(t, c.Assignments, 2, "duplicate append must not be blocked")
	})

	t.Run("AdminMustUseManagerAssignment", func(t *testing.T) {
		c := newComplaint(model.StatusPending)
		_, _, err := workflow.AssignWorker(c, admin, workerA, now)
		assert.ErrorIs(t, err, fayhaa_errors.ErrForbidden)
	})
}

func TestDenyAndReResolve(t *testing.T) {
	now := time.Now()
	c := newComplaint(model.StatusResolved)

	_, err := workflow.Deny(c, supervisor, now)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusDenied, c.Status)
	assert.Equal(t, now, *c.DeniedAt)

	later := now.Add(time.Hour)
	_, err = workflow.ReResolve(c, workerA, "https://cdn/full2.jpg", "https://cdn/thumb2.jpg", 34.44, 35.84, later)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusResolved, c.Status)
	assert.Equal(t, later, *c.ResolvedAt)
	assert.Equal(t, "https://cdn/full2.jpg", c.ResolvedPhotoURL)
}

func TestReject(t *testing.T) {
	now := time.Now()
	c := newComplaint(model.StatusAssigned)

	update, err := workflow.Reject(c, manager, "outside municipal boundary", now)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusRejected, c.Status)
	assert.Equal(t, "outside municipal boundary", c.RejectionReason)
	assert.Equal(t, "outside municipal boundary", update["rejection_reason"])

	_, err = workflow.Complete(c, admin, now)
	assert.ErrorIs(t, err, fayhaa_errors.ErrTerminalStatus)
}

// Full lifecycle: citizen files, admin assigns itself, worker resolves with
// photo and coordinates, supervisor confirms. Earlier fields must survive
// every later partial update.
func TestLifecycleAdminPath(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	c := &model.Complaint{
		ID:          "cmp-9",
		UserID:      citizen.ID,
		AreaID:      "area-tripoli-1",
		IndicatorID: "ind-waste",
		Description: "overflowing container",
		Status:      model.StatusPending,
		PhotoURL:    "https://cdn/issues/full/cmp-9.jpg",
		Latitude:    34.4367,
		Longitude:   35.8497,
		CreatedAt:   t0,
	}

	_, err := workflow.AssignManager(c, admin, t0.Add(time.Hour))
	assert.NoError(t, err)
	assert.Equal(t, model.StatusAssigned, c.Status)
	assert.Equal(t, admin.ID, c.ManagerAssigneeID)

	_, err = workflow.Resolve(c, workerA, "https://cdn/issues/full/cmp-9-r.jpg", "https://cdn/issues/thumbnails/cmp-9-r.jpg", 34.4370, 35.8501, t0.Add(2*time.Hour))
	assert.NoError(t, err)
	assert.Equal(t, model.StatusResolved, c.Status)
	assert.Equal(t, 34.4370, *c.ResolvedLat)
	assert.Equal(t, 35.8501, *c.ResolvedLong)

	_, err = workflow.Complete(c, supervisor, t0.Add(3*time.Hour))
	assert.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, c.Status)
	assert.Equal(t, t0.Add(3*time.Hour), *c.CompletedAt)

	// Nothing written earlier was erased along the way.
	assert.Equal(t, admin.ID, c.ManagerAssigneeID)
	assert.Equal(t, "https://cdn/issues/full/cmp-9-r.jpg", c.ResolvedPhotoURL)
	assert.Equal(t, "overflowing container", c.Description)
	assert.Equal(t, "https://cdn/issues/full/cmp-9.jpg", c.PhotoURL)
	assert.Equal(t, t0, c.CreatedAt)
}
