// Package workflow owns the complaint status state machine: which status
// transitions exist, which roles may trigger them, and the partial update
// each transition writes. Services apply the update through the DAO as a
// single atomic write; nothing here touches storage.
package workflow

import (
	"time"

	fayhaa_errors "github.com/fayhaa-municipality/complaints-api/errors"
	"github.com/fayhaa-municipality/complaints-api/model"
)

// Op identifies a transition trigger.
type Op string

const (
	OpAssign    Op = "assign"
	OpResolve   Op = "resolve"
	OpComplete  Op = "complete"
	OpDeny      Op = "deny"
	OpReResolve Op = "re_resolve"
	OpReject    Op = "reject"
)

// Update is the partial field set a transition writes. Keys are storage
// property names; the DAO stamps updated_at on top of every update.
type Update map[string]interface{}

type rule struct {
	from   []model.Status
	to     model.Status
	actors []model.Role
}

// transitions is the whole state machine. completed and rejected appear in no
// rule's from set, which is what makes them terminal.
var transitions = map[Op]rule{
	OpAssign: {
		// assigned -> assigned is the self-loop that lets a manager append
		// further workers to an already assigned complaint.
		from:   []model.Status{model.StatusPending, model.StatusAssigned},
		to:     model.StatusAssigned,
		actors: []model.Role{model.RoleAdmin, model.RoleManager},
	},
	OpResolve: {
		from:   []model.Status{model.StatusAssigned},
		to:     model.StatusResolved,
		actors: []model.Role{model.RoleWorker, model.RoleSupervisor},
	},
	OpComplete: {
		from:   []model.Status{model.StatusResolved},
		to:     model.StatusCompleted,
		actors: []model.Role{model.RoleManager, model.RoleAdmin, model.RoleSupervisor},
	},
	OpDeny: {
		from:   []model.Status{model.StatusResolved},
		to:     model.StatusDenied,
		actors: []model.Role{model.RoleManager, model.RoleAdmin, model.RoleSupervisor},
	},
	OpReResolve: {
		from:   []model.Status{model.StatusDenied},
		to:     model.StatusResolved,
		actors: []model.Role{model.RoleWorker},
	},
	OpReject: {
		from:   []model.Status{model.StatusPending, model.StatusAssigned, model.StatusResolved},
		to:     model.StatusRejected,
		actors: []model.Role{model.RoleManager, model.RoleAdmin},
	},
}

// Check validates that op is allowed from the complaint's current status by
// an actor with the given role.
func Check(op Op, from model.Status, actor model.Role) error {
	r, ok := transitions[op]
	if !ok {
		return fayhaa_errors.ErrInvalidTransition
	}
	if from.Terminal() {
		return fayhaa_errors.ErrTerminalStatus
	}
	if !contains(r.from, from) {
		return fayhaa_errors.ErrInvalidTransition
	}
	if !containsRole(r.actors, actor) {
		return fayhaa_errors.ErrForbidden
	}
	return nil
}

// Target returns the destination status of op.
func Target(op Op) model.Status {
	return transitions[op].to
}

// AssignManager is the admin form of assignment: the admin takes the
// complaint itself, replacing the manager assignee fields outright.
func AssignManager(c *model.Complaint, actor *model.User, now time.Time) (Update, error) {
	if actor.Role != model.RoleAdmin {
		return nil, fayhaa_errors.ErrForbidden
	}
	if err := Check(OpAssign, c.Status, actor.Role); err != nil {
		return nil, err
	}

	c.Status = model.StatusAssigned
	c.ManagerAssigneeID = actor.ID
	c.ManagerName = actor.FullName
	c.AssignedAt = &now

	return Update{
		"status":              string(model.StatusAssigned),
		"manager_assignee_id": actor.ID,
		"manager_name":        actor.FullName,
		"assigned_at":         now,
	}, nil
}

// AssignWorker is the manager form of assignment: appends one record to the
// assignment history. The returned flag reports an advisory duplicate (the
// worker was already in the history); the append happens regardless.
func AssignWorker(c *model.Complaint, actor, worker *model.User, now time.Time) (Update, bool, error) {
	if actor.Role != model.RoleManager {
		return nil, false, fayhaa_errors.ErrForbidden
	}
	if err := Check(OpAssign, c.Status, actor.Role); err != nil {
		return nil, false, err
	}

	duplicate := c.HasWorker(worker.ID)
	c.Status = model.StatusAssigned
	c.Assignments = append(c.Assignments, model.Assignment{
		WorkerID:   worker.ID,
		WorkerName: worker.FullName,
		AssignedAt: now,
	})

	return Update{
		"status":      string(model.StatusAssigned),
		"assignments": c.Assignments,
	}, duplicate, nil
}

// Resolve records the worker's proposed resolution: photo, thumbnail and the
// capture coordinates.
func Resolve(c *model.Complaint, actor *model.User, photoURL, thumbnailURL string, lat, lng float64, now time.Time) (Update, error) {
	if err := Check(OpResolve, c.Status, actor.Role); err != nil {
		return nil, err
	}

	c.Status = model.StatusResolved
	c.ResolvedPhotoURL = photoURL
	c.ResolvedThumbnailURL = thumbnailURL
	c.ResolvedLat = &lat
	c.ResolvedLong = &lng
	c.ResolvedAt = &now

	return Update{
		"status":                 string(model.StatusResolved),
		"resolved_photo_url":     photoURL,
		"resolved_thumbnail_url": thumbnailURL,
		"resolved_lat":           lat,
		"resolved_long":          lng,
		"resolved_at":            now,
	}, nil
}

// Complete is the final confirmation of a proposed resolution.
func Complete(c *model.Complaint, actor *model.User, now time.Time) (Update, error) {
	if err := Check(OpComplete, c.Status, actor.Role); err != nil {
		return nil, err
	}

	c.Status = model.StatusCompleted
	c.CompletedAt = &now

	return Update{
		"status":       string(model.StatusCompleted),
		"completed_at": now,
	}, nil
}

// Deny sends a proposed resolution back to work.
func Deny(c *model.Complaint, actor *model.User, now time.Time) (Update, error) {
	if err := Check(OpDeny, c.Status, actor.Role); err != nil {
		return nil, err
	}

	c.Status = model.StatusDenied
	c.DeniedAt = &now

	return Update{
		"status":    string(model.StatusDenied),
		"denied_at": now,
	}, nil
}

// ReResolve resubmits a resolution after a denial.
func ReResolve(c *model.Complaint, actor *model.User, photoURL, thumbnailURL string, lat, lng float64, now time.Time) (Update, error) {
	if err := Check(OpReResolve, c.Status, actor.Role); err != nil {
		return nil, err
	}

	c.Status = model.StatusResolved
	c.ResolvedPhotoURL = photoURL
	c.ResolvedThumbnailURL = thumbnailURL
	c.ResolvedLat = &lat
	c.ResolvedLong = &lng
	c.ResolvedAt = &now

	return Update{
		"status":                 string(model.StatusResolved),
		"resolved_photo_url":     photoURL,
		"resolved_thumbnail_url": thumbnailURL,
		"resolved_lat":           lat,
		"resolved_long":          lng,
		"resolved_at":            now,
	}, nil
}

// Reject terminates a complaint with a reason.
func Reject(c *model.Complaint, actor *model.User, reason string, now time.Time) (Update, error) {
	if err := Check(OpReject, c.Status, actor.Role); err != nil {
		return nil, err
	}

	c.Status = model.StatusRejected
	c.RejectedAt = &now
	c.RejectionReason = reason

	return Update{
		"status":           string(model.StatusRejected),
		"rejected_at":      now,
		"rejection_reason": reason,
	}, nil
}

func contains(statuses []model.Status, s model.Status) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}

func containsRole(roles []model.Role, r model.Role) bool {
	for _, candidate := range roles {
		if candidate == r {
			return true
		}
	}
	return false
}
