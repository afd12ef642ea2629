// audit/model.go
package audit

import (
	"encoding/json"
	"time"
)

// Actions recorded in the trail.
const (
	ActionCreateComplaint = "CREATE_COMPLAINT"
	ActionUpdateComplaint = "UPDATE_COMPLAINT"
	ActionDeleteComplaint = "DELETE_COMPLAINT"
	ActionCreateUser      = "CREATE_USER"
	ActionUpdateUser      = "UPDATE_USER"
	ActionInviteRole      = "INVITE_ROLE"
	ActionResolveInvite   = "RESOLVE_INVITE"
	ActionRevokeRole      = "REVOKE_ROLE"
)

type AuditLog struct {
	Timestamp     time.Time       `json:"timestamp"`
	ActorID       string          `json:"actor_id"`
	Action        string          `json:"action"`
	ResourceID    string          `json:"resource_id"`
	Status        string          `json:"status,omitempty"`
	ChangeDetails json.RawMessage `json:"change_details,omitempty"`
}
