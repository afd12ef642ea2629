package model

import "time"

// User is a citizen or municipal staff member. Accounts are created at
// sign-up as citizens; roles are elevated only through the invite/accept
// protocol and revoked back to Citizen without one.
type User struct {
	ID          string `json:"id"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	AreaID      string `json:"area_id,omitempty"`

	Role Role `json:"role"`
	// InviteRole holds a pending promotion target. A user has at most one
	// pending invite at a time; nil means none.
	InviteRole *Role `json:"invite_role,omitempty"`

	// Scoping for Worker/Supervisor roles, attached by the inviter.
	MunicipalityIDs []string `json:"municipality_ids,omitempty"`
	AssignedAreaIDs []string `json:"assigned_area_ids,omitempty"`

	AuthUID       string `json:"auth_uid,omitempty"`
	EmailVerified bool   `json:"email_verified"`
	PasswordHash  string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
