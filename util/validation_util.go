// util/validation_util.go

package util

import (
	"fmt"

	"github.com/fayhaa-municipality/complaints-api/model"
)

type ValidationUtil struct{}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{}
}

func (v *ValidationUtil) ValidateComplaint(complaint model.Complaint) error {
	if complaint.Description == "" {
		return fmt.Errorf("complaint description cannot be empty")
	}
	if complaint.UserID == "" {
		return fmt.Errorf("complaint user ID cannot be empty")
	}
	if complaint.AreaID == "" {
		return fmt.Errorf("complaint area ID cannot be empty")
	}
	if complaint.Latitude < -90 || complaint.Latitude > 90 {
		return fmt.Errorf("complaint latitude must be between -90 and 90")
	}
	if complaint.Longitude < -180 || complaint.Longitude > 180 {
		return fmt.Errorf("complaint longitude must be between -180 and 180")
	}
	if complaint.Status != "" && !complaint.Status.Valid() {
		return fmt.Errorf("complaint status %q is not recognized", complaint.Status)
	}
	// Add more validation rules as needed
	return nil
}

func (v *ValidationUtil) ValidateUser(user model.User) error {
	if user.FullName == "" {
		return fmt.Errorf("user full name cannot be empty")
	}
	if user.PhoneNumber == "" {
		return fmt.Errorf("user phone number cannot be empty")
	}
	if user.Email == "" {
		return fmt.Errorf("user email cannot be empty")
	}
	if !user.Role.Valid() {
		return fmt.Errorf("user role %d is not recognized", user.Role)
	}
	// Add more validation rules as needed
	return nil
}
