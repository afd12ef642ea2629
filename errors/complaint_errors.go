// errors/complaint_errors.go
package errors

import "errors"

var (
	ErrComplaintNotFound    = errors.New("complaint not found")
	ErrInvalidComplaintData = errors.New("invalid complaint data")
	ErrInvalidTransition    = errors.New("status transition not allowed")
	ErrTerminalStatus       = errors.New("complaint is in a terminal status")
)
