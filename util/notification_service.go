// util/notification_service.go

package util

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	logger "github.com/fayhaa-municipality/complaints-api/logging"
	"github.com/fayhaa-municipality/complaints-api/model"
)

// PushMessage is one push to a set of users addressed by their email
// identity (the provider's external_id alias).
type PushMessage struct {
	Emails  []string          `json:"emails"`
	Heading string            `json:"heading"`
	Content string            `json:"content"`
	Data    map[string]string `json:"data,omitempty"`
}

// Pusher delivers a push message to the provider.
type Pusher interface {
	Push(ctx context.Context, msg PushMessage) error
}

// PushClient talks to the push provider's HTTP API.
type PushClient struct {
	url        string
	appID      string
	apiKey     string
	httpClient *http.Client
}

func NewPushClient(url, appID, apiKey string) *PushClient {
	return &PushClient{
		url:    url,
		appID:  appID,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *PushClient) Push(ctx context.Context, msg PushMessage) error {
	payload := map[string]interface{}{
		"app_id": c.appID,
		"include_aliases": map[string]interface{}{
			"external_id": msg.Emails,
		},
		"target_channel": "push",
		"headings":       map[string]string{"en": msg.Heading},
		"contents":       map[string]string{"en": msg.Content},
	}
	if len(msg.Data) > 0 {
		payload["data"] = msg.Data
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("push request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("push provider returned %d: %s", resp.StatusCode, string(detail))
	}

	return nil
}

// NotificationService is the best-effort dispatch layer. Every method logs
// failures and returns nothing: a failed notification must never fail the
// operation that triggered it. There is no queue and no retry.
type NotificationService struct {
	pusher Pusher
}

func NewNotificationService(pusher Pusher) *NotificationService {
	return &NotificationService{pusher: pusher}
}

// NotifyStatusChange informs the complaint owner that the status moved.
func (n *NotificationService) NotifyStatusChange(ctx context.Context, ownerEmail string, complaint *model.Complaint) {
	if ownerEmail == "" {
		return
	}
	msg := PushMessage{
		Emails:  []string{ownerEmail},
		Heading: "Complaint update",
		Content: fmt.Sprintf("Your complaint is now %s", complaint.Status),
		Data: map[string]string{
			"complaint_id": complaint.ID,
			"status":       string(complaint.Status),
		},
	}
	if err := n.pusher.Push(ctx, msg); err != nil {
		logger.Warn("Failed to send status change notification",
			zap.Error(err),
			zap.String("complaintID", complaint.ID),
			zap.String("status", string(complaint.Status)))
		return
	}
	logger.Info("Status change notification sent",
		zap.String("complaintID", complaint.ID),
		zap.String("status", string(complaint.Status)))
}

// NotifyRoleInvite informs a user that a role invite awaits their decision.
func (n *NotificationService) NotifyRoleInvite(ctx context.Context, targetEmail string, invited model.Role) {
	if targetEmail == "" {
		return
	}
	msg := PushMessage{
		Emails:  []string{targetEmail},
		Heading: "Role invitation",
		Content: fmt.Sprintf("You have been invited to become a %s", invited),
		Data:    map[string]string{"invite_role": invited.String()},
	}
	if err := n.pusher.Push(ctx, msg); err != nil {
		logger.Warn("Failed to send role invite notification",
			zap.Error(err),
			zap.String("inviteRole", invited.String()))
		return
	}
	logger.Info("Role invite notification sent", zap.String("inviteRole", invited.String()))
}

// NotifyRoleChange informs a user their role changed (accept or revoke).
func (n *NotificationService) NotifyRoleChange(ctx context.Context, targetEmail string, role model.Role) {
	if targetEmail == "" {
		return
	}
	msg := PushMessage{
		Emails:  []string{targetEmail},
		Heading: "Role updated",
		Content: fmt.Sprintf("Your role is now %s", role),
		Data:    map[string]string{"role": role.String()},
	}
	if err := n.pusher.Push(ctx, msg); err != nil {
		logger.Warn("Failed to send role change notification",
			zap.Error(err),
			zap.String("role", role.String()))
		return
	}
	logger.Info("Role change notification sent", zap.String("role", role.String()))
}

// NotifyWorkerAssigned informs a worker of a new assignment.
func (n *NotificationService) NotifyWorkerAssigned(ctx context.Context, workerEmail string, complaint *model.Complaint) {
	if workerEmail == "" {
		return
	}
	msg := PushMessage{
		Emails:  []string{workerEmail},
		Heading: "New assignment",
		Content: "A complaint has been assigned to you",
		Data:    map[string]string{"complaint_id": complaint.ID},
	}
	if err := n.pusher.Push(ctx, msg); err != nil {
		logger.Warn("Failed to send assignment notification",
			zap.Error(err),
			zap.String("complaintID", complaint.ID))
		return
	}
	logger.Info("Assignment notification sent", zap.String("complaintID", complaint.ID))
}
