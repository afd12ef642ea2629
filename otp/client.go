// otp/client.go
package otp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	fayhaa_errors "github.com/fayhaa-municipality/complaints-api/errors"
	logger "github.com/fayhaa-municipality/complaints-api/logging"
)

// Verifier is the phone verification flow: send a code, then check it.
type Verifier interface {
	SendOTP(ctx context.Context, phoneNumber string) error
	VerifyOTP(ctx context.Context, phoneNumber, code string) (bool, error)
}

// Client talks to the third-party verification service. Requests carry the
// account SID and auth token as basic auth; the service SID selects the
// verification configuration.
type Client struct {
	baseURL    string
	accountSID string
	serviceSID string
	authToken  string
	httpClient *http.Client
}

func NewClient(baseURL, accountSID, serviceSID, authToken string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		accountSID: accountSID,
		serviceSID: serviceSID,
		authToken:  authToken,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// SendOTP asks the provider to SMS a one-time code to the phone number. The
// number is normalized to E.164 before it goes on the wire.
func (c *Client) SendOTP(ctx context.Context, phoneNumber string) error {
	start := time.Now()

	e164, err := E164LebanesePhone(phoneNumber)
	if err != nil {
		return err
	}

	form := url.Values{}
	form.Set("To", e164)
	form.Set("Channel", "sms")

	endpoint := fmt.Sprintf("%s/Services/%s/Verifications", c.baseURL, c.serviceSID)
	status, body, err := c.post(ctx, endpoint, form)
	if err != nil {
		logger.Error("Failed to send OTP",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return fayhaa_errors.ErrOTPSendFailed
	}
	if status >= 300 {
		logger.Error("OTP provider rejected send request",
			zap.Int("status", status),
			zap.ByteString("body", body),
			zap.Duration("duration", time.Since(start)))
		return fayhaa_errors.ErrOTPSendFailed
	}

	logger.Info("OTP sent", zap.Duration("duration", time.Since(start)))
	return nil
}

// VerifyOTP checks a code the user typed against the provider. It returns
// false with no error when the code is simply wrong; errors are reserved for
// transport and provider failures.
func (c *Client) VerifyOTP(ctx context.Context, phoneNumber, code string) (bool, error) {
	start := time.Now()

	e164, err := E164LebanesePhone(phoneNumber)
	if err != nil {
		return false, err
	}

	form := url.Values{}
	form.Set("To", e164)
	form.Set("Code", code)

	endpoint := fmt.Sprintf("%s/Services/%s/VerificationCheck", c.baseURL, c.serviceSID)
	status, body, err := c.post(ctx, endpoint, form)
	if err != nil {
		logger.Error("Failed to verify OTP",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return false, fayhaa_errors.ErrOTPSendFailed
	}
	if status >= 300 {
		logger.Warn("OTP provider rejected verification check",
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)))
		return false, nil
	}

	var result struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return false, fmt.Errorf("failed to decode verification response: %w", err)
	}

	approved := result.Status == "approved"
	logger.Info("OTP verification checked",
		zap.Bool("approved", approved),
		zap.Duration("duration", time.Since(start)))
	return approved, nil
}

func (c *Client) post(ctx context.Context, endpoint string, form url.Values) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, body, nil
}
