package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/taskboard/internal/ports/secondary"
)

const twilioBaseURL = "https://api.twilio.com"

// TwilioSMS sends messages through the Twilio Messages REST endpoint. The
// provider credentials travel with each send because every organization
// brings its own Twilio account.
type TwilioSMS struct {
	client  *http.Client
	baseURL string
}

// NewTwilioSMS creates the SMS side-channel sender.
func NewTwilioSMS() *TwilioSMS {
	return &TwilioSMS{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: twilioBaseURL,
	}
}

// Send posts one message. Any transport failure or non-2xx response is an
// error; the caller decides whether that failure is fatal.
func (t *TwilioSMS) Send(ctx context.Context, creds secondary.SMSCredentials, to, message string) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", t.baseURL, url.PathEscape(creds.AccountSID))

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", creds.PhoneNumber)
	form.Set("Body", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build sms request: %w", err)
	}
	req.SetBasicAuth(creds.AccountSID, creds.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sms provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// Ensure TwilioSMS implements the interface
var _ secondary.SMSSender = (*TwilioSMS)(nil)
