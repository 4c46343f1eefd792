package notify

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/guonaihong/gout"
	"go.uber.org/zap"

	"github.com/vagabondbarber/booking-api/internal/config"
)

// Sender delivers one SMS. Implementations are best-effort: transport
// errors are returned so the dispatcher can log them, but callers never see
// them.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// TwilioSender sends through the Twilio Messages REST endpoint.
type TwilioSender struct {
	accountSID string
	authToken  string
	from       string
}

func NewTwilioSender(cfg *config.Config) *TwilioSender {
	return &TwilioSender{
		accountSID: cfg.TwilioAccountSID,
		authToken:  cfg.TwilioAuthToken,
		from:       cfg.TwilioPhoneNumber,
	}
}

// Configured reports whether Twilio credentials are present. Without them
// sends are skipped with a warning, matching local development setups.
func (s *TwilioSender) Configured() bool {
	return s.accountSID != "" && s.authToken != "" && s.from != ""
}

// NormalizeNumber ensures the destination carries a leading "+".
func NormalizeNumber(n string) string {
	n = strings.TrimSpace(n)
	if n == "" || strings.HasPrefix(n, "+") {
		return n
	}
	return "+" + n
}

func (s *TwilioSender) Send(ctx context.Context, to, body string) error {
	if !s.Configured() {
		zap.L().Warn("twilio credentials not set, sms not sent",
			zap.String("to", to))
		return nil
	}

	url := fmt.Sprintf(
		"https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json",
		s.accountSID,
	)
	auth := base64.StdEncoding.EncodeToString(
		[]byte(s.accountSID + ":" + s.authToken),
	)

	var code int
	var resp struct {
		SID          string `json:"sid"`
		Status       string `json:"status"`
		ErrorMessage string `json:"error_message"`
	}

	err := gout.POST(url).
		WithContext(ctx).
		SetHeader(gout.H{"Authorization": "Basic " + auth}).
		SetForm(gout.H{
			"To":   NormalizeNumber(to),
			"From": NormalizeNumber(s.from),
			"Body": body,
		}).
		BindJSON(&resp).
		Code(&code).
		Do()
	if err != nil {
		return err
	}
	if code >= 300 {
		return fmt.Errorf("twilio returned %d: %s", code, resp.ErrorMessage)
	}

	zap.L().Info("sms sent",
		zap.String("to", NormalizeNumber(to)),
		zap.String("sid", resp.SID),
		zap.String("status", resp.Status))
	return nil
}
