package dailysales

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
)

// SendFailureEmail reports a failed run to the people who would
// otherwise stare at an empty row in the morning. Some relays reject
// AUTH outright, those get a retry without credentials.
func SendFailureEmail(ctx context.Context, config SmtpConfig, date string, runErr error) error {
	if !config.Enabled() {
		return nil
	}

	e := email.NewEmail()
	e.From = config.EmailAddress
	e.To = config.Notify
	e.Subject = fmt.Sprintf("daily sales run failed for %s", date)
	e.Text = []byte(fmt.Sprintf(
		"The daily sales pipeline failed for %s.\n\n%s\n",
		date, runErr.Error(),
	))

	addr := fmt.Sprintf("%s:%d", config.Server, config.Port)
	auth := smtp.PlainAuth("", config.EmailAddress, config.Password, config.Server)

	slog.InfoContext(ctx, "send failure email", "to", strings.Join(config.Notify, ", "))

	err := e.Send(addr, auth)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = e.Send(addr, nil)
	}
	if err != nil {
		return fmt.Errorf("send failure email: %w", err)
	}
	return nil
}
