// Package notify delivers attendance events to the owner over SMTP.
package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"

	"github.com/dawam/attendance-system/internal/api/metrics"
	"github.com/dawam/attendance-system/internal/core/ports"
)

// Config holds the SMTP settings. The mailer disables itself when Host or
// Owner is empty, so an unconfigured deployment simply logs and skips.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Owner    string
}

// Mailer implements ports.Notifier over SMTP.
type Mailer struct {
	cfg     Config
	enabled bool
	log     zerolog.Logger
}

func NewMailer(cfg Config, log zerolog.Logger) *Mailer {
	enabled := cfg.Host != "" && cfg.Owner != ""
	if !enabled {
		log.Info().Msg("email not configured, owner notifications disabled")
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &Mailer{cfg: cfg, enabled: enabled, log: log}
}

// Enabled reports whether notifications will actually be sent.
func (m *Mailer) Enabled() bool {
	return m.enabled
}

func (m *Mailer) NotifyCheckIn(ctx context.Context, ev ports.CheckInEvent) error {
	if !m.enabled {
		metrics.NotificationsTotal.WithLabelValues("checkin", "skipped").Inc()
		return nil
	}

	subject := "Attendance — shift check-in"
	body := fmt.Sprintf(
		`<div style="font-family:Arial"><h2 style="margin:0;color:#0b2a4a;">Shift check-in</h2>
<p style="margin:8px 0 0;">Employee <b>%s</b> checked in at <b>%s</b>.</p></div>`,
		ev.EmployeeName, ev.Time,
	)

	if err := m.send(ctx, subject, body); err != nil {
		return err
	}
	metrics.NotificationsTotal.WithLabelValues("checkin", "sent").Inc()
	return nil
}

func (m *Mailer) NotifyCheckOut(ctx context.Context, ev ports.CheckOutEvent) error {
	if !m.enabled {
		metrics.NotificationsTotal.WithLabelValues("checkout", "skipped").Inc()
		return nil
	}

	subject := "Attendance — shift check-out"
	body := fmt.Sprintf(
		`<div style="font-family:Arial"><h2 style="margin:0;color:#0b2a4a;">Shift check-out</h2>
<p style="margin:8px 0 0;">Employee <b>%s</b> checked out at <b>%s</b>.</p>
<p style="margin:8px 0 0;">Shift duration: <b>%.2f</b> hours | 30-day total: <b>%.2f</b> hours</p></div>`,
		ev.EmployeeName, ev.Time, ev.ShiftHours, ev.TotalHours30d,
	)

	if err := m.send(ctx, subject, body); err != nil {
		return err
	}
	metrics.NotificationsTotal.WithLabelValues("checkout", "sent").Inc()
	return nil
}

func (m *Mailer) send(ctx context.Context, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("mailer from: %w", err)
	}
	if err := msg.To(m.cfg.Owner); err != nil {
		return fmt.Errorf("mailer to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	opts := []mail.Option{mail.WithPort(m.cfg.Port), mail.WithTLSPolicy(mail.TLSOpportunistic)}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("mailer client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mailer send: %w", err)
	}
	return nil
}
