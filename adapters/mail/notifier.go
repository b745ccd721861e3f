package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"

	"github.com/andarie1/task-manager/core"
)

var ErrNoRecipient = errors.New("task owner has no email")

type Settings struct {
	From     string
	Host     string
	Port     int
	User     string
	Password string
}

// SendFunc is smtp.SendMail bound to a context.
type SendFunc func(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Notifier reports task status changes to the task owner.
type Notifier struct {
	log      *slog.Logger
	settings Settings
	send     SendFunc
}

var _ core.Notifier = (*Notifier)(nil)

func New(log *slog.Logger, s Settings) *Notifier {
	return &Notifier{log: log, settings: s, send: SendMail}
}

// WithSender swaps the SMTP transport, mostly for tests.
func (n *Notifier) WithSender(send SendFunc) *Notifier {
	n.send = send
	return n
}

func (n *Notifier) TaskStatusChanged(ctx context.Context, c core.StatusChange) error {
	subject, body := message(c)
	n.log.Info(body, "task_id", c.Task.ID, "from", c.From, "to", c.To)

	if n.settings.From == "" {
		return nil
	}
	if c.OwnerEmail == "" {
		return ErrNoRecipient
	}

	addr := net.JoinHostPort(n.settings.Host, strconv.Itoa(n.settings.Port))

	var auth smtp.Auth
	if n.settings.User != "" {
		auth = smtp.PlainAuth("", n.settings.User, n.settings.Password, n.settings.Host)
	}

	msg := "From: " + n.settings.From + "\r\n" +
		"To: " + c.OwnerEmail + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		body + "\r\n"

	if err := n.send(ctx, addr, auth, n.settings.From, []string{c.OwnerEmail}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func message(c core.StatusChange) (subject, body string) {
	subject = fmt.Sprintf("Task %q is now %s", c.Task.Title, c.To)
	body = fmt.Sprintf("task %q changed status from %s to %s", c.Task.Title, c.From, c.To)
	return subject, body
}

// SendMail does what smtp.SendMail does, but the whole exchange is bounded by ctx:
// the dial honours it, its deadline applies to every read and write, and
// cancellation closes the connection.
func SendMail(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}

	conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			_ = conn.Close()
			return err
		}
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	c, err := smtp.NewClient(conn, host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return err
		}
	}
	if a != nil {
		if ok, _ := c.Extension("AUTH"); !ok {
			return errors.New("smtp: server doesn't support AUTH")
		}
		if err := c.Auth(a); err != nil {
			return err
		}
	}

	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}
