package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sunr3d/backuper/internal/interfaces/infra"
)

var (
	ErrConnect = errors.New("не удалось подключиться к SMTP серверу")
	ErrAuth    = errors.New("ошибка SMTP аутентификации")
	ErrSend    = errors.New("не удалось отправить письмо")
)

const dialTimeout = 30 * time.Second

var _ infra.Mailer = (*Mailer)(nil)

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	// ImplicitTLS: TLS сразу при подключении (порт 465), иначе STARTTLS, если сервер его поддерживает.
	ImplicitTLS bool
}

type Mailer struct {
	cfg    Config
	logger *zap.Logger
}

func New(log *zap.Logger, cfg Config) *Mailer {
	return &Mailer{cfg: cfg, logger: log}
}

func (m *Mailer) SendMail(ctx context.Context, msg infra.Message) error {
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))

	conn, err := m.dial(ctx, addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnect, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnect, err)
	}
	defer client.Close()

	if !m.cfg.ImplicitTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Host, MinVersion: tls.VersionTLS12}); err != nil {
				return fmt.Errorf("%w: STARTTLS: %v", ErrConnect, err)
			}
		}
	}

	if m.cfg.User != "" && m.cfg.Password != "" {
		if err := client.Auth(smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)); err != nil {
			return fmt.Errorf("%w: %v", ErrAuth, err)
		}
	}

	if err := client.Mail(msg.From); err != nil {
		return fmt.Errorf("%w: MAIL FROM: %v", ErrSend, err)
	}
	for _, rcpt := range splitAddresses(msg.To) {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("%w: RCPT TO %s: %v", ErrSend, rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("%w: DATA: %v", ErrSend, err)
	}
	if _, err := w.Write(buildMessage(msg, time.Now())); err != nil {
		return fmt.Errorf("%w: %v", ErrSend, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrSend, err)
	}

	if err := client.Quit(); err != nil {
		m.logger.Debug("ошибка завершения SMTP сессии", zap.Error(err))
	}
	return nil
}

func (m *Mailer) dial(ctx context.Context, addr string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: dialTimeout}
	if m.cfg.ImplicitTLS {
		tlsDialer := &tls.Dialer{
			NetDialer: dialer,
			Config:    &tls.Config{ServerName: m.cfg.Host, MinVersion: tls.VersionTLS12},
		}
		return tlsDialer.DialContext(ctx, "tcp", addr)
	}
	return dialer.DialContext(ctx, "tcp", addr)
}

func buildMessage(msg infra.Message, date time.Time) []byte {
	var b strings.Builder
	b.WriteString("From: " + msg.From + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject) + "\r\n")
	b.WriteString("Date: " + date.Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(strings.ReplaceAll(msg.Text, "\r\n", "\n"), "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String())
}

func splitAddresses(s string) []string {
	var out []string
	for _, a := range strings.Split(s, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}
