// Package mailer delivers confirmation-code emails.
package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/smtp"
	"sync"
	"time"

	"media-review/pkg/utils"

	"github.com/jordan-wright/email"
	"go.uber.org/zap"
)

const (
	BackendSMTP = "smtp"
	BackendLog  = "log"

	defaultTimeout = 10 * time.Second
	poolSize       = 4
)

// Mailer sends one plain-text message.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// New builds the backend selected by config.
func New(config utils.EmailConfig, log *zap.Logger) (Mailer, error) {
	switch config.Backend {
	case BackendSMTP:
		return NewSMTPMailer(config, log)
	case BackendLog, "":
		return NewLogMailer(log), nil
	default:
		return nil, fmt.Errorf("unknown mail backend %q", config.Backend)
	}
}

// ==================== SMTP ====================

type SMTPMailer struct {
	from      string
	addr      string
	port      int
	auth      smtp.Auth
	tlsConfig *tls.Config
	pool      *email.Pool
	log       *zap.Logger
}

func NewSMTPMailer(config utils.EmailConfig, log *zap.Logger) (*SMTPMailer, error) {
	if config.Host == "" {
		return nil, errors.New("SMTP_HOST is required for the smtp mail backend")
	}

	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)

	var auth smtp.Auth
	if config.User != "" {
		auth = smtp.PlainAuth("", config.User, config.Password, config.Host)
	}

	tlsConfig := &tls.Config{
		ServerName: config.Host,
		MinVersion: tls.VersionTLS12,
	}

	m := &SMTPMailer{
		from:      config.From,
		addr:      addr,
		port:      config.Port,
		auth:      auth,
		tlsConfig: tlsConfig,
		log:       log.With(zap.String("mailer", BackendSMTP)),
	}

	// 465 is implicit TLS, which the pool cannot speak; it sends per message instead
	if config.Port != 465 {
		pool, err := email.NewPool(addr, poolSize, auth, tlsConfig)
		if err != nil {
			return nil, fmt.Errorf("create smtp pool %s: %w", addr, err)
		}
		m.pool = pool
	}

	return m, nil
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if m.pool == nil {
		return m.sendTLS(ctx, e)
	}

	timeout := defaultTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if timeout <= 0 {
		return context.DeadlineExceeded
	}

	if err := m.pool.Send(e, timeout); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

func (m *SMTPMailer) sendTLS(ctx context.Context, e *email.Email) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- e.SendWithTLS(m.addr, m.auth, m.tlsConfig)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("send mail to %v: %w", e.To, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *SMTPMailer) Close() {
	if m.pool != nil {
		m.pool.Close()
	}
}

// ==================== LOG ====================

// LogMailer writes messages to the log instead of sending them. Development only.
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log.With(zap.String("mailer", BackendLog))}
}

func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.log.Info("Email",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}

// ==================== ASYNC DISPATCH ====================

// Dispatcher sends mail in the background so requests never wait on SMTP.
type Dispatcher struct {
	mailer  Mailer
	timeout time.Duration
	log     *zap.Logger
	wg      sync.WaitGroup
}

func NewDispatcher(mailer Mailer, timeout time.Duration, log *zap.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Dispatcher{
		mailer:  mailer,
		timeout: timeout,
		log:     log.With(zap.String("component", "mail_dispatcher")),
	}
}

// Dispatch returns immediately; failures are logged, not reported.
func (d *Dispatcher) Dispatch(to, subject, body string) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.mailer.Send(ctx, to, subject, body); err != nil {
			d.log.Error("Failed to send email",
				zap.Error(err),
				zap.String("to", to),
			)
			return
		}
		d.log.Debug("Email sent", zap.String("to", to))
	}()
}

// Wait blocks until every dispatched message has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
