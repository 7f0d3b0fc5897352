package mailer

import (
	"account-portal/app/server/config"
	"context"
	"fmt"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
	"time"
)

// Mailer 负责把验证与重设密码的链接寄给用户
type Mailer struct {
	l    *zap.Logger
	cfg  config.Mail
	send func(ctx context.Context, msg *mail.Msg) error
}

func New(l *zap.Logger, cfg config.Mail) *Mailer {
	m := &Mailer{
		l:   l,
		cfg: cfg,
	}
	m.send = m.dialAndSend
	return m
}

// DevMode 没有配置 SMTP 帐号时不实际发送，只记录到日志
func (m *Mailer) DevMode() bool {
	return m.cfg.Username == "" || m.cfg.Password == ""
}

func (m *Mailer) SendVerification(ctx context.Context, to string, username string, link string) error {
	return m.deliver(ctx, to, verificationSubject, verificationMail, mailData{Username: username, Link: link})
}

func (m *Mailer) SendPasswordReset(ctx context.Context, to string, username string, link string) error {
	return m.deliver(ctx, to, resetSubject, resetMail, mailData{Username: username, Link: link})
}

func (m *Mailer) deliver(ctx context.Context, to string, subject string, tmpl mailTemplate, data mailData) error {
	textBody, htmlBody, err := tmpl.render(data)
	if err != nil {
		return fmt.Errorf("render mail: %w", err)
	}

	if m.DevMode() {
		m.l.Info("mail not sent (no SMTP credentials)",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.String("body", textBody),
		)
		return nil
	}

	// 建立邮件
	msg := mail.NewMsg()
	if err = msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err = msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, textBody)
	msg.AddAlternativeString(mail.TypeTextHTML, htmlBody)

	// 发送邮件
	if err = m.send(ctx, msg); err != nil {
		m.l.Error("failed to send mail", zap.String("to", to), zap.String("subject", subject), zap.Error(err))
		return fmt.Errorf("send mail: %w", err)
	}

	return nil
}

func (m *Mailer) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	tlsPolicy := mail.NoTLS
	if m.cfg.UseTLS {
		tlsPolicy = mail.TLSMandatory
	}

	client, err := mail.NewClient(m.cfg.Server,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTLSPolicy(tlsPolicy),
		mail.WithTimeout(15*time.Second),
	)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	return client.DialAndSendWithContext(ctx, msg)
}
