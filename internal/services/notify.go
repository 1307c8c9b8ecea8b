package services

import (
	"fmt"
	"log"
	"net/smtp"
	"strconv"
	"strings"
)

// Mailer sends the workflow's templated notifications over SMTP. Every
// send is best-effort: callers log failures and never surface them.
// With no SMTP credentials configured the message is logged instead of
// sent, so local development works without a mail provider.
type Mailer struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromEmail   string
	FromName    string
	AdminNotify string
}

func (m Mailer) configured() bool {
	return m.Host != "" && m.Username != "" && m.Password != ""
}

func (m Mailer) SendSubmissionReceived(toEmail, name, title string) error {
	subject := "We received your story"
	body := fmt.Sprintf(
		"Hello %s,\n\nThank you for sharing your story %q. Our team will review it and you will hear from us once a decision has been made.\n\n%s",
		name, title, m.signature())
	if err := m.send(toEmail, subject, body); err != nil {
		return err
	}
	if m.AdminNotify != "" {
		adminBody := fmt.Sprintf("A new story %q was submitted by %s <%s> and is waiting for review.\n", title, name, toEmail)
		return m.send(m.AdminNotify, "New story submission", adminBody)
	}
	return nil
}

func (m Mailer) SendApproved(toEmail, name, title string) error {
	subject := "Your story has been approved"
	body := fmt.Sprintf(
		"Hello %s,\n\nGood news: your story %q has been approved and is now published.\n\n%s",
		name, title, m.signature())
	return m.send(toEmail, subject, body)
}

func (m Mailer) SendRejected(toEmail, name, title, reason string) error {
	subject := "An update on your story"
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\nThank you for submitting your story %q. After review we are unable to publish it at this time.\n", name, title)
	if strings.TrimSpace(reason) != "" {
		fmt.Fprintf(&b, "\nReviewer note: %s\n", reason)
	}
	b.WriteString("\n" + m.signature())
	return m.send(toEmail, subject, b.String())
}

func (m Mailer) send(toEmail, subject, body string) error {
	if !m.configured() {
		log.Printf("mail (not configured) to=%s subject=%q", toEmail, subject)
		return nil
	}
	from := m.FromEmail
	headers := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n",
		m.FromName, from, toEmail, subject)
	message := headers + body

	addr := m.Host + ":" + strconv.Itoa(m.Port)
	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	if err := smtp.SendMail(addr, auth, from, []string{toEmail}, []byte(message)); err != nil {
		return WrapError(err, "send mail")
	}
	return nil
}

func (m Mailer) signature() string {
	if m.FromName != "" {
		return "Best regards,\n" + m.FromName
	}
	return "Best regards,\nThe review team"
}
