package services

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"joyland-backend/internal/models"
)

type EmailService struct {
	host        string
	port        string
	user        string
	pass        string
	from        string
	frontendURL string
	devMode     bool
}

func NewEmailService(host, port, user, pass, from, frontendURL string) *EmailService {
	devMode := host == "" || user == ""
	if devMode {
		log.Println("⚠ Email service running in DEV MODE (logging to console)")
	}
	return &EmailService{
		host:        host,
		port:        port,
		user:        user,
		pass:        pass,
		from:        from,
		frontendURL: frontendURL,
		devMode:     devMode,
	}
}

func (s *EmailService) SendRegistrationReceived(to string) error {
	return s.send(to, "Registration received",
		"Thanks — we received your application. We will review it and get back to you soon.")
}

func (s *EmailService) NotifyAdminOfRegistration(adminEmail string, req *models.RegistrationRequest) error {
	subject := fmt.Sprintf("New registration request: %s", req.UserType)
	body := fmt.Sprintf(
		"A new %s registration request was submitted by %s <%s>.\n\nReview it in the admin portal.",
		req.UserType, req.FullName(), req.Email,
	)
	return s.send(adminEmail, subject, body)
}

func (s *EmailService) SendApprovalLogin(to, fullName, token string) error {
	loginURL := fmt.Sprintf("%s/one-time-login?token=%s", s.frontendURL, token)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour registration has been approved. Use the link below to sign in and set your password:\n\n%s\n\nThis link expires in 48 hours and can be used once.",
		fullName, loginURL,
	)
	return s.send(to, "Your Joyland Schools registration was approved", body)
}

func (s *EmailService) SendWelcome(to, fullName, username, password string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nYour account has been created.\nUsername: %s\nPassword: %s\n\nPlease login and change your password.",
		fullName, username, password,
	)
	return s.send(to, "Your Joyland Schools account", body)
}

func (s *EmailService) send(to, subject, body string) error {
	if s.devMode {
		log.Printf("📧 [DEV EMAIL] To: %s | Subject: %s", to, subject)
		log.Printf("📧 Body:\n%s", body)
		return nil
	}

	headers := []string{
		fmt.Sprintf("From: %s", s.from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
	}

	message := strings.Join(headers, "\r\n") + "\r\n\r\n" + body

	auth := smtp.PlainAuth("", s.user, s.pass, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(message))
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	log.Printf("📧 Email sent to %s: %s", to, subject)
	return nil
}
