// Package managers handles the sending of emails for account verification, password reset and confirmation
// using the Mailgun service and the Hermes package for email formatting.
package managers

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/matcornic/hermes/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"gadget-server/internal/config"
)

// MailMgr is an interface that outlines the contract for email management.
type MailMgr interface {
	SendVerificationMail(ctx context.Context, email, name, link string) error
	SendPasswordResetMail(ctx context.Context, email, name, link string) error
	SendConfirmationMail(ctx context.Context, email, name string) error
}

// MailManager is a concrete implementation of the MailMgr interface.
// It uses the Mailgun service for sending emails and the Hermes package for formatting emails.
type MailManager struct {
	Hermes      *hermes.Hermes
	Mailgun     mailgun.Mailgun
	from        string
	serviceName string
	production  bool
}

const sendTimeout = 5 * time.Second

// SendVerificationMail sends the link a new user has to open to verify the email address.
func (mm *MailManager) SendVerificationMail(ctx context.Context, email, name, link string) error {
	mailBody := hermes.Email{
		Body: hermes.Body{
			Name: name,
			Intros: []string{
				fmt.Sprintf("Welcome to %s! We're very excited to have you on board.", mm.serviceName),
			},
			Actions: []hermes.Action{
				{
					Instructions: "To verify your email address, please click the button below. The link expires in one hour.",
					Button: hermes.Button{
						Color: "#22BC66",
						Text:  "Verify your account",
						Link:  link,
					},
				},
			},
			Outros: []string{
				"If you did not create an account, no further action is required.",
			},
		},
	}

	return mm.send(ctx, email, "Verify your account", mailBody, link)
}

// SendPasswordResetMail sends the link that starts a password reset.
func (mm *MailManager) SendPasswordResetMail(ctx context.Context, email, name, link string) error {
	mailBody := hermes.Email{
		Body: hermes.Body{
			Name: name,
			Intros: []string{
				fmt.Sprintf("You have received this email because a password reset request for your %s account was received.", mm.serviceName),
			},
			Actions: []hermes.Action{
				{
					Instructions: "Click the button below to reset your password. The link expires in one hour.",
					Button: hermes.Button{
						Color: "#DC4D2F",
						Text:  "Reset your password",
						Link:  link,
					},
				},
			},
			Outros: []string{
				"If you did not request a password reset, no further action is required on your part.",
			},
			Signature: "Thanks",
		},
	}

	return mm.send(ctx, email, "Reset your password", mailBody, link)
}

// SendConfirmationMail sends a confirmation email to a user to confirm that their account has been verified.
func (mm *MailManager) SendConfirmationMail(ctx context.Context, email, name string) error {
	mailBody := hermes.Email{
		Body: hermes.Body{
			Name: name,
			Intros: []string{
				"Your account has been successfully verified!",
			},
			Outros: []string{
				fmt.Sprintf("Have fun shopping at %s!", mm.serviceName),
			},
		},
	}

	return mm.send(ctx, email, "Account successfully verified", mailBody, "")
}

func (mm *MailManager) send(ctx context.Context, email, subject string, body hermes.Email, link string) error {
	if !mm.production {
		log.WithFields(log.Fields{"to": email, "link": link}).Info("Skipping mail \"" + subject + "\" in development mode")
		return nil
	}

	html, err := mm.Hermes.GenerateHTML(body)
	if err != nil {
		return errors.Wrap(err, "render mail")
	}
	text, err := mm.Hermes.GeneratePlainText(body)
	if err != nil {
		return errors.Wrap(err, "render mail")
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	message := mm.Mailgun.NewMessage(mm.from, subject, text, email)
	message.SetHtml(html)
	if _, _, err := mm.Mailgun.Send(ctx, message); err != nil {
		log.Warning("Error sending mail \"" + subject + "\": " + err.Error())
		return errors.Wrap(err, "send mail")
	}
	log.Debug("Mail \""+subject+"\" sent to ", email)

	return nil
}

// NewMailManager initializes a new MailManager instance with configured Mailgun and Hermes settings.
// Outside production no mail is sent, the links are logged instead.
func NewMailManager(cfg *config.Config) MailMgr {
	log.Info("Initializing mail manager")

	if !cfg.IsProduction() {
		log.Info("Running in development mode, email will not be sent to users")
	}

	mailgunInstance := mailgun.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey)
	if cfg.MailgunEU {
		mailgunInstance.SetAPIBase(mailgun.APIBaseEU)
	}

	mm := &MailManager{
		Hermes: &hermes.Hermes{
			Theme:         new(hermes.Default),
			TextDirection: hermes.TDLeftToRight,
			Product: hermes.Product{
				Name:        cfg.ServiceName,
				Link:        cfg.BaseURL,
				Copyright:   "© " + cfg.ServiceName,
				TroubleText: "If you're having trouble with the button '{ACTION}', copy and paste the URL below into your web browser.",
			},
		},
		Mailgun:     mailgunInstance,
		from:        cfg.MailFrom,
		serviceName: cfg.ServiceName,
		production:  cfg.IsProduction(),
	}
	log.Info("Initialized mail manager")
	return mm
}
