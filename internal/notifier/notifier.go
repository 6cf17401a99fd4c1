// Package notifier sends completion notifications when a wizard reaches its
// terminal Process action. Email goes out through SES, SMS through SNS when
// the applicant has a mobile number on file.
package notifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"philfund-wizard/internal/common/config"
	apperrors "philfund-wizard/internal/common/errors"
	"philfund-wizard/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"
)

// Interfaces mirror the AWS SDK call shapes so tests can stub them.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Recipient is the contact information pulled from the processed submission.
type Recipient struct {
	Name   string
	Email  string
	Mobile string
}

// Result records what a Send attempt actually delivered.
type Result struct {
	NotificationID string
	EmailSent      bool
	SMSSent        bool
	SentAt         string
}

type Notifier struct {
	cfg       config.NotificationConfig
	ses       SESService
	sns       SNSService
	logger    logger.Logger
	templates map[string]template
}

type template struct {
	subject string
	body    string
}

func New(cfg config.NotificationConfig, sesClient SESService, snsClient SNSService, log logger.Logger) *Notifier {
	return &Notifier{
		cfg:       cfg,
		ses:       sesClient,
		sns:       snsClient,
		logger:    log,
		templates: defaultTemplates(),
	}
}

// Send delivers the processed notification for one wizard submission. A
// missing template is a programming error and fails hard; a transport failure
// comes back as a retryable notification error.
func (n *Notifier) Send(ctx context.Context, wizardID, referenceNo string, recipient Recipient) (*Result, error) {
	result := &Result{
		NotificationID: uuid.New().String(),
		SentAt:         time.Now().UTC().Format(time.RFC3339),
	}

	if !n.cfg.Enabled {
		return result, nil
	}

	tmpl, ok := n.templates[wizardID]
	if !ok {
		return nil, fmt.Errorf("no notification template for wizard: %s", wizardID)
	}

	data := map[string]interface{}{
		"name":        recipient.Name,
		"referenceNo": referenceNo,
	}
	subject := render(tmpl.subject, data)
	body := render(tmpl.body, data)

	if recipient.Email != "" {
		if err := n.sendEmail(ctx, recipient.Email, subject, body); err != nil {
			n.logger.WithError(err).Error("email send failed", map[string]interface{}{
				"wizard":      wizardID,
				"referenceNo": referenceNo,
			})
			return nil, apperrors.NewNotificationSendFailedError("email", err)
		}
		result.EmailSent = true
	}

	if recipient.Mobile != "" {
		message := body
		if n.cfg.SMSPrefix != "" {
			message = n.cfg.SMSPrefix + " " + body
		}
		if err := n.sendSMS(ctx, recipient.Mobile, message); err != nil {
			n.logger.WithError(err).Error("SMS send failed", map[string]interface{}{
				"wizard":      wizardID,
				"referenceNo": referenceNo,
			})
			return nil, apperrors.NewNotificationSendFailedError("sms", err)
		}
		result.SMSSent = true
	}

	return result, nil
}

func (n *Notifier) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := n.ses.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.cfg.FromEmail),
	})
	return err
}

func (n *Notifier) sendSMS(ctx context.Context, to, message string) error {
	_, err := n.sns.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	})
	return err
}

func render(tmpl string, data map[string]interface{}) string {
	result := tmpl
	for k, v := range data {
		result = strings.ReplaceAll(result, "{{"+k+"}}", fmt.Sprintf("%v", v))
	}
	return result
}

func defaultTemplates() map[string]template {
	return map[string]template{
		"borrower-profile": {
			subject: "Borrower Profile Processed",
			body:    "Hello {{name}}, your borrower profile {{referenceNo}} has been processed.",
		},
		"cash-advance": {
			subject: "Cash Advance Processed",
			body:    "Hello {{name}}, your cash advance {{referenceNo}} has been processed and is ready for release.",
		},
		"loan-computation": {
			subject: "Loan Application Processed",
			body:    "Hello {{name}}, your loan application {{referenceNo}} has been processed.",
		},
	}
}
