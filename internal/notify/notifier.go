// internal/notify/notifier.go

// Package notify delivers email and SMS alerts when an application reaches
// a decisive status. Delivery is best effort: failures are logged, never
// surfaced to the request that triggered them.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"

	"jobtrack/internal/common/config"
	"jobtrack/internal/common/logger"
	"jobtrack/internal/models"
)

const sendTimeout = 10 * time.Second

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Notifier watches committed transitions and alerts on OFFER and REJECTED.
// It satisfies the api.TransitionListener interface.
type Notifier struct {
	cfg    config.NotificationConfig
	ses    SESService
	sns    SNSService
	logger logger.Logger
}

func New(cfg config.NotificationConfig, sesClient SESService, snsClient SNSService, log logger.Logger) *Notifier {
	return &Notifier{
		cfg:    cfg,
		ses:    sesClient,
		sns:    snsClient,
		logger: log.WithFields(map[string]interface{}{"component": "notify"}),
	}
}

// StatusChanged fires the configured channels when the new status warrants
// an alert. It returns immediately; sends happen on their own goroutine
// with their own deadline, detached from the request context.
func (n *Notifier) StatusChanged(ctx context.Context, app *models.Application, result *models.TransitionResult) {
	if !n.cfg.Enabled || !decisive(result.To) {
		return
	}

	subject, body := n.renderMessage(app, result)
	go n.send(subject, body)
}

func decisive(status models.Status) bool {
	return status == models.StatusOffer || status == models.StatusRejected
}

func (n *Notifier) renderMessage(app *models.Application, result *models.TransitionResult) (subject, body string) {
	subject = fmt.Sprintf("[%s] %s at %s", result.To, app.Position, app.Company)
	body = fmt.Sprintf("Application #%d (%s at %s) moved from %s to %s.",
		app.ID, app.Position, app.Company, result.From, result.To)
	return subject, body
}

func (n *Notifier) send(subject, body string) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if n.cfg.SES.Enabled && n.ses != nil {
		if err := n.sendEmail(ctx, subject, body); err != nil {
			n.logger.Error("email send failed", map[string]interface{}{
				"error": err.Error(),
				"to":    n.cfg.SES.ToEmail,
			})
		}
	}
	if n.cfg.SNS.Enabled && n.sns != nil {
		if err := n.sendSMS(ctx, body); err != nil {
			n.logger.Error("SMS send failed", map[string]interface{}{
				"error": err.Error(),
				"phone": n.cfg.SNS.PhoneNumber,
			})
		}
	}
}

func (n *Notifier) sendEmail(ctx context.Context, subject, body string) error {
	_, err := n.ses.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{n.cfg.SES.ToEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.cfg.SES.FromEmail),
	})
	return err
}

func (n *Notifier) sendSMS(ctx context.Context, message string) error {
	input := &sns.PublishInput{
		PhoneNumber: aws.String(n.cfg.SNS.PhoneNumber),
		Message:     aws.String(message),
	}
	if n.cfg.SNS.SenderID != "" {
		input.MessageAttributes = map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {
				DataType:    aws.String("String"),
				StringValue: aws.String(n.cfg.SNS.SenderID),
			},
		}
	}
	_, err := n.sns.Publish(ctx, input)
	return err
}
