package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/calebmartin/inkwell/internal/models"
	"github.com/calebmartin/inkwell/pkg/logger"
)

// SESMailer delivers mail through AWS SES. Selected with MAIL_PROVIDER=ses
// for deployments that relay through SES instead of an SMTP account.
type SESMailer struct {
	client      *ses.Client
	fromAddress string
	logger      *slog.Logger
}

func NewSESMailer(ctx context.Context, region, fromAddress string, log *slog.Logger) (*SESMailer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SESMailer{
		client:      ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		logger:      log,
	}, nil
}

func (m *SESMailer) Send(ctx context.Context, to, subject, body string) error {
	input := &ses.SendEmailInput{
		Source: aws.String(m.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(body),
				},
			},
		},
	}

	result, err := m.client.SendEmail(ctx, input)
	if err != nil {
		m.logger.Error("mail delivery failed",
			slog.String("to", logger.SanitizedEmail(to)),
			slog.Any("error", err))
		return fmt.Errorf("%w: %v", models.ErrDeliveryFailure, err)
	}

	m.logger.Info("mail delivered",
		slog.String("to", logger.SanitizedEmail(to)),
		slog.String("message_id", aws.ToString(result.MessageId)))

	return nil
}
