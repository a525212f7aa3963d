package service

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/rs/zerolog/log"
)

// EmailService sends mail via Amazon SES. When no sender address is
// configured the service is disabled and every send is a logged no-op.
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
}

// NewEmailService creates a new email service
func NewEmailService(ctx context.Context, awsRegion, fromEmail, fromName, appBaseURL string) (*EmailService, error) {
	if fromEmail == "" {
		log.Info().Msg("email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Info().Str("from", fromEmail).Str("region", awsRegion).Msg("email service enabled")
	return &EmailService{
		client:     sesv2.NewFromConfig(cfg),
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendWelcomeEmail greets a newly registered user.
func (s *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	subject := "Welcome to Wordgallows!"
	textBody := fmt.Sprintf(`Hi %s,

Your Wordgallows account is ready. Start a game, guess letters one at a
time, and climb the leaderboard.

Play now: %s

---
This is an automated email from Wordgallows. Please do not reply.
`, toName, s.appBaseURL)

	htmlBody := fmt.Sprintf(`<html><body>
<p>Hi %s,</p>
<p>Your Wordgallows account is ready. Start a game, guess letters one at a
time, and climb the leaderboard.</p>
<p><a href="%s">Play now</a></p>
<p style="font-size:12px;color:#666">This is an automated email from Wordgallows. Please do not reply.</p>
</body></html>`, toName, s.appBaseURL)

	return s.send(ctx, toEmail, subject, htmlBody, textBody)
}

// SendReminderEmail nudges a user who has games waiting for a move.
func (s *EmailService) SendReminderEmail(ctx context.Context, toEmail, toName string, activeGames int) error {
	subject := "Your Wordgallows games are waiting"
	noun := "games"
	if activeGames == 1 {
		noun = "game"
	}
	textBody := fmt.Sprintf(`Hi %s,

You have %d unfinished %s of Hangman. Come back and make a guess before
the gallows wins by default.

Continue playing: %s

---
This is an automated email from Wordgallows. Please do not reply.
`, toName, activeGames, noun, s.appBaseURL)

	htmlBody := fmt.Sprintf(`<html><body>
<p>Hi %s,</p>
<p>You have %d unfinished %s of Hangman. Come back and make a guess before
the gallows wins by default.</p>
<p><a href="%s">Continue playing</a></p>
<p style="font-size:12px;color:#666">This is an automated email from Wordgallows. Please do not reply.</p>
</body></html>`, toName, activeGames, noun, s.appBaseURL)

	return s.send(ctx, toEmail, subject, htmlBody, textBody)
}

func (s *EmailService) send(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	if !s.enabled {
		log.Debug().Str("to", toEmail).Str("subject", subject).Msg("email service disabled, skipping send")
		return nil
	}

	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	log.Info().Str("to", toEmail).Str("subject", subject).Msg("email sent")
	return nil
}
