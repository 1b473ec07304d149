// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"recipepress/internal/models"
)

// SESAPI is the subset of the SES client the notifier uses. Tests supply
// a fake to observe the exact request.
type SESAPI interface {
	SendBulkTemplatedEmail(ctx context.Context, params *ses.SendBulkTemplatedEmailInput, optFns ...func(*ses.Options)) (*ses.SendBulkTemplatedEmailOutput, error)
}

// UserLister enumerates the registered users who receive notifications.
type UserLister interface {
	List() ([]models.User, error)
}

// Options holds the SES sending settings.
type Options struct {
	// BaseURL is the public site root, interpolated into email links.
	BaseURL string
	// IdentityARN authorises sending from Source. Empty disables the
	// notifier entirely.
	IdentityARN string
	// Source is the verified From address.
	Source string
	// Template is the name of the SES email template. The template must
	// already exist in the SES account.
	Template string
}

// SES notifies registered users through one bulk templated send per event.
// Recipient addresses must be verified identities while the SES account is
// in sandbox mode.
type SES struct {
	client SESAPI
	users  UserLister
	opts   Options
}

// NewSES builds an SES notifier using the default AWS credential chain
// (environment, shared config, instance role).
func NewSES(ctx context.Context, users UserLister, opts Options) (*SES, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SES{
		client: ses.NewFromConfig(cfg),
		users:  users,
		opts:   opts,
	}, nil
}

// templateData is the per-recipient payload the SES template renders.
type templateData struct {
	BaseURL          string `json:"base_url"`
	ItemName         string `json:"item_name"`
	ItemURLPath      string `json:"item_url_path"`
	ItemImageURLPath string `json:"item_image_url_path"`
	Username         string `json:"username"`
	Email            string `json:"email"`
}

// ItemPublished sends one templated email to every registered user in a
// single bulk call. With no identity ARN configured, or no users to
// address, it logs and returns nil.
func (s *SES) ItemPublished(ctx context.Context, ev ItemEvent) error {
	if s.opts.IdentityARN == "" {
		slog.Info("email notifications disabled: no SES identity configured",
			"item", ev.ItemName)
		return nil
	}

	users, err := s.users.List()
	if err != nil {
		return fmt.Errorf("list notification recipients: %w", err)
	}
	if len(users) == 0 {
		slog.Info("no registered users to notify", "item", ev.ItemName)
		return nil
	}

	itemPath := "/items/" + ev.CategorySlug + "/" + ev.ItemSlug
	caser := cases.Title(language.English)

	destinations := make([]types.BulkEmailDestination, 0, len(users))
	for _, u := range users {
		data, err := json.Marshal(templateData{
			BaseURL:          s.opts.BaseURL,
			ItemName:         ev.ItemName,
			ItemURLPath:      itemPath,
			ItemImageURLPath: ev.ThumbnailURL,
			Username:         caser.String(u.Username),
			Email:            u.Email,
		})
		if err != nil {
			return fmt.Errorf("marshal template data: %w", err)
		}
		destinations = append(destinations, types.BulkEmailDestination{
			Destination: &types.Destination{
				ToAddresses: []string{u.Email},
			},
			ReplacementTemplateData: aws.String(string(data)),
		})
	}

	defaultData, err := json.Marshal(map[string]string{"base_url": s.opts.BaseURL})
	if err != nil {
		return fmt.Errorf("marshal default template data: %w", err)
	}

	out, err := s.client.SendBulkTemplatedEmail(ctx, &ses.SendBulkTemplatedEmailInput{
		Source:              aws.String(s.opts.Source),
		SourceArn:           aws.String(s.opts.IdentityARN),
		Template:            aws.String(s.opts.Template),
		DefaultTemplateData: aws.String(string(defaultData)),
		ReplyToAddresses:    []string{},
		DefaultTags:         []types.MessageTag{},
		Destinations:        destinations,
	})
	if err != nil {
		return fmt.Errorf("send bulk templated email: %w", err)
	}

	slog.Info("item notification sent",
		"item", ev.ItemName,
		"recipients", len(destinations),
		"statuses", len(out.Status))
	return nil
}
