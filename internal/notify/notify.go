// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package notify sends email notifications to registered users when new
// content is published. The only implementation talks to AWS SES using a
// pre-provisioned email template; a disabled notifier (no sending identity
// configured) is a silent no-op so content publishing never depends on
// email being set up.
package notify

import "context"

// ItemEvent describes a published item. The notifier composes the public
// URL paths for the email template from the slugs.
type ItemEvent struct {
	ItemName     string
	CategorySlug string
	ItemSlug     string
	ThumbnailURL string
}

// Notifier delivers publish notifications to all registered users.
type Notifier interface {
	// ItemPublished announces a newly published item. Implementations
	// decide delivery; a no-op return is valid when notifications are
	// disabled.
	ItemPublished(ctx context.Context, ev ItemEvent) error
}
