package constants

import "time"

const (
	// Session
	SessionCookieName     = "donation_session"
	ContextKeyUserID      = "user_id"
	ContextKeyRole        = "user_role"
	ContextKeyCurrentUser = "current_user"

	// Validation
	MinPasswordLength = 8

	// Pagination
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// Webhook delivery is a single synchronous attempt bounded by this
	// timeout; failures are logged and never retried.
	DefaultWebhookTimeout = 10 * time.Second
)
