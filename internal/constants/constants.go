package constants

import "time"

// Validation limits.
const (
	MinTaskNameLength    = 3
	MaxTaskNameLength    = 255
	MaxDescriptionLength = 5000
	MaxCodeLength        = 1_000_000
	MaxExplanationLength = 100_000
	MinPasswordLength    = 5
	MaxPasswordLength    = 255
)

// Pagination.
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Auth cookies and token lifetimes.
const (
	AccessCookieName  = "access_token"
	RefreshCookieName = "refresh_token"
	AccessTokenTTL    = 15 * time.Minute
	RefreshTokenTTL   = 7 * 24 * time.Hour
)

// ContextKeyUserID is the gin context key carrying the authenticated user id.
const ContextKeyUserID = "user_id"

// ContextKeyIsStaff is the gin context key carrying the staff flag.
const ContextKeyIsStaff = "is_staff"

// Reference cache.
const (
	ReferenceCacheTTL = time.Hour
)
