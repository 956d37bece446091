package middleware

import "github.com/gear6io/mcwire/pkg/errors"

// Session middleware error codes
var (
	ErrPoolAtCapacity = errors.MustNewCode("middleware.pool_at_capacity")
	ErrClientBlocked  = errors.MustNewCode("middleware.client_blocked")
	ErrNotWhitelisted = errors.MustNewCode("middleware.not_whitelisted")
)
