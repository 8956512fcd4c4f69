package callxredis

import "github.com/Abraxas-365/callx/pkg/errx"

var redisErrors = errx.NewRegistry("CALLX_REDIS")

var (
	ErrRecord    = redisErrors.Register("RECORD", errx.TypeExternal, 500, "Redis record failed")
	ErrGet       = redisErrors.Register("GET", errx.TypeExternal, 500, "Redis get summary failed")
	ErrRecent    = redisErrors.Register("RECENT", errx.TypeExternal, 500, "Redis recent summaries failed")
	ErrNotFound  = redisErrors.Register("NOT_FOUND", errx.TypeNotFound, 404, "Summary not found in Redis")
	ErrMarshal   = redisErrors.Register("MARSHAL", errx.TypeInternal, 500, "Failed to marshal summary")
	ErrUnmarshal = redisErrors.Register("UNMARSHAL", errx.TypeInternal, 500, "Failed to unmarshal summary")
)
