package constants

const (
	HeaderRequestIDKey    = "X-Request-ID"
	HeaderLoginTokenKey   = "X-Admin-JWT-Token"
	HeaderRefreshTokenKey = "X-Admin-Refresh-Token"
)

const ServiceName = "Codeforces-Submit-Bot"

const (
	ContextAdminClaimsKey = "X-Admin-Claims"
)
