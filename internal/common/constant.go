package common

// Cookie names carrying the session tokens.
const (
	AccessTokenCookieName  = "AccessToken"
	RefreshTokenCookieName = "RefreshToken"
)

// BearerScheme is the Authorization header scheme accepted for access tokens.
const BearerScheme = "Bearer"
