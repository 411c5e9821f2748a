package common

// AuthorizationHeaderName is the HTTP header carrying the access token on
// protected requests.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the expected scheme prefix of the Authorization header.
const BearerScheme = "Bearer"
