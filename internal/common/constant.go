package common

// AuthorizationHeader is the HTTP header carrying the bearer token.
const AuthorizationHeader = "Authorization"

// BearerPrefix is the scheme prefix expected in AuthorizationHeader,
// including the separating space.
const BearerPrefix = "Bearer "

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-Id"
