package middleware

import "github.com/labstack/echo/v4"

// UserIDKey is the echo context key holding the authenticated user ID.
const UserIDKey = "user_id"

// UserID returns the user ID attached by JWTAuth.
func UserID(c echo.Context) (string, bool) {
	id, ok := c.Get(UserIDKey).(string)
	return id, ok && id != ""
}

// userOrAnon is used for rate-limit keys on routes that may be unauthenticated.
func userOrAnon(c echo.Context) string {
	if id, ok := UserID(c); ok {
		return id
	}
	return "anon"
}
