// Package session reads and writes the signed-in user id on the cookie-backed
// server-side session.
package session

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// CookieName identifies the session cookie presented by clients.
const CookieName = "qid"

const userIdKey = "USER_ID"

// SetUserId establishes a session identity for the given user.
func SetUserId(c *gin.Context, userId int) error {
	s := sessions.Default(c)
	s.Set(userIdKey, userId)
	return s.Save()
}

// GetUserId returns the signed-in user id, or false when the request has no
// session identity.
func GetUserId(c *gin.Context) (int, bool) {
	s := sessions.Default(c)
	if obj := s.Get(userIdKey); obj != nil {
		if id, ok := obj.(int); ok {
			return id, true
		}
	}
	return 0, false
}

// Destroy removes the server-side session record and expires the cookie.
func Destroy(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{
		Path:   "/",
		MaxAge: -1,
	})
	return s.Save()
}
