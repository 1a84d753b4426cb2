package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"gadget-server/internal/managers"
	"gadget-server/internal/schemas"
	"gadget-server/internal/stores"
	"gadget-server/internal/utils"
)

// Protect admits only requests carrying a valid session cookie of an existing user.
// The user, without the password hash, is stored under AuthUserKey.
func Protect(jwtMgr managers.JWTMgr, users stores.UserStore, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			utils.WriteAndLogError(c, schemas.Unauthorized, errors.New("missing session cookie"))
			return
		}

		claims, err := jwtMgr.ValidateJWT(token, managers.AudienceSession)
		if err != nil {
			utils.WriteAndLogError(c, schemas.Unauthorized, err)
			return
		}

		userId, err := managers.SubjectFromClaims(claims)
		if err != nil {
			utils.WriteAndLogError(c, schemas.Unauthorized, err)
			return
		}

		user, err := users.FindByID(c.Request.Context(), userId)
		if err != nil {
			utils.WriteAndLogError(c, schemas.Unauthorized, err)
			return
		}
		user.Password = ""

		c.Set(utils.AuthUserKey.String(), user)
		c.Next()
	}
}

// EnsureGuest rejects requests that already carry a session cookie.
func EnsureGuest(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(cookieName); err == nil && token != "" {
			utils.WriteAndLogError(c, schemas.AlreadyLoggedIn, errors.New("session cookie present"))
			return
		}
		c.Next()
	}
}

// AuthUser returns the user stored by Protect.
func AuthUser(c *gin.Context) *schemas.User {
	user, _ := c.Value(utils.AuthUserKey.String()).(*schemas.User)
	return user
}
