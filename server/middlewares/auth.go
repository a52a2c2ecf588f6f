package middlewares

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jenfonro/sharesync/internal/conf"
	"github.com/jenfonro/sharesync/internal/db"
	"github.com/jenfonro/sharesync/server/common"
)

// Auth validates the bearer token and loads the user into the request
// context.
func Auth(c *gin.Context) {
	token := c.GetHeader("Authorization")
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		common.ErrorStrResp(c, "not logged in", 401)
		return
	}
	claims, err := common.ParseToken(token)
	if err != nil {
		common.ErrorStrResp(c, "invalid token", 401)
		return
	}
	user, err := db.GetUserByName(claims.Username)
	if err != nil {
		common.ErrorStrResp(c, "user not found", 401)
		return
	}
	if !user.IsAdmin() {
		common.ErrorStrResp(c, "permission denied", 403)
		return
	}
	ctx := context.WithValue(c.Request.Context(), conf.UserKey, user)
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}
