package handles

import (
	"github.com/gin-gonic/gin"
	"github.com/jenfonro/sharesync/internal/db"
	"github.com/jenfonro/sharesync/pkg/utils"
	"github.com/jenfonro/sharesync/server/common"
)

type LoginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBind(&req); err != nil {
		common.ErrorResp(c, err, 400)
		return
	}
	user, err := db.GetUserByName(req.Username)
	if err != nil || user.PwdHash != utils.HashPwd(req.Password) {
		common.ErrorStrResp(c, "wrong username or password", 401)
		return
	}
	token, err := common.GenerateToken(user.Username)
	if err != nil {
		common.ErrorResp(c, err, 500, true)
		return
	}
	common.SuccessResp(c, gin.H{"token": token, "username": user.Username})
}
