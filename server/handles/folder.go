package handles

import (
	"github.com/gin-gonic/gin"
	"github.com/jenfonro/sharesync/internal/conf"
	"github.com/jenfonro/sharesync/server/common"
)

// ListFolders backs the target folder picker.
func ListFolders(c *gin.Context) {
	if SettingStore.Get(conf.SettingCookie) == "" {
		common.ErrorStrResp(c, "115 cookie is not configured", 400)
		return
	}
	parent := c.DefaultQuery("cid", "0")
	folders, err := Drive.ListFolders(c.Request.Context(), parent)
	if err != nil {
		common.ErrorResp(c, err, 500)
		return
	}
	common.SuccessResp(c, folders)
}
