package handles

import (
	"github.com/gin-gonic/gin"
	"github.com/jenfonro/sharesync/internal/conf"
	"github.com/jenfonro/sharesync/internal/drive"
	"github.com/jenfonro/sharesync/internal/model"
	"github.com/jenfonro/sharesync/server/common"
)

type ConfigResp struct {
	Cookie         string `json:"cookie"`
	CookieUserName string `json:"cookie_user_name"`
	IndexEndpoint  string `json:"index_endpoint"`
	IndexToken     string `json:"index_token"`
	IndexMountPath string `json:"index_mount_path"`
	RootFolderID   string `json:"root_folder_id"`
}

func GetConfig(c *gin.Context) {
	common.SuccessResp(c, ConfigResp{
		Cookie:         SettingStore.Get(conf.SettingCookie),
		CookieUserName: SettingStore.Get(conf.SettingCookieUserName),
		IndexEndpoint:  SettingStore.Get(conf.SettingIndexEndpoint),
		IndexToken:     SettingStore.Get(conf.SettingIndexToken),
		IndexMountPath: SettingStore.Get(conf.SettingMountPath),
		RootFolderID:   SettingStore.Get(conf.SettingRootFolderID),
	})
}

type SaveConfigReq struct {
	Cookie         string `json:"cookie"`
	IndexEndpoint  string `json:"index_endpoint"`
	IndexToken     string `json:"index_token"`
	IndexMountPath string `json:"index_mount_path"`
	RootFolderID   string `json:"root_folder_id"`
}

// SaveConfig stores the operator settings. A non-empty cookie is verified
// against the provider first so a typo is caught at save time, not at the
// next scheduled firing.
func SaveConfig(c *gin.Context) {
	var req SaveConfigReq
	if err := c.ShouldBind(&req); err != nil {
		common.ErrorResp(c, err, 400)
		return
	}
	items := []model.SettingItem{
		{Key: conf.SettingIndexEndpoint, Value: req.IndexEndpoint},
		{Key: conf.SettingIndexToken, Value: req.IndexToken},
		{Key: conf.SettingMountPath, Value: req.IndexMountPath},
		{Key: conf.SettingRootFolderID, Value: req.RootFolderID},
	}
	userName := SettingStore.Get(conf.SettingCookieUserName)
	if req.Cookie != "" && req.Cookie != SettingStore.Get(conf.SettingCookie) {
		// Verify with a throwaway client so an invalid cookie is never stored.
		name, err := drive.NewClient(func() string { return req.Cookie }).UserInfo(c.Request.Context())
		if err != nil {
			common.ErrorResp(c, err, 400)
			return
		}
		userName = name
		items = append(items, model.SettingItem{Key: conf.SettingCookie, Value: req.Cookie})
	}
	items = append(items, model.SettingItem{Key: conf.SettingCookieUserName, Value: userName})
	if err := SettingStore.Save(items); err != nil {
		common.ErrorResp(c, err, 500, true)
		return
	}
	common.SuccessResp(c, gin.H{"cookie_user_name": userName})
}
