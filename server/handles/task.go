package handles

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jenfonro/sharesync/internal/conf"
	"github.com/jenfonro/sharesync/internal/model"
	"github.com/jenfonro/sharesync/internal/sync"
	"github.com/jenfonro/sharesync/pkg/utils"
	"github.com/jenfonro/sharesync/server/common"

	"github.com/jenfonro/sharesync/internal/drive"
)

func ListTasks(c *gin.Context) {
	common.SuccessResp(c, TaskStore.All())
}

type TaskReq struct {
	TaskName       string `json:"taskName"`
	ShareURL       string `json:"shareUrl"`
	Password       string `json:"password"`
	TargetCid      string `json:"targetCid"`
	TargetName     string `json:"targetName"`
	CronExpression string `json:"cronExpression"`
}

// CreateTask registers a task and kicks off one immediate manual attempt.
// When no name is given the share title names both the task and a freshly
// created subfolder under the chosen target.
func CreateTask(c *gin.Context) {
	var req TaskReq
	if err := c.ShouldBind(&req); err != nil {
		common.ErrorResp(c, err, 400)
		return
	}
	if SettingStore.Get(conf.SettingCookie) == "" {
		common.ErrorStrResp(c, "115 cookie is not configured", 400)
		return
	}
	shareCode, urlPassword, err := drive.ParseShareURL(req.ShareURL)
	if err != nil {
		common.ErrorResp(c, err, 400)
		return
	}
	receiveCode := req.Password
	if receiveCode == "" {
		receiveCode = urlPassword
	}

	snap, err := Drive.GetShareSnap(c.Request.Context(), shareCode, receiveCode)
	if err != nil {
		common.ErrorResp(c, err, 400)
		return
	}

	taskName := strings.TrimSpace(req.TaskName)
	targetCid := req.TargetCid
	if targetCid == "" {
		targetCid = "0"
	}
	targetName := req.TargetName
	if targetName == "" {
		targetName = "root"
	}
	if taskName == "" {
		taskName = snap.Title
		if folder, err := Drive.MakeFolder(c.Request.Context(), targetCid, taskName); err == nil {
			targetCid = folder.ID
			targetName = targetName + " > " + folder.Name
		} else {
			utils.Log.Warnf("auto folder creation failed, keeping original target: %v", err)
		}
	}

	task := model.SyncTask{
		ID:               TaskStore.NextID(),
		TaskName:         taskName,
		ShareURL:         req.ShareURL,
		ShareCode:        shareCode,
		ReceiveCode:      receiveCode,
		TargetFolderID:   targetCid,
		TargetFolderName: targetName,
		CronExpression:   req.CronExpression,
		Status:           conf.StatusPending,
		Log:              "task initialized",
		CreateTime:       time.Now().UnixMilli(),
	}
	if strings.TrimSpace(req.CronExpression) != "" {
		if !sync.ValidCron(req.CronExpression) {
			common.ErrorStrResp(c, "invalid cron expression", 400)
			return
		}
		task.Status = conf.StatusScheduled
	}
	if err := TaskStore.Add(task); err != nil {
		common.ErrorResp(c, err, 500, true)
		return
	}
	Scheduler.Start(&task)
	// Newly created tasks always run once, scheduled or not.
	Processor.RunAsync(task.ID, false)
	common.SuccessResp(c, task)
}

// UpdateTask applies an edit. The task's timer is stopped first and only
// restarted when the new expression is valid, so an edit can never leave a
// timer firing with pre-edit configuration.
func UpdateTask(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorStrResp(c, "invalid task id", 400)
		return
	}
	var req TaskReq
	if err := c.ShouldBind(&req); err != nil {
		common.ErrorResp(c, err, 400)
		return
	}
	task, ok := TaskStore.Get(id)
	if !ok {
		common.ErrorStrResp(c, "task not found", 404)
		return
	}

	Scheduler.Stop(task.ID)

	if req.TaskName != "" {
		task.TaskName = req.TaskName
	}
	if req.TargetCid != "" {
		task.TargetFolderID = req.TargetCid
	}
	if req.TargetName != "" {
		task.TargetFolderName = req.TargetName
	}
	if req.ShareURL != "" && req.ShareURL != task.ShareURL {
		shareCode, urlPassword, err := drive.ParseShareURL(req.ShareURL)
		if err != nil {
			common.ErrorResp(c, err, 400)
			return
		}
		task.ShareURL = req.ShareURL
		task.ShareCode = shareCode
		switch {
		case req.Password != "":
			task.ReceiveCode = req.Password
		case urlPassword != "":
			task.ReceiveCode = urlPassword
		}
		// New share means the old fingerprint and synced set are meaningless.
		task.LastShareHash = ""
		task.LastSyncedFileIDs = nil
	} else if req.Password != "" {
		task.ReceiveCode = req.Password
	}

	task.CronExpression = req.CronExpression
	if sync.ValidCron(req.CronExpression) {
		task.Status = conf.StatusScheduled
		Scheduler.Start(&task)
	} else {
		task.Status = conf.StatusPending
		task.Log = "schedule disabled, waiting for manual run"
	}

	if err := TaskStore.Save(task); err != nil {
		common.ErrorResp(c, err, 500, true)
		return
	}
	common.SuccessResp(c, task)
}

func DeleteTask(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorStrResp(c, "invalid task id", 400)
		return
	}
	Scheduler.Stop(id)
	if err := TaskStore.Remove(id); err != nil {
		common.ErrorResp(c, err, 500, true)
		return
	}
	common.SuccessResp(c)
}

// RunTask triggers one manual attempt and returns immediately; the attempt
// proceeds asynchronously and reports through the task's status and log.
func RunTask(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorStrResp(c, "invalid task id", 400)
		return
	}
	if _, ok := TaskStore.Get(id); !ok {
		common.ErrorStrResp(c, "task not found", 404)
		return
	}
	Processor.RunAsync(id, false)
	common.SuccessResp(c)
}
