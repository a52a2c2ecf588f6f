package model

import (
	"strings"

	"github.com/jenfonro/sharesync/internal/conf"
)

// SyncTask is one unit of recurring share synchronization work. The whole
// collection is serialized into a TaskItem persist blob, so only json tags
// matter here.
type SyncTask struct {
	ID                int64    `json:"id"`
	TaskName          string   `json:"taskName"`
	ShareURL          string   `json:"shareUrl"`
	ShareCode         string   `json:"shareCode"`
	ReceiveCode       string   `json:"receiveCode"`
	TargetFolderID    string   `json:"targetCid"`
	TargetFolderName  string   `json:"targetName"`
	CronExpression    string   `json:"cronExpression"`
	Status            string   `json:"status"`
	Log               string   `json:"log"`
	LastShareHash     string   `json:"lastShareHash,omitempty"`
	LastSuccessDate   string   `json:"lastSuccessDate,omitempty"`
	LastSyncedFileIDs []string `json:"lastSyncedFileIds,omitempty"`
	HistoryCount      int      `json:"historyCount"`
	CreateTime        int64    `json:"createTime"`
}

// ShareFingerprint derives the content fingerprint from the share's current
// file id list. The provider returns ids in a stable listing order, so a
// plain join is enough to detect any change.
func ShareFingerprint(fileIDs []string) string {
	return strings.Join(fileIDs, ",")
}

// Schedulable reports whether the task should own a timer.
func (t *SyncTask) Schedulable() bool {
	return strings.TrimSpace(t.CronExpression) != "" && t.Status != conf.StatusStopped
}

// TaskItem stores the serialized task collection under a type key.
type TaskItem struct {
	Key         string `json:"key" gorm:"primaryKey"`
	PersistData string `json:"persist_data" gorm:"type:text"`
}
