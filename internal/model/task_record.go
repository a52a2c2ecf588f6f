package model

import "time"

// SyncTaskRecord mirrors one SyncTask into an indexed table so listing does
// not deserialize the persist blob.
type SyncTaskRecord struct {
	TaskID          int64     `gorm:"column:task_id;primaryKey" json:"task_id"`
	Name            string    `gorm:"column:name;size:1024" json:"name"`
	TargetFolderID  string    `gorm:"column:target_folder_id;size:64" json:"target_folder_id"`
	CronExpression  string    `gorm:"column:cron_expression;size:255" json:"cron_expression"`
	Status          string    `gorm:"column:status;size:32;index:idx_sync_status" json:"status"`
	Log             string    `gorm:"column:log;size:2048" json:"log"`
	LastSuccessDate string    `gorm:"column:last_success_date;size:16" json:"last_success_date"`
	HistoryCount    int       `gorm:"column:history_count" json:"history_count"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (SyncTaskRecord) TableName() string {
	return "sync_task_records"
}
