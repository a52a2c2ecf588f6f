package db

import (
	"github.com/jenfonro/sharesync/internal/model"
	"github.com/jenfonro/sharesync/pkg/utils"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// The task collection is persisted as one JSON blob under this key and
// rewritten wholesale on every mutation. An indexed record table is refreshed
// alongside it for listing.
const syncTaskKey = "share_sync"

func getTaskItem(key string) (*model.TaskItem, error) {
	item := model.TaskItem{Key: key}
	if err := db.Where(item).First(&item).Error; err != nil {
		return nil, errors.Wrapf(err, "failed find task item")
	}
	return &item, nil
}

func updateTaskItem(t *model.TaskItem) error {
	return errors.WithStack(db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"persist_data"}),
	}).Create(t).Error)
}

// LoadSyncTasks reads the persisted task collection. A missing row means a
// fresh installation and yields an empty collection.
func LoadSyncTasks() ([]model.SyncTask, error) {
	item, err := getTaskItem(syncTaskKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	content := item.PersistData
	if content == "" || content == "null" {
		return nil, nil
	}
	var tasks []model.SyncTask
	if err := utils.Json.Unmarshal([]byte(content), &tasks); err != nil {
		return nil, errors.Wrapf(err, "failed unmarshal sync tasks")
	}
	return tasks, nil
}

// SaveSyncTasks rewrites the whole collection and refreshes the record index.
func SaveSyncTasks(tasks []model.SyncTask) error {
	data, err := utils.Json.Marshal(tasks)
	if err != nil {
		return errors.Wrapf(err, "failed marshal sync tasks")
	}
	content := string(data)
	if content == "null" {
		content = "[]"
	}
	if err := updateTaskItem(&model.TaskItem{Key: syncTaskKey, PersistData: content}); err != nil {
		return err
	}
	if err := replaceSyncTaskRecords(tasks); err != nil {
		utils.Log.Warnf("failed to update sync task index: %+v", err)
	}
	return nil
}

func toRecord(t model.SyncTask) model.SyncTaskRecord {
	return model.SyncTaskRecord{
		TaskID:          t.ID,
		Name:            t.TaskName,
		TargetFolderID:  t.TargetFolderID,
		CronExpression:  t.CronExpression,
		Status:          t.Status,
		Log:             t.Log,
		LastSuccessDate: t.LastSuccessDate,
		HistoryCount:    t.HistoryCount,
	}
}

func replaceSyncTaskRecords(tasks []model.SyncTask) error {
	records := utils.MustSliceConvert(tasks, toRecord)
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.SyncTaskRecord{}).Error; err != nil {
			return errors.WithStack(err)
		}
		if len(records) == 0 {
			return nil
		}
		return errors.WithStack(tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "task_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "target_folder_id", "cron_expression", "status", "log", "last_success_date", "history_count", "updated_at"}),
		}).CreateInBatches(records, 500).Error)
	})
}

func ListSyncTaskRecords() ([]model.SyncTaskRecord, error) {
	var records []model.SyncTaskRecord
	err := db.Order("created_at DESC").Find(&records).Error
	return records, errors.WithStack(err)
}
