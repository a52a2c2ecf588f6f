package db

import (
	"github.com/jenfonro/sharesync/internal/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var db *gorm.DB

func Init(d *gorm.DB) error {
	db = d
	return errors.WithStack(db.AutoMigrate(
		&model.TaskItem{},
		&model.SyncTaskRecord{},
		&model.SettingItem{},
		&model.User{},
	))
}

func Close() {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	_ = sqlDB.Close()
}
