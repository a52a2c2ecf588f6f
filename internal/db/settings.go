package db

import (
	"github.com/jenfonro/sharesync/internal/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func GetSettingItems() ([]model.SettingItem, error) {
	var items []model.SettingItem
	if err := db.Find(&items).Error; err != nil {
		return nil, errors.WithStack(err)
	}
	return items, nil
}

func GetSettingValue(key string) (string, error) {
	item := model.SettingItem{Key: key}
	if err := db.Where(item).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", errors.WithStack(err)
	}
	return item.Value, nil
}

func SaveSettingItems(items []model.SettingItem) error {
	if len(items) == 0 {
		return nil
	}
	return errors.WithStack(db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&items).Error)
}
