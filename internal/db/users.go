package db

import (
	"github.com/jenfonro/sharesync/internal/model"
	"github.com/pkg/errors"
)

func GetUserByName(username string) (*model.User, error) {
	user := model.User{Username: username}
	if err := db.Where(user).First(&user).Error; err != nil {
		return nil, errors.Wrapf(err, "failed find user")
	}
	return &user, nil
}

func CreateUser(u *model.User) error {
	return errors.WithStack(db.Create(u).Error)
}

func CountUsers() (int64, error) {
	var count int64
	err := db.Model(&model.User{}).Count(&count).Error
	return count, errors.WithStack(err)
}
