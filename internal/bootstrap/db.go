package bootstrap

import (
	stdlog "log"
	"time"

	"github.com/jenfonro/sharesync/internal/conf"
	"github.com/jenfonro/sharesync/internal/db"
	"github.com/jenfonro/sharesync/pkg/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

func InitDB() {
	gormLogger := logger.New(stdlog.New(utils.Log.Out, "\r\n", stdlog.LstdFlags), logger.Config{
		SlowThreshold: time.Second,
		LogLevel:      logger.Silent,
	})
	if conf.Debug {
		gormLogger = logger.Default
	}
	d, err := gorm.Open(sqlite.Open(conf.Conf.Database.DBFile), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			TablePrefix: conf.Conf.Database.TablePrefix,
		},
		Logger: gormLogger,
	})
	if err != nil {
		utils.Log.Fatalf("failed to open database: %v", err)
	}
	if err := db.Init(d); err != nil {
		utils.Log.Fatalf("failed to migrate database: %+v", err)
	}
}
