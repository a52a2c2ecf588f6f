package bootstrap

import (
	"github.com/jenfonro/sharesync/internal/conf"
	"github.com/jenfonro/sharesync/internal/db"
	"github.com/jenfonro/sharesync/internal/drive"
	"github.com/jenfonro/sharesync/internal/index"
	"github.com/jenfonro/sharesync/internal/store"
	"github.com/jenfonro/sharesync/internal/sync"
	"github.com/jenfonro/sharesync/pkg/utils"
	"github.com/jenfonro/sharesync/server/common"
	"github.com/jenfonro/sharesync/server/handles"
)

// InitEngine builds the sync engine, hands the collaborators to the handler
// layer and restores timers for every task that was scheduled before the
// last shutdown.
func InitEngine() {
	common.SecretKey = []byte(conf.Conf.JwtSecret)

	taskStore, err := store.New(db.LoadSyncTasks, db.SaveSyncTasks)
	if err != nil {
		utils.Log.Fatalf("failed to load tasks: %+v", err)
	}
	settingStore, err := store.NewSettingStore(db.GetSettingItems, db.SaveSettingItems)
	if err != nil {
		utils.Log.Fatalf("failed to load settings: %+v", err)
	}
	driveClient := drive.NewClient(func() string {
		return settingStore.Get(conf.SettingCookie)
	})
	notifier := index.NewNotifier(settingStore, driveClient)
	processor := sync.NewProcessor(taskStore, driveClient, notifier, settingStore)
	scheduler := sync.NewScheduler(func(taskID int64) {
		processor.RunAsync(taskID, true)
	})

	restored := 0
	for _, task := range taskStore.All() {
		if !task.Schedulable() {
			continue
		}
		scheduler.Start(&task)
		restored++
	}
	if restored > 0 {
		utils.Log.Infof("restored %d scheduled task(s)", restored)
	}

	handles.TaskStore = taskStore
	handles.SettingStore = settingStore
	handles.Scheduler = scheduler
	handles.Processor = processor
	handles.Drive = driveClient
}

// InitApp runs the whole startup chain in order.
func InitApp() {
	InitConfig()
	InitLog()
	InitDB()
	InitData()
	InitEngine()
}
