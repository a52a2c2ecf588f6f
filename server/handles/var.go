package handles

import (
	"github.com/jenfonro/sharesync/internal/drive"
	"github.com/jenfonro/sharesync/internal/store"
	"github.com/jenfonro/sharesync/internal/sync"
)

// Collaborators wired by bootstrap before the router starts serving.
var (
	TaskStore    *store.TaskStore
	SettingStore *store.SettingStore
	Scheduler    *sync.Scheduler
	Processor    *sync.Processor
	Drive        *drive.Client
)
