// Package sync implements the task synchronization engine: per-task cron
// timers, the per-attempt state machine and the run-state arena that keeps
// concurrent attempts for one task from interleaving.
package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/jenfonro/sharesync/internal/conf"
	"github.com/jenfonro/sharesync/internal/drive"
	"github.com/jenfonro/sharesync/internal/index"
	"github.com/jenfonro/sharesync/internal/model"
	"github.com/jenfonro/sharesync/internal/store"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Drive is the remote content capability the processor consumes.
type Drive interface {
	GetShareFileIDs(ctx context.Context, shareCode, receiveCode string) ([]string, error)
	Transfer(ctx context.Context, targetFolderID, shareCode, receiveCode string, fileIDs []string) (*drive.TransferResult, error)
	DeleteFiles(ctx context.Context, fileIDs []string) error
	ListRecentItems(ctx context.Context, folderID string, limit int) ([]string, error)
}

// Notifier triggers an external index refresh for a target folder.
type Notifier interface {
	Refresh(ctx context.Context, targetFolderID string) (string, error)
}

// Settings yields operator configuration values.
type Settings interface {
	Get(key string) string
}

// Processor executes one synchronization attempt at a time per task.
type Processor struct {
	store    *store.TaskStore
	drive    Drive
	notifier Notifier
	settings Settings
	arena    *runArena
	now      func() time.Time
}

func NewProcessor(taskStore *store.TaskStore, d Drive, n Notifier, s Settings) *Processor {
	return &Processor{
		store:    taskStore,
		drive:    d,
		notifier: n,
		settings: s,
		arena:    newRunArena(),
		now:      time.Now,
	}
}

// RunAsync enqueues one attempt and returns immediately.
func (p *Processor) RunAsync(taskID int64, scheduled bool) {
	go p.Run(context.Background(), taskID, scheduled)
}

// Run performs one synchronization attempt. Scheduled attempts are subject to
// the daily lock and the fingerprint skip; a manual run always runs and
// always transfers. Scheduled attempts never end in failed/error: the task
// stays in its scheduled lane with the reason in the log, so the next firing
// retries without operator intervention.
func (p *Processor) Run(ctx context.Context, taskID int64, scheduled bool) {
	task, ok := p.store.Get(taskID)
	if !ok {
		log.Warnf("[sync] task %d no longer exists, skipping attempt", taskID)
		return
	}
	if !p.arena.tryAcquire(taskID) {
		log.Warnf("[sync] task %d already has an attempt in progress, rejecting", taskID)
		return
	}
	defer p.arena.release(taskID)

	defer func() {
		if r := recover(); r != nil {
			p.finish(&task, scheduled, conf.StatusError, fmt.Sprintf("unexpected error: %v", r))
		}
	}()

	if p.settings.Get(conf.SettingCookie) == "" {
		task.Status = conf.StatusError
		task.Log = "115 cookie is not configured"
		p.save(&task)
		return
	}

	today := p.today()
	if scheduled && task.Status == conf.StatusScheduled && task.LastSuccessDate == today {
		task.Log = p.stamp("already succeeded today, skipping")
		p.save(&task)
		return
	}

	task.Status = conf.StatusRunning
	task.Log = "checking share for updates..."
	p.save(&task)

	fileIDs, err := p.drive.GetShareFileIDs(ctx, task.ShareCode, task.ReceiveCode)
	if err != nil {
		p.finish(&task, scheduled, conf.StatusError, fmt.Sprintf("failed to read share: %v", err))
		return
	}
	if len(fileIDs) == 0 {
		p.finish(&task, scheduled, conf.StatusFailed, "share contains no files")
		return
	}

	currentHash := model.ShareFingerprint(fileIDs)
	if scheduled && task.LastShareHash != "" && task.LastShareHash == currentHash {
		task.Status = conf.StatusScheduled
		task.Log = p.stamp("no update, skipped")
		p.save(&task)
		return
	}
	// Commit the fingerprint before transferring so a crash mid-transfer does
	// not retry the same content forever. The cost: a failed transfer makes
	// the next scheduled attempt believe nothing changed and skip; a manual
	// run is the recovery path.
	task.LastShareHash = currentHash
	p.save(&task)

	if len(task.LastSyncedFileIDs) > 0 {
		if err := p.drive.DeleteFiles(ctx, task.LastSyncedFileIDs); err != nil {
			log.Warnf("[sync] task %d stale cleanup failed (continuing): %v", task.ID, err)
		}
	}

	result, err := p.drive.Transfer(ctx, task.TargetFolderID, task.ShareCode, task.ReceiveCode, fileIDs)
	if err != nil {
		p.finish(&task, scheduled, conf.StatusError, fmt.Sprintf("transfer error: %v", err))
		return
	}

	switch {
	case result.Success:
		p.completeTransfer(ctx, &task, scheduled, len(fileIDs), result.Count,
			fmt.Sprintf("transferred %d files", result.Count))
	case result.Status == drive.TransferStatusExists:
		probe := p.probeRecent(ctx, &task, len(fileIDs))
		if len(probe) > 0 {
			p.completeWithProbe(ctx, &task, scheduled, probe, len(fileIDs),
				"success (instant transfer, provider already had the content)")
		} else {
			p.finish(&task, scheduled, conf.StatusFailed,
				"provider reported the content exists but the target folder is empty; check the account root folder (检查根目录)")
		}
	default:
		p.finish(&task, scheduled, conf.StatusFailed, fmt.Sprintf("transfer failed: %s", result.Message))
	}
}

// completeTransfer probes the target folder and finalizes a successful
// transfer.
func (p *Processor) completeTransfer(ctx context.Context, task *model.SyncTask, scheduled bool, transferred, count int, msg string) {
	probe := p.probeRecent(ctx, task, transferred)
	if probe == nil {
		// Probe failed: keep the previous synced set rather than forgetting
		// what we own in the target folder.
		probe = task.LastSyncedFileIDs
	}
	p.completeWithProbe(ctx, task, scheduled, probe, count, msg)
}

func (p *Processor) completeWithProbe(ctx context.Context, task *model.SyncTask, scheduled bool, probe []string, count int, msg string) {
	if scheduled {
		task.LastSuccessDate = p.today()
	}
	task.LastSyncedFileIDs = probe
	task.HistoryCount += count
	if scheduled {
		task.Status = conf.StatusScheduled
	} else {
		task.Status = conf.StatusSuccess
	}
	task.Log = p.stamp(msg + p.refreshIndex(ctx, task))
	p.save(task)
}

// refreshIndex runs the index notifier and renders its outcome as a log
// annotation. Indexing failures never change the attempt's terminal status.
func (p *Processor) refreshIndex(ctx context.Context, task *model.SyncTask) string {
	if p.notifier == nil {
		return ""
	}
	strategyName, err := p.notifier.Refresh(ctx, task.TargetFolderID)
	if err != nil {
		if errors.Is(err, index.ErrNoEndpoint) {
			return "; index refresh skipped (endpoint not configured)"
		}
		log.Warnf("[sync] task %d index refresh failed: %v", task.ID, err)
		return fmt.Sprintf("; index refresh failed: %v", err)
	}
	return fmt.Sprintf("; index refreshed via %s", strategyName)
}

func (p *Processor) probeRecent(ctx context.Context, task *model.SyncTask, limit int) []string {
	items, err := p.drive.ListRecentItems(ctx, task.TargetFolderID, limit)
	if err != nil {
		log.Warnf("[sync] task %d post-transfer probe failed: %v", task.ID, err)
		return nil
	}
	return items
}

// finish records a non-success outcome. The cron lane collapses every
// outcome to scheduled so the task remains eligible for the next firing.
func (p *Processor) finish(task *model.SyncTask, scheduled bool, manualStatus, msg string) {
	if scheduled {
		task.Status = conf.StatusScheduled
	} else {
		task.Status = manualStatus
	}
	task.Log = p.stamp(msg)
	p.save(task)
}

func (p *Processor) save(task *model.SyncTask) {
	if err := p.store.Save(*task); err != nil {
		log.Errorf("[sync] failed to persist task %d: %+v", task.ID, err)
	}
}

func (p *Processor) today() string {
	return p.now().Format("2006-01-02")
}

func (p *Processor) stamp(msg string) string {
	return fmt.Sprintf("[%s] %s", p.now().Format("15:04"), msg)
}
