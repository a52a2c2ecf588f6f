package sync

import (
	"context"
	"testing"
	"time"

	"github.com/jenfonro/sharesync/internal/conf"
	"github.com/jenfonro/sharesync/internal/drive"
	"github.com/jenfonro/sharesync/internal/index"
	"github.com/jenfonro/sharesync/internal/model"
	"github.com/jenfonro/sharesync/internal/store"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDrive struct {
	shareIDs    []string
	shareErr    error
	transferRes *drive.TransferResult
	transferErr error
	recent      []string
	recentErr   error
	deleteErr   error

	transferCalls int
	deleteCalls   int
	deletedIDs    []string
}

func (f *fakeDrive) GetShareFileIDs(ctx context.Context, shareCode, receiveCode string) ([]string, error) {
	return f.shareIDs, f.shareErr
}

func (f *fakeDrive) Transfer(ctx context.Context, targetFolderID, shareCode, receiveCode string, fileIDs []string) (*drive.TransferResult, error) {
	f.transferCalls++
	if f.transferErr != nil {
		return nil, f.transferErr
	}
	if f.transferRes != nil {
		return f.transferRes, nil
	}
	return &drive.TransferResult{Success: true, Count: len(fileIDs)}, nil
}

func (f *fakeDrive) DeleteFiles(ctx context.Context, fileIDs []string) error {
	f.deleteCalls++
	f.deletedIDs = append([]string(nil), fileIDs...)
	return f.deleteErr
}

func (f *fakeDrive) ListRecentItems(ctx context.Context, folderID string, limit int) ([]string, error) {
	return f.recent, f.recentErr
}

type fakeNotifier struct {
	strategy string
	err      error
	calls    int
}

func (f *fakeNotifier) Refresh(ctx context.Context, targetFolderID string) (string, error) {
	f.calls++
	return f.strategy, f.err
}

type fakeSettings map[string]string

func (f fakeSettings) Get(key string) string { return f[key] }

var testNow = time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC)

func newTestProcessor(t *testing.T, task model.SyncTask, d *fakeDrive, n Notifier, settings fakeSettings) (*Processor, *store.TaskStore) {
	t.Helper()
	taskStore, err := store.New(func() ([]model.SyncTask, error) {
		return []model.SyncTask{task}, nil
	}, func([]model.SyncTask) error { return nil })
	require.NoError(t, err)
	if settings == nil {
		settings = fakeSettings{conf.SettingCookie: "UID=1; CID=2"}
	}
	p := NewProcessor(taskStore, d, n, settings)
	p.now = func() time.Time { return testNow }
	return p, taskStore
}

func baseTask() model.SyncTask {
	return model.SyncTask{
		ID:             1,
		TaskName:       "weekly drama",
		ShareCode:      "swabc123",
		ReceiveCode:    "a1b2",
		TargetFolderID: "900",
		CronExpression: "0 6 * * *",
		Status:         conf.StatusScheduled,
	}
}

func TestDailyLockSkipsScheduledAttempt(t *testing.T) {
	task := baseTask()
	task.LastSuccessDate = "2024-06-01"
	task.LastShareHash = "f1,f2"
	task.LastSyncedFileIDs = []string{"x1"}
	d := &fakeDrive{shareIDs: []string{"f1", "f2"}}
	p, st := newTestProcessor(t, task, d, nil, nil)

	p.Run(context.Background(), 1, true)

	got, _ := st.Get(1)
	assert.Equal(t, conf.StatusScheduled, got.Status)
	assert.Contains(t, got.Log, "already succeeded today")
	assert.Equal(t, 0, d.transferCalls)
	assert.Equal(t, "f1,f2", got.LastShareHash)
	assert.Equal(t, []string{"x1"}, got.LastSyncedFileIDs)
}

func TestManualRunBypassesDailyLock(t *testing.T) {
	task := baseTask()
	task.LastSuccessDate = "2024-06-01"
	d := &fakeDrive{shareIDs: []string{"f1"}, recent: []string{"n1"}}
	p, st := newTestProcessor(t, task, d, nil, nil)

	p.Run(context.Background(), 1, false)

	got, _ := st.Get(1)
	assert.Equal(t, 1, d.transferCalls)
	assert.Equal(t, conf.StatusSuccess, got.Status)
}

func TestScheduledSkipsWhenFingerprintUnchanged(t *testing.T) {
	task := baseTask()
	task.LastShareHash = "f1,f2"
	task.LastSyncedFileIDs = []string{"x1"}
	task.HistoryCount = 7
	d := &fakeDrive{shareIDs: []string{"f1", "f2"}}
	p, st := newTestProcessor(t, task, d, nil, nil)

	p.Run(context.Background(), 1, true)

	got, _ := st.Get(1)
	assert.Equal(t, conf.StatusScheduled, got.Status)
	assert.Contains(t, got.Log, "no update, skipped")
	assert.Equal(t, 0, d.transferCalls)
	assert.Equal(t, 0, d.deleteCalls)
	assert.Equal(t, 7, got.HistoryCount)
	assert.Equal(t, []string{"x1"}, got.LastSyncedFileIDs)
}

func TestManualTransfersDespiteEqualFingerprint(t *testing.T) {
	task := baseTask()
	task.LastShareHash = "f1,f2"
	d := &fakeDrive{shareIDs: []string{"f1", "f2"}, recent: []string{"n1", "n2"}}
	p, st := newTestProcessor(t, task, d, nil, nil)

	p.Run(context.Background(), 1, false)

	got, _ := st.Get(1)
	assert.Equal(t, 1, d.transferCalls)
	assert.Equal(t, conf.StatusSuccess, got.Status)
}

func TestCleanupUsesPreviouslySyncedIDs(t *testing.T) {
	task := baseTask()
	task.LastSyncedFileIDs = []string{"old1", "old2"}
	d := &fakeDrive{shareIDs: []string{"f1", "f2"}, recent: []string{"new1", "new2"}}
	p, st := newTestProcessor(t, task, d, nil, nil)

	p.Run(context.Background(), 1, false)

	got, _ := st.Get(1)
	assert.Equal(t, 1, d.deleteCalls)
	assert.Equal(t, []string{"old1", "old2"}, d.deletedIDs)
	// The next cleanup set comes from the probe, not the transferred id list.
	assert.Equal(t, []string{"new1", "new2"}, got.LastSyncedFileIDs)
}

func TestCleanupFailureDoesNotAbortAttempt(t *testing.T) {
	task := baseTask()
	task.LastSyncedFileIDs = []string{"old1"}
	d := &fakeDrive{
		shareIDs:  []string{"f1"},
		recent:    []string{"n1"},
		deleteErr: errors.New("already removed"),
	}
	p, st := newTestProcessor(t, task, d, nil, nil)

	p.Run(context.Background(), 1, false)

	got, _ := st.Get(1)
	assert.Equal(t, 1, d.transferCalls)
	assert.Equal(t, conf.StatusSuccess, got.Status)
}

func TestIndexFailureKeepsTerminalStatus(t *testing.T) {
	task := baseTask()
	d := &fakeDrive{shareIDs: []string{"f1"}, recent: []string{"n1"}}
	n := &fakeNotifier{err: errors.New("connection refused")}
	p, st := newTestProcessor(t, task, d, n, nil)

	p.Run(context.Background(), 1, false)

	got, _ := st.Get(1)
	assert.Equal(t, conf.StatusSuccess, got.Status)
	assert.Contains(t, got.Log, "index refresh failed")
}

func TestIndexNotConfiguredIsAnnotatedOnly(t *testing.T) {
	task := baseTask()
	d := &fakeDrive{shareIDs: []string{"f1"}, recent: []string{"n1"}}
	n := &fakeNotifier{err: index.ErrNoEndpoint}
	p, st := newTestProcessor(t, task, d, n, nil)

	p.Run(context.Background(), 1, false)

	got, _ := st.Get(1)
	assert.Equal(t, conf.StatusSuccess, got.Status)
	assert.Contains(t, got.Log, "endpoint not configured")
}

func TestExistsWithEmptyProbeFails(t *testing.T) {
	task := baseTask()
	task.LastSyncedFileIDs = []string{"keep1"}
	d := &fakeDrive{
		shareIDs:    []string{"f1", "f2"},
		transferRes: &drive.TransferResult{Success: false, Status: drive.TransferStatusExists},
	}
	p, st := newTestProcessor(t, task, d, nil, nil)

	p.Run(context.Background(), 1, false)

	got, _ := st.Get(1)
	assert.Equal(t, conf.StatusFailed, got.Status)
	assert.Contains(t, got.Log, "检查根目录")
	// LastSyncedFileIDs keeps the cleanup set; the delete was best-effort so
	// the provider state is unknown, but the task never forgets what it owns.
	assert.Equal(t, []string{"keep1"}, got.LastSyncedFileIDs)
}

func TestExistsWithProbeIsSuccess(t *testing.T) {
	task := baseTask()
	d := &fakeDrive{
		shareIDs:    []string{"f1", "f2"},
		transferRes: &drive.TransferResult{Success: false, Status: drive.TransferStatusExists},
		recent:      []string{"n1", "n2"},
	}
	n := &fakeNotifier{strategy: "index-update"}
	p, st := newTestProcessor(t, task, d, n, nil)

	p.Run(context.Background(), 1, false)

	got, _ := st.Get(1)
	assert.Equal(t, conf.StatusSuccess, got.Status)
	assert.Contains(t, got.Log, "instant transfer")
	assert.Equal(t, []string{"n1", "n2"}, got.LastSyncedFileIDs)
	assert.Equal(t, 1, n.calls)
}

func TestScheduledFailureStaysInScheduledLane(t *testing.T) {
	task := baseTask()
	d := &fakeDrive{
		shareIDs:    []string{"f1"},
		transferRes: &drive.TransferResult{Success: false, Message: "quota exceeded"},
	}
	p, st := newTestProcessor(t, task, d, nil, nil)

	p.Run(context.Background(), 1, true)

	got, _ := st.Get(1)
	assert.Equal(t, conf.StatusScheduled, got.Status)
	assert.Contains(t, got.Log, "quota exceeded")
}

func TestScheduledSuccessSetsLastSuccessDate(t *testing.T) {
	task := baseTask()
	d := &fakeDrive{shareIDs: []string{"f1"}, recent: []string{"n1"}}
	p, st := newTestProcessor(t, task, d, nil, nil)

	p.Run(context.Background(), 1, true)

	got, _ := st.Get(1)
	assert.Equal(t, conf.StatusScheduled, got.Status)
	assert.Equal(t, "2024-06-01", got.LastSuccessDate)
	assert.Equal(t, 1, got.HistoryCount)
}

func TestManualSuccessLeavesLastSuccessDateAlone(t *testing.T) {
	task := baseTask()
	d := &fakeDrive{shareIDs: []string{"f1"}, recent: []string{"n1"}}
	p, st := newTestProcessor(t, task, d, nil, nil)

	p.Run(context.Background(), 1, false)

	got, _ := st.Get(1)
	assert.Equal(t, conf.StatusSuccess, got.Status)
	assert.Empty(t, got.LastSuccessDate)
}

func TestMissingCookieAbortsAttempt(t *testing.T) {
	task := baseTask()
	d := &fakeDrive{shareIDs: []string{"f1"}}
	p, st := newTestProcessor(t, task, d, nil, fakeSettings{})

	p.Run(context.Background(), 1, false)

	got, _ := st.Get(1)
	assert.Equal(t, conf.StatusError, got.Status)
	assert.Equal(t, 0, d.transferCalls)
}

func TestEmptyShare(t *testing.T) {
	task := baseTask()
	d := &fakeDrive{shareIDs: nil}
	p, st := newTestProcessor(t, task, d, nil, nil)

	p.Run(context.Background(), 1, false)
	got, _ := st.Get(1)
	assert.Equal(t, conf.StatusFailed, got.Status)

	p.Run(context.Background(), 1, true)
	got, _ = st.Get(1)
	assert.Equal(t, conf.StatusScheduled, got.Status)
}

func TestShareReadErrorIsClassifiedError(t *testing.T) {
	task := baseTask()
	d := &fakeDrive{shareErr: errors.New("timeout")}
	p, st := newTestProcessor(t, task, d, nil, nil)

	p.Run(context.Background(), 1, false)

	got, _ := st.Get(1)
	assert.Equal(t, conf.StatusError, got.Status)
	assert.Contains(t, got.Log, "timeout")
}

func TestFingerprintCommittedBeforeTransfer(t *testing.T) {
	task := baseTask()
	d := &fakeDrive{
		shareIDs:    []string{"f1", "f2"},
		transferRes: &drive.TransferResult{Success: false, Message: "boom"},
	}
	p, st := newTestProcessor(t, task, d, nil, nil)

	p.Run(context.Background(), 1, true)

	got, _ := st.Get(1)
	assert.Equal(t, "f1,f2", got.LastShareHash)
	assert.Equal(t, conf.StatusScheduled, got.Status)
}

func TestRunArenaRejectsConcurrentAttempt(t *testing.T) {
	a := newRunArena()
	require.True(t, a.tryAcquire(5))
	assert.False(t, a.tryAcquire(5))
	a.release(5)
	assert.True(t, a.tryAcquire(5))
}
