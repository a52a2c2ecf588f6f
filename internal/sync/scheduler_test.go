package sync

import (
	"testing"

	"github.com/jenfonro/sharesync/internal/model"
	"github.com/stretchr/testify/assert"
)

func schedTask(id int64, expr string) *model.SyncTask {
	return &model.SyncTask{ID: id, TaskName: "t", CronExpression: expr}
}

func TestValidCron(t *testing.T) {
	assert.True(t, ValidCron("0 6 * * *"))
	assert.True(t, ValidCron("@hourly"))
	assert.False(t, ValidCron(""))
	assert.False(t, ValidCron("  "))
	assert.False(t, ValidCron("not a cron"))
	assert.False(t, ValidCron("99 99 * * *"))
}

func TestStartIsStopThenRestart(t *testing.T) {
	s := NewScheduler(func(int64) {})
	defer s.Shutdown()

	s.Start(schedTask(1, "0 6 * * *"))
	assert.True(t, s.Active(1))

	// Editing the expression must never leave two live timers for one id.
	s.Start(schedTask(1, "30 7 * * *"))
	assert.True(t, s.Active(1))
	assert.Len(t, s.entries, 1)

	s.Stop(1)
	assert.False(t, s.Active(1))
	s.Stop(1) // double stop is a no-op
	assert.False(t, s.Active(1))
}

func TestStartWithInvalidExpressionDiscardsTimer(t *testing.T) {
	s := NewScheduler(func(int64) {})
	defer s.Shutdown()

	s.Start(schedTask(2, "0 6 * * *"))
	assert.True(t, s.Active(2))

	s.Start(schedTask(2, "garbage"))
	assert.False(t, s.Active(2))

	s.Start(schedTask(2, ""))
	assert.False(t, s.Active(2))
}

func TestSchedulerKeepsTasksIndependent(t *testing.T) {
	s := NewScheduler(func(int64) {})
	defer s.Shutdown()

	s.Start(schedTask(1, "0 6 * * *"))
	s.Start(schedTask(2, "0 7 * * *"))
	s.Stop(1)
	assert.False(t, s.Active(1))
	assert.True(t, s.Active(2))
}
