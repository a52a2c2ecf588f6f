package sync

import (
	"strings"
	gosync "sync"

	"github.com/jenfonro/sharesync/internal/model"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Scheduler owns one cron entry per task with a valid recurrence expression.
// Entry callbacks capture only the task id and re-read the record on firing,
// so an edit can never leave a timer holding a pre-edit snapshot.
type Scheduler struct {
	mu      gosync.Mutex
	cron    *cron.Cron
	entries map[int64]cron.EntryID
	fire    func(taskID int64)
}

// NewScheduler builds a scheduler that calls fire with scheduled semantics on
// every timer tick.
func NewScheduler(fire func(taskID int64)) *Scheduler {
	s := &Scheduler{
		cron:    cron.New(),
		entries: make(map[int64]cron.EntryID),
		fire:    fire,
	}
	s.cron.Start()
	return s
}

// ValidCron reports whether expr parses as a standard 5-field expression.
func ValidCron(expr string) bool {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return false
	}
	_, err := cron.ParseStandard(expr)
	return err == nil
}

// Start registers a timer for the task. An empty or invalid expression stops
// and discards any existing timer instead.
func (s *Scheduler) Start(task *model.SyncTask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked(task.ID)
	expr := strings.TrimSpace(task.CronExpression)
	if expr == "" {
		return
	}
	if !ValidCron(expr) {
		log.Warnf("[cron] task %d has invalid expression: %s", task.ID, expr)
		return
	}
	taskID := task.ID
	entryID, err := s.cron.AddFunc(expr, func() {
		s.fire(taskID)
	})
	if err != nil {
		log.Warnf("[cron] failed to schedule task %d: %v", taskID, err)
		return
	}
	s.entries[taskID] = entryID
	log.Infof("[cron] task %d scheduled: %s", taskID, expr)
}

// Stop halts and discards the task's timer. Idempotent.
func (s *Scheduler) Stop(taskID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked(taskID)
}

func (s *Scheduler) stopLocked(taskID int64) {
	if entryID, ok := s.entries[taskID]; ok {
		s.cron.Remove(entryID)
		delete(s.entries, taskID)
	}
}

// Active reports whether the task currently owns a timer.
func (s *Scheduler) Active(taskID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[taskID]
	return ok
}

// Shutdown stops the underlying cron runner and waits for running callbacks.
func (s *Scheduler) Shutdown() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
