// Package jobs holds background jobs run on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const pruneTimeout = 30 * time.Second

// Pruner deletes audit records older than a cutoff
type Pruner interface {
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RetentionJob removes audit records older than the retention period
type RetentionJob struct {
	store     Pruner
	retention time.Duration
	log       *logrus.Logger
	now       func() time.Time
}

// NewRetentionJob initializes a new retention job
func NewRetentionJob(store Pruner, retention time.Duration, log *logrus.Logger) *RetentionJob {
	return &RetentionJob{store: store, retention: retention, log: log, now: time.Now}
}

// Run implements cron.Job
func (j *RetentionJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), pruneTimeout)
	defer cancel()

	cutoff := j.now().UTC().Add(-j.retention)
	n, err := j.store.PruneBefore(ctx, cutoff)
	if err != nil {
		j.log.Errorf("Audit retention run failed: %v", err)
		return
	}
	j.log.WithField("cutoff", cutoff.Format(time.RFC3339)).Infof("Pruned %d audit records", n)
}

// NewScheduler returns a cron scheduler with the retention job registered
func NewScheduler(spec string, job *RetentionJob) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddJob(spec, job); err != nil {
		return nil, fmt.Errorf("invalid retention schedule %q: %w", spec, err)
	}
	return c, nil
}
