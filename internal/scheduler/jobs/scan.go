package jobs

import (
	"context"
	"fmt"

	"github.com/mlefloch/stockscout/internal/pipeline"
	"github.com/mlefloch/stockscout/internal/report"
	"github.com/mlefloch/stockscout/pkg/logger"
)

// Runner executes one full discovery scan.
type Runner interface {
	Run(ctx context.Context) (*pipeline.Result, error)
}

// ScanJob runs the discovery pipeline on a schedule and persists the result.
type ScanJob struct {
	runner   Runner
	repo     *report.Repository
	schedule string
	logger   *logger.Logger
}

// NewScanJob creates the scheduled scan. repo may be nil when persistence is
// disabled.
func NewScanJob(runner Runner, repo *report.Repository, schedule string, log *logger.Logger) *ScanJob {
	if schedule == "" {
		// Weekdays at 07:00, before European market open.
		schedule = "0 0 7 * * 1-5"
	}
	return &ScanJob{
		runner:   runner,
		repo:     repo,
		schedule: schedule,
		logger:   log,
	}
}

func (j *ScanJob) Name() string { return "discovery_scan" }

func (j *ScanJob) Schedule() string { return j.schedule }

// Run executes the scan and stores the outcome.
func (j *ScanJob) Run(ctx context.Context) error {
	result, err := j.runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if result.Reason != "" {
		j.logger.WithField("reason", result.Reason).Warn("Scheduled scan produced no profiles")
	}

	if j.repo != nil {
		runID, err := j.repo.SaveRun(ctx, result)
		if err != nil {
			return fmt.Errorf("persist scan result: %w", err)
		}
		j.logger.WithFields(map[string]interface{}{
			"run_id":   runID,
			"profiles": len(result.Profiles),
		}).Info("Scheduled scan persisted")
	}

	return nil
}
