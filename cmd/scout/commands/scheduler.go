package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlefloch/stockscout/internal/scheduler"
	"github.com/mlefloch/stockscout/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Manage the scan scheduler",
	Long: `Starts the scheduler daemon or inspects its jobs.

Registered jobs:
- discovery_scan: weekdays at 07:00, before European market open

Subcommands:
  start   - start the scheduler daemon
  list    - list registered jobs
  run     - run one job immediately
  status  - show job execution history

Example:
  go run ./cmd/scout scheduler start
  go run ./cmd/scout scheduler run discovery_scan`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler daemon",
		Long: `Starts the scheduler and registers all jobs. The daemon keeps
running until interrupted with Ctrl+C.`,
		RunE: runSchedulerStart,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listSchedulerJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run one job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runSchedulerJob,
	}

	schedulerStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show job execution history",
		RunE:  showSchedulerStatus,
	}
)

var scanSchedule string

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
	schedulerCmd.AddCommand(schedulerStatusCmd)

	schedulerStartCmd.Flags().StringVar(&scanSchedule, "schedule", "", "cron expression for the scan job (with seconds)")
}

func initScheduler() (*scheduler.Scheduler, *runtime, error) {
	rt, err := initRuntime(nil)
	if err != nil {
		return nil, nil, err
	}

	sched := scheduler.New(rt.log)
	scanJob := jobs.NewScanJob(rt.pipe, rt.repo, scanSchedule, rt.log)
	if err := sched.AddJob(scanJob); err != nil {
		rt.Close()
		return nil, nil, fmt.Errorf("register scan job: %w", err)
	}

	return sched, rt, nil
}

func runSchedulerStart(cmd *cobra.Command, args []string) error {
	fmt.Println("=== StockScout Scheduler ===")

	sched, rt, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer rt.Close()

	if rt.repo != nil {
		if err := rt.repo.EnsureSchema(cmd.Context()); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	fmt.Println("\nRegistered jobs:")
	for _, name := range sched.Jobs() {
		fmt.Printf("  - %s\n", name)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nStopping scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")
	return nil
}

func listSchedulerJobs(cmd *cobra.Command, args []string) error {
	sched, rt, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer rt.Close()

	fmt.Println("Registered jobs:")
	for _, name := range sched.Jobs() {
		fmt.Printf("  - %s\n", name)
	}
	return nil
}

func runSchedulerJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	sched, rt, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer rt.Close()

	if rt.repo != nil {
		if err := rt.repo.EnsureSchema(cmd.Context()); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	fmt.Printf("Running job %s...\n", jobName)
	if err := sched.RunJob(jobName); err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	// RunJob is asynchronous. Poll until a result lands.
	for {
		if result, ok := sched.LastResult(jobName); ok {
			if result.Error != "" {
				return fmt.Errorf("job %s failed: %s", jobName, result.Error)
			}
			fmt.Printf("✅ Job %s finished in %v\n", jobName, result.Duration.Round(timeRound))
			return nil
		}
		select {
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
}

func showSchedulerStatus(cmd *cobra.Command, args []string) error {
	sched, rt, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer rt.Close()

	for _, name := range sched.Jobs() {
		history, err := sched.History(name)
		if err != nil {
			continue
		}
		printSeparator()
		fmt.Printf("Job: %s\n", name)
		fmt.Printf("  runs:         %d\n", len(history.Results))
		fmt.Printf("  success rate: %.0f%%\n", history.SuccessRate()*100)
		if last, ok := sched.LastResult(name); ok {
			fmt.Printf("  last run:     %s (%v)\n", last.StartTime.Format("2006-01-02 15:04:05"), last.Duration.Round(timeRound))
			if last.Error != "" {
				fmt.Printf("  last error:   %s\n", last.Error)
			}
		}
	}
	return nil
}
