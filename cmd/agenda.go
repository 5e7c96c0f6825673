package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fieldops/dispatch/core/agenda"
	"github.com/fieldops/dispatch/core/model"
)

var agendaCmd = &cobra.Command{
	Use:   "agenda",
	Short: "Show today's and this week's jobs",
	RunE:  runAgenda,
}

func init() {
	rootCmd.AddCommand(agendaCmd)
}

func printJobs(cmd *cobra.Command, jobs []model.Job) {
	if len(jobs) == 0 {
		cmd.Println("  (none)")
		return
	}
	for _, j := range jobs {
		assigned := ""
		if j.Assigned() {
			assigned = "  -> " + j.AssignedTo
		}
		cmd.Printf("  %s  [%s] %s%s\n", j.ScheduledAt.Format("Mon 15:04"), j.Status, j.Title, assigned)
	}
}

func runAgenda(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	jobs, err := svc.Jobs.ListJobs(context.Background())
	if err != nil {
		return fmt.Errorf("list jobs: %w", err)
	}
	now := time.Now()
	cmd.Println("Today")
	printJobs(cmd, agenda.Today(jobs, now))
	cmd.Println("This week")
	printJobs(cmd, agenda.ThisWeek(jobs, now))
	return nil
}
