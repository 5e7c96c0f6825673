package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fieldops/dispatch/app"
	"github.com/fieldops/dispatch/core/model"
)

var assignYes bool

var assignCmd = &cobra.Command{
	Use:   "assign <job-id> <member-id>",
	Short: "Assign a job to a team member",
	Args:  cobra.ExactArgs(2),
	RunE:  runAssign,
}

var unassignCmd = &cobra.Command{
	Use:   "unassign <job-id>",
	Short: "Remove a job's assignment",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnassign,
}

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "List eligible team members with their active job counts",
	RunE:  runRoster,
}

func init() {
	unassignCmd.Flags().BoolVarP(&assignYes, "yes", "y", false, "confirm the removal")
	rootCmd.AddCommand(assignCmd, unassignCmd, rosterCmd)
}

func findJob(ctx context.Context, svc *app.Service, jobID string) (model.Job, error) {
	jobs, err := svc.Jobs.ListJobs(ctx)
	if err != nil {
		return model.Job{}, fmt.Errorf("list jobs: %w", err)
	}
	for _, j := range jobs {
		if j.ID == jobID {
			return j, nil
		}
	}
	return model.Job{}, fmt.Errorf("job %s not found", jobID)
}

func findMember(ctx context.Context, svc *app.Service, memberID string) (model.TeamMember, error) {
	members, err := svc.Team.ListTeamMembers(ctx)
	if err != nil {
		return model.TeamMember{}, fmt.Errorf("list team members: %w", err)
	}
	for _, m := range members {
		if m.ID == memberID {
			return m, nil
		}
	}
	return model.TeamMember{}, fmt.Errorf("team member %s not found", memberID)
}

func runAssign(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	ctx := context.Background()
	job, err := findJob(ctx, svc, args[0])
	if err != nil {
		return err
	}
	member, err := findMember(ctx, svc, args[1])
	if err != nil {
		return err
	}
	if err := svc.Scheduler.Select(job); err != nil {
		return err
	}
	if err := svc.Scheduler.Assign(ctx, member); err != nil {
		return err
	}
	cmd.Printf("job %s assigned to %s\n", job.ID, member.DisplayName())
	return nil
}

func runUnassign(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	ctx := context.Background()
	job, err := findJob(ctx, svc, args[0])
	if err != nil {
		return err
	}
	if err := svc.Scheduler.Unassign(ctx, job, assignYes); err != nil {
		return err
	}
	cmd.Printf("job %s unassigned\n", job.ID)
	return nil
}

func runRoster(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	roster, err := svc.Scheduler.Roster(context.Background())
	if err != nil {
		return err
	}
	for _, m := range roster {
		cmd.Printf("%-20s %s  active jobs: %d\n", m.Member.DisplayName(), m.Member.ID, m.ActiveJobs)
	}
	return nil
}
