package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fieldops/dispatch/core/lifecycle"
	"github.com/fieldops/dispatch/core/model"
)

var jobYes bool

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Job lifecycle commands",
}

var jobApplyCmd = &cobra.Command{
	Use:   "apply <job-id> <action>",
	Short: "Apply a lifecycle action to a job",
	Args:  cobra.ExactArgs(2),
	RunE:  runJobApply,
}

var jobActionsCmd = &cobra.Command{
	Use:   "actions <job-id>",
	Short: "List the actions available for a job",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobActions,
}

func init() {
	jobApplyCmd.Flags().BoolVarP(&jobYes, "yes", "y", false, "confirm consequential actions")
	jobCmd.AddCommand(jobApplyCmd, jobActionsCmd)
	rootCmd.AddCommand(jobCmd)
}

func runJobApply(cmd *cobra.Command, args []string) error {
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
	updated, err := svc.Machine.Apply(ctx, job, model.JobAction(args[1]), jobYes)
	if err != nil {
		return err
	}
	cmd.Printf("job %s: %s -> %s\n", job.ID, job.Status, updated.Status)
	return nil
}

func runJobActions(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	job, err := findJob(context.Background(), svc, args[0])
	if err != nil {
		return err
	}
	actions := lifecycle.ActionsFor(job.Status)
	if len(actions) == 0 {
		cmd.Println("(no actions available)")
		return nil
	}
	for _, a := range actions {
		fmt.Fprintln(cmd.OutOrStdout(), a)
	}
	return nil
}
