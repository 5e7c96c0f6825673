package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fieldops/dispatch/core/agenda"
	"github.com/fieldops/dispatch/core/route"
	"github.com/fieldops/dispatch/infra/logger"
)

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Plan today's visiting route and print the navigation link",
	RunE:  runRoute,
}

func init() {
	rootCmd.AddCommand(routeCmd)
}

func runRoute(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	ctx := context.Background()
	jobs, err := svc.Jobs.ListJobs(ctx)
	if err != nil {
		return fmt.Errorf("list jobs: %w", err)
	}
	today := agenda.Today(jobs, time.Now())
	if len(today) == 0 {
		cmd.Println("no jobs scheduled today")
		return nil
	}

	plan, err := svc.Planner.PlanJobs(ctx, svc.Provider, today, svc.OriginTimeout(), logger.New("route"))
	if errors.Is(err, route.ErrInsufficientStops) {
		cmd.Println("fewer than two located stops, keeping schedule order")
		plan, err = today, nil
	}
	if err != nil {
		return fmt.Errorf("plan route: %w", err)
	}

	for i, j := range plan {
		where := j.Address
		if where == "" && j.Located() {
			where = j.Location.String()
		}
		cmd.Printf("%2d. [%s] %s  %s\n", i+1, j.Status, j.Title, where)
	}

	link, err := svc.Links.BuildLink(nil, plan)
	if err != nil {
		link, err = svc.Links.WebFallback(nil, plan)
	}
	if err != nil {
		cmd.Printf("no navigation link: %v\n", err)
		return nil
	}
	cmd.Printf("navigate: %s\n", link)
	return nil
}
