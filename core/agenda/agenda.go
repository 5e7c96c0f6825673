// Package agenda derives the today and this-week job views from the raw
// job collection. Both derivations are pure O(n) scans recomputed on
// every collection change; nothing is cached or mutated.
//
// Canonical exclusion rule: ThisWeek drops done and invoiced jobs only.
// Today keeps every status so finished work stays visible for review.
package agenda

import (
	"sort"
	"time"

	"github.com/fieldops/dispatch/core/model"
)

// dayOf truncates t to its local calendar day.
func dayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Today returns jobs scheduled on the calendar day of now, all statuses,
// ordered by scheduled time ascending. Unscheduled jobs never appear.
func Today(jobs []model.Job, now time.Time) []model.Job {
	loc := now.Location()
	today := dayOf(now, loc)
	var out []model.Job
	for _, j := range jobs {
		if j.ScheduledAt == nil {
			continue
		}
		if dayOf(*j.ScheduledAt, loc).Equal(today) {
			out = append(out, j)
		}
	}
	sortBySchedule(out)
	return out
}

// ThisWeek returns open jobs scheduled after today and within the next
// seven days. Today's jobs belong to Today and are excluded here to
// avoid duplication; done and invoiced jobs are dropped.
func ThisWeek(jobs []model.Job, now time.Time) []model.Job {
	loc := now.Location()
	today := dayOf(now, loc)
	weekEnd := today.AddDate(0, 0, 7)
	var out []model.Job
	for _, j := range jobs {
		if j.ScheduledAt == nil || j.Status.Closed() {
			continue
		}
		day := dayOf(*j.ScheduledAt, loc)
		if day.After(today) && !day.After(weekEnd) {
			out = append(out, j)
		}
	}
	sortBySchedule(out)
	return out
}

func sortBySchedule(jobs []model.Job) {
	sort.SliceStable(jobs, func(i, k int) bool {
		return jobs[i].ScheduledAt.Before(*jobs[k].ScheduledAt)
	})
}
