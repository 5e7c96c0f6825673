package lifecycle

import "github.com/fieldops/dispatch/core/model"

// menuOrder fixes the presentation order of actions in the more-actions
// menu.
var menuOrder = []model.JobAction{
	model.ActionSchedule,
	model.ActionStart,
	model.ActionOnMyWay,
	model.ActionComplete,
	model.ActionCreateQuote,
	model.ActionCreateInvoice,
	model.ActionDelete,
}

// staticActions lists menu entries owned by external collaborators
// (scheduling, quoting, invoicing, deletion). They are offered alongside
// the machine's own transitions but never applied through it.
var staticActions = map[model.JobStatus][]model.JobAction{
	model.StatusPending:  {model.ActionSchedule},
	model.StatusDone:     {model.ActionCreateQuote, model.ActionCreateInvoice},
	model.StatusInvoiced: {},
}

// actionTable is derived once from the transition table plus the static
// entries, so call sites never rebuild menus from ad hoc status checks.
var actionTable = buildActionTable()

func buildActionTable() map[model.JobStatus][]model.JobAction {
	table := make(map[model.JobStatus][]model.JobAction)
	for _, status := range []model.JobStatus{
		model.StatusPending, model.StatusScheduled, model.StatusInProgress,
		model.StatusDone, model.StatusInvoiced,
	} {
		offered := map[model.JobAction]bool{model.ActionDelete: true}
		for action := range transitions[status] {
			offered[action] = true
		}
		for _, action := range staticActions[status] {
			offered[action] = true
		}
		var list []model.JobAction
		for _, action := range menuOrder {
			if offered[action] {
				list = append(list, action)
			}
		}
		table[status] = list
	}
	return table
}

// ActionsFor returns the menu actions for a job status in presentation
// order.
func ActionsFor(status model.JobStatus) []model.JobAction {
	return append([]model.JobAction(nil), actionTable[status]...)
}
