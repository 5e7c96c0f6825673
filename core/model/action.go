package model

// JobAction identifies an operator action on a job. Which actions are
// offered for a given status is decided by the lifecycle package.
type JobAction string

const (
	ActionSchedule      JobAction = "schedule"
	ActionStart         JobAction = "start"
	ActionOnMyWay       JobAction = "on_my_way"
	ActionComplete      JobAction = "complete"
	ActionCreateQuote   JobAction = "create_quote"
	ActionCreateInvoice JobAction = "create_invoice"
	ActionDelete        JobAction = "delete"
)
