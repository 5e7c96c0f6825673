package model

// InviteStatus tracks whether a team member accepted their invitation.
type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteDeclined InviteStatus = "declined"
)

// TeamMember is a worker that jobs can be assigned to.
type TeamMember struct {
	ID           string
	FirstName    string
	LastName     string
	InviteStatus InviteStatus
}

// Eligible reports whether the member can receive assignments.
func (m TeamMember) Eligible() bool { return m.InviteStatus == InviteAccepted }

// DisplayName joins the name parts for presentation.
func (m TeamMember) DisplayName() string {
	switch {
	case m.FirstName == "":
		return m.LastName
	case m.LastName == "":
		return m.FirstName
	}
	return m.FirstName + " " + m.LastName
}

// ActiveJobCount counts open jobs assigned to the member. It is derived
// from the authoritative job collection on demand and never stored, so
// displayed counts cannot drift from server truth.
func ActiveJobCount(jobs []Job, memberID string) int {
	n := 0
	for _, j := range jobs {
		if j.AssignedTo == memberID && !j.Status.Closed() {
			n++
		}
	}
	return n
}
