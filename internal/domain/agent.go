package domain

import "time"

// AgentStatus reflects an agent's current availability.
type AgentStatus string

const (
	AgentStatusOnline  AgentStatus = "online"
	AgentStatusAway    AgentStatus = "away"
	AgentStatusOffline AgentStatus = "offline"
)

// Agent models a tenant-scoped support worker.
type Agent struct {
	ID        string
	TenantID  string
	Name      string
	Email     string
	Status    AgentStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Available reports whether the agent can take new tickets.
func (a *Agent) Available() bool {
	return a.Status == AgentStatusOnline || a.Status == AgentStatusAway
}
