package domain

import "strings"

// Status is the three level health classification of a product.
type Status string

const (
	StatusHealthy  Status = "Healthy"
	StatusLow      Status = "Low"
	StatusCritical Status = "Critical"
)

// AllStatus is the status filter wildcard.
const AllStatus = "All Status"

var statusCodes = map[string]Status{
	"healthy":  StatusHealthy,
	"low":      StatusLow,
	"critical": StatusCritical,
}

// Statuses returns every status in severity order, healthiest first.
func Statuses() []Status {
	return []Status{StatusHealthy, StatusLow, StatusCritical}
}

// ParseStatus returns the status for a given label (case-insensitive).
func ParseStatus(label string) (Status, bool) {
	status, ok := statusCodes[strings.ToLower(strings.TrimSpace(label))]

	return status, ok
}

// Rank orders statuses by severity; used for sorting.
func (s Status) Rank() int {
	switch s {
	case StatusHealthy:
		return 0
	case StatusLow:
		return 1
	case StatusCritical:
		return 2
	default:
		return 3
	}
}

// StatusOptions returns the values offered by the status filter.
func StatusOptions() []string {
	return []string{AllStatus, string(StatusHealthy), string(StatusLow), string(StatusCritical)}
}
