package dto

type HealthResponse struct {
	OK                 bool `json:"ok"`
	PendingAssignments int  `json:"pending_assignments"`
}
