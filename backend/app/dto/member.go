package dto

import "jkwi-ims/backend/app/models"

type SubmitApplicationResponse struct {
	Success       bool     `json:"success"`
	Message       string   `json:"message"`
	ApplicationID string   `json:"application_id"`
	MemberID      string   `json:"member_id"`
	Status        string   `json:"status"`
	NextSteps     []string `json:"next_steps"`
}

type ApplicationsResponse struct {
	Success      bool            `json:"success"`
	Count        int             `json:"count"`
	Applications []models.Record `json:"applications"`
}

type MembersResponse struct {
	Success bool            `json:"success"`
	Count   int             `json:"count"`
	Members []models.Record `json:"members"`
}

type StatsResponse struct {
	Success           bool   `json:"success"`
	TotalUsers        int    `json:"totalUsers"`
	TotalMembers      int    `json:"totalMembers"`
	TotalApplications int    `json:"totalApplications"`
	SystemStatus      string `json:"systemStatus"`
}

type ExportResponse struct {
	Success      bool            `json:"success"`
	Members      []models.Record `json:"members"`
	Applications []models.Record `json:"applications"`
	ExportedAt   string          `json:"exported_at"`
	ExportedBy   string          `json:"exported_by,omitempty"`
}
