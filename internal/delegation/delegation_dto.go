package delegation

type CreateDelegationRequest struct {
	SupervisorID string `json:"supervisor_id" binding:"required,uuid"`
	DelegateID   string `json:"delegate_id" binding:"required,uuid"`
	StartDate    string `json:"start_date" binding:"required"`
	EndDate      string `json:"end_date" binding:"required"`
}

type DelegationResponse struct {
	ID           string `json:"id"`
	CompanyID    string `json:"company_id"`
	SupervisorID string `json:"supervisor_id"`
	DelegateID   string `json:"delegate_id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Active       bool   `json:"active"`
}
