package allowance

// Source names where the base allowance figure came from.
const (
	SourceCompany    = "company"
	SourceDepartment = "department"
	SourceUnlimited  = "unlimited"
)

// Pro-rating reasons surfaced in the breakdown.
const (
	ReasonStartedMidYear = "started mid-year"
	ReasonLeftMidYear    = "left mid-year"
)

// Breakdown is the full allowance picture for one employee and year. All
// figures are in days with half-day precision.
type Breakdown struct {
	EmployeeID string `json:"employee_id"`
	Year       int    `json:"year"`

	Unlimited       bool    `json:"unlimited"`
	BaseAllowance   float64 `json:"base_allowance"`
	AllowanceSource string  `json:"allowance_source"`

	IsProRated         bool    `json:"is_pro_rated"`
	ProRatedAdjustment float64 `json:"pro_rated_adjustment"`
	ProRatingReason    string  `json:"pro_rating_reason,omitempty"`

	CarriedOver      float64 `json:"carried_over"`
	ManualAdjustment float64 `json:"manual_adjustment"`

	TotalAllowance float64 `json:"total_allowance"`
	UsedAllowance  float64 `json:"used_allowance"`
	// PendingAllowance counts NEW and PENDING_REVOKE requests.
	PendingAllowance float64 `json:"pending_allowance"`
	// AvailableAllowance may go negative; callers report, they do not fail.
	AvailableAllowance float64 `json:"available_allowance"`
}

type CreateAdjustmentRequest struct {
	EmployeeID string  `json:"employee_id" binding:"required,uuid"`
	Year       int     `json:"year" binding:"required"`
	Delta      float64 `json:"delta" binding:"required"`
	Reason     string  `json:"reason" binding:"required"`
}

type AdjustmentResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	Year       int     `json:"year"`
	Delta      float64 `json:"delta"`
	Reason     string  `json:"reason"`
	CreatedBy  string  `json:"created_by"`
}
