package common

// SuccessResponse is the envelope of every successful response
type SuccessResponse struct {
	Code    int         `json:"code,omitempty" example:"200"`
	Message string      `json:"message,omitempty" example:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the envelope of every error response
type ErrorResponse struct {
	Code    int               `json:"code,omitempty" example:"2001"`
	Message string            `json:"message,omitempty" example:"Invalid fiscal quarter, expected YYYYQX"`
	Info    string            `json:"info,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// HealthResponse is returned by the health check
type HealthResponse struct {
	Status      string            `json:"status" example:"ok"`
	Environment string            `json:"environment" example:"development"`
	Checks      map[string]string `json:"checks,omitempty"`
}
