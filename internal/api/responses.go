package api

const ForbiddenMessage = "You do not have permission to perform this action"

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"up"`
}

// FieldError is one message for one submitted field.
type FieldError struct {
	Message string `json:"message" example:"This field is required."`
	Code    string `json:"code" example:"required"`
}

// AckResponse is returned by every create/update/renew endpoint.
type AckResponse struct {
	Status      string                  `json:"status" example:"success"`
	Message     string                  `json:"message" example:"Payment saved successfully"`
	ID          int                     `json:"id,omitempty" example:"12"`
	RedirectURL string                  `json:"redirect_url,omitempty" example:"/finance/payments"`
	ErrorList   map[string][]FieldError `json:"error_list,omitempty"`
}
