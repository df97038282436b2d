package transport

type CreateSiteRequest struct {
	Name           string   `json:"name" validate:"required,min=1,max=200"`
	Industry       string   `json:"industry" validate:"required,min=1,max=100"`
	TargetAudience string   `json:"targetAudience" validate:"required,min=1,max=500"`
	Goals          []string `json:"goals" validate:"omitempty,max=20,dive,min=1,max=200"`
	Template       string   `json:"template" validate:"omitempty,max=50"`
	Domain         *string  `json:"domain,omitempty" validate:"omitempty,fqdn"`
	ColorScheme    *string  `json:"colorScheme,omitempty" validate:"omitempty,max=50"`
}
