package transport

type CreateOutreachCampaignRequest struct {
	Name    string  `json:"name" validate:"required,min=1,max=200"`
	LeadIDs []int64 `json:"leadIds" validate:"omitempty,max=1000,dive,gt=0"`
	Message *string `json:"message,omitempty" validate:"omitempty,max=5000"`
}

type CompleteOutreachCampaignRequest struct {
	Results map[string]any `json:"results"`
}

type CreateMarketingCampaignRequest struct {
	Name           string         `json:"name" validate:"required,min=1,max=200"`
	Type           string         `json:"type" validate:"required,oneof=google_ads facebook linkedin twitter email"`
	Status         string         `json:"status" validate:"omitempty,oneof=draft active paused completed"`
	Budget         *float64       `json:"budget,omitempty" validate:"omitempty,gt=0"`
	TargetAudience map[string]any `json:"targetAudience,omitempty"`
}

type RecordSpendRequest struct {
	Spent *float64 `json:"spent" validate:"required,min=0"`
}

type RecordSpendResponse struct {
	Campaign         any  `json:"campaign"`
	ThresholdReached bool `json:"thresholdReached"`
}
