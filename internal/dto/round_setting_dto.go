package dto

import "github.com/sparrowhq/talent-api/internal/models"

// RoundSettingPutRequest upserts one typed setting value.
type RoundSettingPutRequest struct {
	JobRoundTemplateID *uint  `json:"job_round_template_id" validate:"omitempty,gt=0"`
	JobOpeningID       *uint  `json:"job_opening_id" validate:"omitempty,gt=0"`
	Key                string `json:"key" validate:"required,oneof=assessment_id brand_id"`
	Value              string `json:"value" validate:"required,min=1,max=255"`
}

// ResolvedSetting reports a setting value together with the precedence layer
// that supplied it.
type ResolvedSetting struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// NewRoundSettingResponse converts a RoundSetting model into a ResolvedSetting
// attributed to its scope.
func NewRoundSettingResponse(model models.RoundSetting) ResolvedSetting {
	source := models.SettingSourceJob
	if model.JobRoundTemplateID != nil {
		source = models.SettingSourceTemplate
	}

	return ResolvedSetting{
		Key:    model.Key,
		Value:  model.Value,
		Source: source,
	}
}
