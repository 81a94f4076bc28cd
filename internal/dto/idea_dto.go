package dto

type CreateIdeaRequest struct {
	UserID string `json:"user_id"`
	Title  string `json:"title"`
}

// UpdateIdeaRequest carries a partial update (autosave). Pointers
// distinguish "absent" from "set to empty" so unset fields stay untouched.
type UpdateIdeaRequest struct {
	Title          *string                `json:"title"`
	Description    *string                `json:"description"`
	TargetAudience *string                `json:"target_audience"`
	DynamicContent map[string]interface{} `json:"dynamic_content"`
	Status         *string                `json:"status"`
}

// UpdateFields collects only the supplied fields into a column map for the
// store's merge update.
func (r *UpdateIdeaRequest) UpdateFields() map[string]interface{} {
	fields := make(map[string]interface{})
	if r.Title != nil {
		fields["title"] = *r.Title
	}
	if r.Description != nil {
		fields["description"] = *r.Description
	}
	if r.TargetAudience != nil {
		fields["target_audience"] = *r.TargetAudience
	}
	if r.DynamicContent != nil {
		fields["dynamic_content"] = r.DynamicContent
	}
	if r.Status != nil {
		fields["status"] = *r.Status
	}
	return fields
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}
