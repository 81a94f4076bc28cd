package dto

type AnalyzeContentRequest struct {
	Content   string                 `json:"content"`
	FieldName string                 `json:"field_name"`
	Context   map[string]interface{} `json:"context"`
}
