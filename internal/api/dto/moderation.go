package dto

// ReportPostDTO 举报
type ReportPostDTO struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// SetVisibilityDTO 管理员显隐操作
type SetVisibilityDTO struct {
	Visible bool   `json:"visible"`
	Reason  string `json:"reason" binding:"max=500"`
}
