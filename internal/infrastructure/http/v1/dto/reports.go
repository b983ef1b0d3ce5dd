package dto

// ReportQuery carries the common report parameters.
// Location accepts "all" (or empty) or a location UUID.
type ReportQuery struct {
	From     string `form:"from" binding:"required"`
	To       string `form:"to" binding:"required"`
	Location string `form:"location"`
	Category string `form:"category"`
}

// AlertRuleRequest is one user-supplied alert rule.
type AlertRuleRequest struct {
	Name       string `json:"name" binding:"required"`
	Expression string `json:"expression" binding:"required"`
}

// AlertsRequest is the body of a custom alerts evaluation.
type AlertsRequest struct {
	Rules []AlertRuleRequest `json:"rules"`
}

// RunHistoryQuery narrows the report run log.
type RunHistoryQuery struct {
	Kind  string `form:"kind" binding:"required"`
	Limit int    `form:"limit"`
}
