package models

// OperationLog is one row of the append-only audit trail.
type OperationLog struct {
	ID          int64  `db:"id" json:"id"`
	Type        string `db:"type" json:"type"`
	Module      string `db:"module" json:"module"`
	Description string `db:"description" json:"description"`
	Username    string `db:"username" json:"username"`
	Status      string `db:"status" json:"status"`
	Details     string `db:"details" json:"details"`
	Timestamp   string `db:"timestamp" json:"timestamp"`
}

// OperationLogFilter selects a page of audit entries.
type OperationLogFilter struct {
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
	Type      string `form:"type"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
}

// OperationLogPage is the paginated read-back payload.
type OperationLogPage struct {
	Logs     []OperationLog `json:"logs"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}
