package domain

// VisitRecord is one recorded visit. Records are append-only and never modified.
type VisitRecord struct {
	Timestamp string `json:"timestamp"` // "2006-01-02 15:04:05" in the bucketing zone
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	Note      string `json:"note,omitempty"`
}

// VisitStats represents aggregated visit counts for the current day bucket
type VisitStats struct {
	Total       int64  `json:"total"`
	Today       int64  `json:"today"`
	Yesterday   int64  `json:"yesterday"`
	CurrentDate string `json:"current_date"`
}

// Default content written to missing local files on startup
const (
	DefaultDataset = "Lv,EXP\n98,10000\n99,15000\n100,20000\n"
	DefaultCounter = "0"
	DefaultLog     = ""
)
