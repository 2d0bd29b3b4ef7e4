package models

// SyncSummary reports the outcome of one connector sync run.
type SyncSummary struct {
	Success bool   `json:"success"`
	Source  string `json:"source,omitempty"`
	Synced  int    `json:"synced"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed,omitempty"`
	Total   int    `json:"total"`
	Error   string `json:"error,omitempty"`
}

// WebhookSummary reports the outcome of one scraper webhook delivery.
type WebhookSummary struct {
	Success  bool   `json:"success"`
	Inserted int    `json:"inserted"`
	Skipped  int    `json:"skipped"`
	Total    int    `json:"total"`
	Error    string `json:"error,omitempty"`
}

// PublishSummary reports the outcome of one publication run.
type PublishSummary struct {
	Success   bool   `json:"success"`
	Published int    `json:"published"`
	Failed    int    `json:"failed,omitempty"`
	Total     int    `json:"total"`
	Error     string `json:"error,omitempty"`
}

// MergeSummary reports the outcome of one catalog dedup sweep.
type MergeSummary struct {
	Success    bool   `json:"success"`
	Total      int    `json:"total"`      // catalog records examined
	Unique     int    `json:"unique"`     // distinct identity keys
	Duplicates int    `json:"duplicates"` // records marked for removal
	Merged     int    `json:"merged"`     // keeper records updated
	Deleted    int    `json:"deleted"`
	Failed     int    `json:"failed,omitempty"` // records that could not be updated or deleted
	Error      string `json:"error,omitempty"`
}
