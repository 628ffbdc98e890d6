package model

// Stats summarises a merged entry list.
type Stats struct {
	TotalEntries  int    `json:"total_entries"`
	LocalEntries  int    `json:"local_entries"`
	RemoteEntries int    `json:"remote_entries"`
	TotalWords    int    `json:"total_words"`
	AverageWords  int    `json:"average_words"`
	EarliestEntry string `json:"earliest_entry,omitempty"`
	LatestEntry   string `json:"latest_entry,omitempty"`
}
