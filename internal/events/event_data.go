package events

// CatalogRefreshedData contains data for CatalogRefreshed events
type CatalogRefreshedData struct {
	Source      string `json:"source"`
	RecordCount int    `json:"record_count"`
	Checksum    string `json:"checksum"`
}

// CatalogLoadFailedData contains data for CatalogLoadFailed events
type CatalogLoadFailedData struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}
