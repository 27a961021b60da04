package airtable

// Record is one row as returned by the upstream API: an opaque field map plus the
// upstream record identifier.
type Record struct {
	ID          string         `json:"id"`
	CreatedTime string         `json:"createdTime,omitempty"`
	Fields      map[string]any `json:"fields"`
}

// SortField orders results by one field.
type SortField struct {
	Field     string `json:"field"`
	Direction string `json:"direction,omitempty"`
}

// Query narrows a FetchRecords call. Zero values are omitted from the request.
type Query struct {
	View            string
	MaxRecords      int
	PageSize        int
	Sort            []SortField
	FilterByFormula string
	Fields          []string
}

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

type writeRequest struct {
	Fields   map[string]any `json:"fields"`
	Typecast bool           `json:"typecast,omitempty"`
}

type deleteResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}
