package models

// PageRequest bounds a list read. Offset is the number of documents to
// skip, Limit the maximum number to return.
type PageRequest struct {
	Offset int64 `json:"offset"`
	Limit  int64 `json:"limit"`
}

// Clamp normalizes the request against the configured defaults: a
// non-positive limit falls back to def, anything above max is capped at
// max, and a negative offset becomes zero.
func (p PageRequest) Clamp(def, max int64) PageRequest {
	if p.Limit <= 0 {
		p.Limit = def
	}
	if p.Limit > max {
		p.Limit = max
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
