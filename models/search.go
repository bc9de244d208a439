package models

type SearchType string

const (
	SearchTypeAll       SearchType = "all"
	SearchTypeClients   SearchType = "clients"
	SearchTypeDocuments SearchType = "documents"
)

func (t SearchType) Valid() bool {
	switch t {
	case SearchTypeAll, SearchTypeClients, SearchTypeDocuments:
		return true
	}
	return false
}

// ClientSearchResult is a client decorated with its match score and the
// field that produced it ("email", "name" or "description").
type ClientSearchResult struct {
	Client
	MatchScore float64 `json:"match_score"`
	MatchField string  `json:"match_field"`
}

// DocumentSearchResult is a document decorated with its match score and the
// signal that produced it ("title", "content", "semantic" or "hybrid").
type DocumentSearchResult struct {
	Document
	MatchScore float64 `json:"match_score"`
	MatchField string  `json:"match_field"`
}

type SearchResponse struct {
	Query        string                 `json:"query"`
	SearchType   SearchType             `json:"search_type"`
	Clients      []ClientSearchResult   `json:"clients"`
	Documents    []DocumentSearchResult `json:"documents"`
	TotalResults int                    `json:"total_results"`
}
