package models

// Scholarship is a single award listing.
type Scholarship struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Provider    string   `json:"provider,omitempty"`
	Description string   `json:"description,omitempty"`
	AmountMin   float64  `json:"amount_min,omitempty"`
	AmountMax   float64  `json:"amount_max,omitempty"`
	Deadline    string   `json:"deadline,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	Eligibility string   `json:"eligibility,omitempty"`
	URL         string   `json:"url,omitempty"`
	Renewable   bool     `json:"renewable,omitempty"`
	IsActive    bool     `json:"is_active"`
}

// PotentialAward is the largest amount the scholarship can pay out.
func (s Scholarship) PotentialAward() float64 {
	if s.AmountMax > 0 {
		return s.AmountMax
	}
	return s.AmountMin
}

// ScholarshipFilter narrows a search. Zero values are not sent.
type ScholarshipFilter struct {
	Query         string
	Category      string
	MinAmount     float64
	MaxAmount     float64
	DeadlineAfter string
	Page          int
	PageSize      int
}

// ScholarshipPage is one page of search results.
type ScholarshipPage struct {
	Items    []Scholarship `json:"items"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"size"`
}

// ScholarshipMatch pairs a scholarship with how well it fits the profile.
type ScholarshipMatch struct {
	Scholarship  Scholarship `json:"scholarship"`
	MatchScore   float64     `json:"match_score"`
	MatchReasons []string    `json:"match_reasons,omitempty"`
}
