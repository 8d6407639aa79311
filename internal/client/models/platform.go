package models

// PlatformStats are the aggregate numbers shown on the landing view.
type PlatformStats struct {
	TotalScholarships int     `json:"total_scholarships"`
	TotalUsers        int     `json:"total_users"`
	TotalAwarded      float64 `json:"total_awarded"`
}

// Testimonial is a short quote from a past applicant.
type Testimonial struct {
	Name  string `json:"name"`
	Quote string `json:"quote"`
}
