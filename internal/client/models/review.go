package models

// Review is a user's rating of a scholarship.
type Review struct {
	ID            int64  `json:"id,omitempty"`
	ScholarshipID int64  `json:"scholarship_id" validate:"required,gt=0"`
	UserID        int64  `json:"user_id,omitempty"`
	Rating        int    `json:"rating" validate:"required,gte=1,lte=5"`
	Title         string `json:"title" validate:"required,max=200"`
	Content       string `json:"content" validate:"required,max=5000"`
	CreatedAt     string `json:"created_at,omitempty"`
}
