package models

// Profile is the extended scholarship profile of a user.
type Profile struct {
	ID     int64 `json:"id,omitempty"`
	UserID int64 `json:"user_id,omitempty"`

	// Personal
	FirstName   string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName    string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Phone       string `json:"phone,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	ZipCode     string `json:"zip_code,omitempty"`

	// Academic
	HighSchool     string   `json:"high_school,omitempty"`
	GPA            *float64 `json:"gpa,omitempty" validate:"omitempty,gte=0,lte=4"`
	GraduationYear int      `json:"graduation_year,omitempty" validate:"omitempty,gte=1900,lte=2100"`
	IntendedMajor  string   `json:"intended_major,omitempty"`
	SATScore       int      `json:"sat_score,omitempty" validate:"omitempty,gte=400,lte=1600"`
	ACTScore       int      `json:"act_score,omitempty" validate:"omitempty,gte=1,lte=36"`

	// Financial
	HouseholdIncome string `json:"household_income,omitempty"`
	FirstGeneration bool   `json:"first_generation,omitempty"`
	FinancialNeed   bool   `json:"financial_need,omitempty"`

	// Activities
	Extracurriculars []string `json:"extracurriculars,omitempty"`
	VolunteerHours   int      `json:"volunteer_hours,omitempty" validate:"omitempty,gte=0"`
	Awards           []string `json:"awards,omitempty"`
	CareerGoals      string   `json:"career_goals,omitempty"`
	EssayTopics      []string `json:"essay_topics,omitempty"`

	ProfileCompleted     bool    `json:"profile_completed,omitempty"`
	CompletionPercentage float64 `json:"completion_percentage,omitempty"`
}

// ProfileSections tells which parts of a profile have data.
type ProfileSections struct {
	Personal   bool `json:"personal"`
	Academic   bool `json:"academic"`
	Financial  bool `json:"financial"`
	Activities bool `json:"activities"`
}

// ProfileSummary is the completion metadata of a profile.
type ProfileSummary struct {
	UserID               int64           `json:"user_id,omitempty"`
	ProfileCompleted     bool            `json:"profile_completed"`
	CompletionPercentage float64         `json:"completion_percentage"`
	MissingFields        []string        `json:"missing_fields"`
	Sections             ProfileSections `json:"sections"`
}

// DefaultMissingFields lists what a user without any profile still has to fill in.
var DefaultMissingFields = []string{"personal_info", "academic_info", "financial_info", "activities"}

// DefaultProfileSummary describes a user who has not created a profile yet.
func DefaultProfileSummary() *ProfileSummary {
	missing := make([]string, len(DefaultMissingFields))
	copy(missing, DefaultMissingFields)
	return &ProfileSummary{
		ProfileCompleted:     false,
		CompletionPercentage: 0,
		MissingFields:        missing,
	}
}
