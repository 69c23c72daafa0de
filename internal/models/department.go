package models

// Department is one entry of the catalog applicants choose from.
// Titles are unique case-insensitively and stored lower-cased.
type Department struct {
	ID          int64  `json:"id" db:"department_id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description,omitempty" db:"description"`
	ImageRef    string `json:"imageRef,omitempty" db:"image_ref"`
}
