package entity

// Listing is a job, internship or workshop fetched from a third-party board.
type Listing struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Salary      string `json:"salary,omitempty"`
	Created     string `json:"created,omitempty"`
	Source      string `json:"source"`
}
