package models

// Pose is a record of the external pose catalog. It is never persisted here;
// collections only keep its identifier.
type Pose struct {
	ID          ExternalID `json:"id"`
	Name        string     `json:"name"`
	Image       string     `json:"image"`
	Description string     `json:"description"`
	Difficulty  string     `json:"difficulty"`
	Style       string     `json:"style"`
}
