package models

// NewsRecord is one extracted news listing entry.
type NewsRecord struct {
	Date  string   `json:"date"`
	Time  string   `json:"time"`
	Title string   `json:"title"`
	Link  string   `json:"link"`
	Tags  []string `json:"tags"`
}
