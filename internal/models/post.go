// Package models defines the data structures persisted in the JSON documents
// and provides the core types used throughout the application.
package models

// Status represents the publishing state of a post. Stored on disk as a
// bare integer; the numeric values are part of the persisted format and
// must not be reordered.
type Status int

const (
	StatusPublic  Status = 0
	StatusPrivate Status = 1
	StatusDraft   Status = 2
)

// CreatedAtLayout is the time.Format layout for Post.CreatedAt. The
// fixed-width form makes lexicographic comparison equal to chronological
// comparison, which the query engine relies on for sorting.
const CreatedAtLayout = "2006-01-02 15:04"

// Post is a blog article. CreatedAt stays a string end to end so the
// on-disk representation round-trips unchanged.
type Post struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	CategoryID int    `json:"category_id"`
	TopicID    int    `json:"topic_id"`
	GroupID    int    `json:"group_id"`
	Status     Status `json:"status"`
	CreatedAt  string `json:"created_at"`
}

// IsPublic returns true if the post is visible to unauthenticated readers.
func (p *Post) IsPublic() bool {
	return p.Status == StatusPublic
}

// PostView is a Post enriched with resolved taxonomy names for display.
// Names default to empty strings when the referenced entity no longer
// exists (dangling ids are allowed by the data model).
type PostView struct {
	Post
	CategoryName string `json:"category_name"`
	TopicName    string `json:"topic_name"`
	GroupName    string `json:"group_name"`
}
