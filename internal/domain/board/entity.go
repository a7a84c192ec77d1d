package board

import "time"

// Post is a community board entry. Images holds the /uploads/... URLs the
// client received from the upload endpoint; there is no referential
// integrity between files on disk and the posts that mention them.
type Post struct {
	ID        uint
	UserID    uint
	Title     string
	Content   string
	PlantType string
	Images    []string
	Author    string
	CreatedAt time.Time
}

// Comment belongs to one post and one user.
type Comment struct {
	ID          uint
	PostID      uint
	UserID      uint
	Comment     string
	Author      string
	CommentedAt time.Time
}
