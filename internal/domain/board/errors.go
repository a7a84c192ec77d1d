package board

import "errors"

var (
	ErrPostNotFound = errors.New("post not found")
	ErrNotAuthor    = errors.New("caller is not the author of this post")
)
