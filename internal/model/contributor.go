package model

import "time"

// Contributor is the membership edge between a user and a project. The
// (user_id, project_id) pair is unique at the storage layer.
type Contributor struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ProjectID int64     `json:"project_id"`
	CreatedAt time.Time `json:"created_at"`
}
