package model

import "time"

// Export bundles every piece of personal data held about a user, returned by
// the GDPR data-access endpoint.
type Export struct {
	User             User          `json:"user"`
	ProjectsAuthored []Project     `json:"projects_authored"`
	Contributions    []Contributor `json:"contributions"`
	IssuesAuthored   []Issue       `json:"issues_authored"`
	IssuesAssigned   []Issue       `json:"issues_assigned"`
	CommentsAuthored []Comment     `json:"comments_authored"`
	ExportedAt       time.Time     `json:"exported_at"`
}
