// Package policy is the object-level authorization engine. Every request is
// evaluated against a fixed rule table keyed by (resource kind, action):
// the membership gate runs first and short-circuits, then the ownership rule
// for the operation. A non-member never learns whether they would have been
// the author.
package policy

import (
	"context"

	"softdesk/internal/apperr"
	"softdesk/pkg/metrics"
)

type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type Kind string

const (
	KindProject Kind = "project"
	KindIssue   Kind = "issue"
	KindComment Kind = "comment"
)

// Resource is the closed set of objects the engine evaluates. Project, Issue
// and Comment each resolve their owning project statically; there is no
// runtime type inspection.
type Resource interface {
	ProjectRef() int64
	AuthorRef() *int64
}

// ownership is the second stage of a rule, applied only after the membership
// gate passed.
type ownership int

const (
	anyMember ownership = iota
	authorOnly
	authorOrProjectAuthor
)

// rules maps (resource kind, action) to its ownership requirement. Issues
// carry the dual-owner exception: the project author retains override
// authority over issues but not over other members' comments.
var rules = map[Kind]map[Action]ownership{
	KindProject: {
		ActionRead:   anyMember,
		ActionCreate: anyMember,
		ActionUpdate: authorOnly,
		ActionDelete: authorOnly,
	},
	KindIssue: {
		ActionRead:   anyMember,
		ActionCreate: anyMember,
		ActionUpdate: authorOrProjectAuthor,
		ActionDelete: authorOrProjectAuthor,
	},
	KindComment: {
		ActionRead:   anyMember,
		ActionCreate: anyMember,
		ActionUpdate: authorOnly,
		ActionDelete: authorOnly,
	},
}

// MembershipStore reads current membership. It is consulted at time-of-use
// on every request, never cached: membership may change between an object's
// creation and a later operation on it.
type MembershipStore interface {
	IsMember(ctx context.Context, projectID, userID int64) (bool, error)
}

// AuthorStore resolves a project's author reference for the dual-owner rule.
type AuthorStore interface {
	ProjectAuthor(ctx context.Context, projectID int64) (*int64, error)
}

type Engine struct {
	members  MembershipStore
	projects AuthorStore
}

func NewEngine(members MembershipStore, projects AuthorStore) *Engine {
	return &Engine{members: members, projects: projects}
}

// Authorize evaluates the rule table for one request. It returns nil when the
// requester may perform action on res, ForbiddenError otherwise.
func (e *Engine) Authorize(ctx context.Context, requesterID int64, kind Kind, action Action, res Resource) error {
	projectID := res.ProjectRef()

	member, err := e.members.IsMember(ctx, projectID, requesterID)
	if err != nil {
		return apperr.Internal("policy: membership lookup", err)
	}
	if !member {
		return e.deny(kind, action, "you are not a contributor of this project")
	}

	rule, ok := rules[kind][action]
	if !ok {
		return e.deny(kind, action, "operation not permitted")
	}

	switch rule {
	case anyMember:
		return nil
	case authorOnly:
		if isAuthor(res.AuthorRef(), requesterID) {
			return nil
		}
		return e.deny(kind, action, "only the author may modify this resource")
	case authorOrProjectAuthor:
		if isAuthor(res.AuthorRef(), requesterID) {
			return nil
		}
		projectAuthor, err := e.projects.ProjectAuthor(ctx, projectID)
		if err != nil {
			return apperr.Internal("policy: project author lookup", err)
		}
		if isAuthor(projectAuthor, requesterID) {
			return nil
		}
		return e.deny(kind, action, "only the issue author or the project author may modify this issue")
	}
	return e.deny(kind, action, "operation not permitted")
}

func (e *Engine) deny(kind Kind, action Action, reason string) error {
	metrics.IncrementAuthorizationDenied(string(kind), string(action))
	return apperr.Forbidden("%s", reason)
}

// isAuthor treats an anonymized (nil) author as owned by nobody.
func isAuthor(author *int64, requesterID int64) bool {
	return author != nil && *author == requesterID
}
