package policy

import (
	"context"
	"testing"

	"softdesk/internal/apperr"
	"softdesk/internal/model"
)

// fakeStore wires membership and project authorship from plain maps.
type fakeStore struct {
	members        map[[2]int64]bool // (projectID, userID)
	projectAuthors map[int64]*int64
}

func (f *fakeStore) IsMember(_ context.Context, projectID, userID int64) (bool, error) {
	return f.members[[2]int64{projectID, userID}], nil
}

func (f *fakeStore) ProjectAuthor(_ context.Context, projectID int64) (*int64, error) {
	author, ok := f.projectAuthors[projectID]
	if !ok {
		return nil, apperr.NotFound("project")
	}
	return author, nil
}

func ptr(v int64) *int64 { return &v }

const (
	alice int64 = 1 // project author
	bob   int64 = 2 // member, issue/comment author
	carol int64 = 3 // member, no authorship
	dave  int64 = 4 // not a member
)

func newFixture() (*Engine, *model.Project, *model.Issue, *model.Comment) {
	store := &fakeStore{
		members: map[[2]int64]bool{
			{10, alice}: true,
			{10, bob}:   true,
			{10, carol}: true,
		},
		projectAuthors: map[int64]*int64{10: ptr(alice)},
	}
	project := &model.Project{ID: 10, AuthorID: ptr(alice)}
	issue := &model.Issue{ID: 100, ProjectID: 10, AuthorID: ptr(bob)}
	comment := &model.Comment{IssueID: 100, ProjectID: 10, AuthorID: ptr(bob)}
	return NewEngine(store, store), project, issue, comment
}

func TestNonMemberIsAlwaysForbidden(t *testing.T) {
	engine, project, issue, comment := newFixture()
	ctx := context.Background()

	resources := map[Kind]Resource{
		KindProject: project,
		KindIssue:   issue,
		KindComment: comment,
	}
	actions := []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete}

	for kind, res := range resources {
		for _, action := range actions {
			err := engine.Authorize(ctx, dave, kind, action, res)
			if !apperr.IsForbidden(err) {
				t.Errorf("Authorize(dave, %s, %s) = %v, want forbidden", kind, action, err)
			}
		}
	}
}

// A non-member must not get further than the membership gate, even when the
// object's author field happens to match them.
func TestMembershipEvaluatedBeforeOwnership(t *testing.T) {
	engine, _, _, _ := newFixture()
	ctx := context.Background()

	// dave authored this comment but is no longer a member.
	orphaned := &model.Comment{IssueID: 100, ProjectID: 10, AuthorID: ptr(dave)}
	err := engine.Authorize(ctx, dave, KindComment, ActionUpdate, orphaned)
	if !apperr.IsForbidden(err) {
		t.Fatalf("Authorize = %v, want forbidden", err)
	}
}

func TestProjectMutationIsAuthorOnly(t *testing.T) {
	engine, project, _, _ := newFixture()
	ctx := context.Background()

	if err := engine.Authorize(ctx, alice, KindProject, ActionUpdate, project); err != nil {
		t.Errorf("author update: %v, want nil", err)
	}
	if err := engine.Authorize(ctx, alice, KindProject, ActionDelete, project); err != nil {
		t.Errorf("author delete: %v, want nil", err)
	}
	for _, member := range []int64{bob, carol} {
		err := engine.Authorize(ctx, member, KindProject, ActionUpdate, project)
		if !apperr.IsForbidden(err) {
			t.Errorf("member %d update: %v, want forbidden", member, err)
		}
	}
	// reads stay open to every member
	for _, member := range []int64{alice, bob, carol} {
		if err := engine.Authorize(ctx, member, KindProject, ActionRead, project); err != nil {
			t.Errorf("member %d read: %v, want nil", member, err)
		}
	}
}

func TestIssueMutationAllowsIssueAuthorOrProjectAuthor(t *testing.T) {
	engine, _, issue, _ := newFixture()
	ctx := context.Background()

	if err := engine.Authorize(ctx, bob, KindIssue, ActionUpdate, issue); err != nil {
		t.Errorf("issue author update: %v, want nil", err)
	}
	if err := engine.Authorize(ctx, alice, KindIssue, ActionUpdate, issue); err != nil {
		t.Errorf("project author update: %v, want nil", err)
	}
	err := engine.Authorize(ctx, carol, KindIssue, ActionDelete, issue)
	if !apperr.IsForbidden(err) {
		t.Errorf("third member delete: %v, want forbidden", err)
	}
}

func TestCommentMutationIsCommentAuthorOnly(t *testing.T) {
	engine, _, _, comment := newFixture()
	ctx := context.Background()

	if err := engine.Authorize(ctx, bob, KindComment, ActionDelete, comment); err != nil {
		t.Errorf("comment author delete: %v, want nil", err)
	}
	// The project author has no override on comments.
	err := engine.Authorize(ctx, alice, KindComment, ActionDelete, comment)
	if !apperr.IsForbidden(err) {
		t.Errorf("project author delete: %v, want forbidden", err)
	}
}

func TestAnonymizedAuthorOwnsNothing(t *testing.T) {
	engine, _, _, _ := newFixture()
	ctx := context.Background()

	anonymized := &model.Comment{IssueID: 100, ProjectID: 10, AuthorID: nil}
	for _, member := range []int64{alice, bob, carol} {
		err := engine.Authorize(ctx, member, KindComment, ActionUpdate, anonymized)
		if !apperr.IsForbidden(err) {
			t.Errorf("member %d update of anonymized comment: %v, want forbidden", member, err)
		}
		if err := engine.Authorize(ctx, member, KindComment, ActionRead, anonymized); err != nil {
			t.Errorf("member %d read of anonymized comment: %v, want nil", member, err)
		}
	}
}
