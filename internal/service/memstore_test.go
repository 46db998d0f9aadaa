package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"softdesk/internal/apperr"
	"softdesk/internal/model"
)

// memStore is an in-memory stand-in for the pgx repositories. It mirrors
// their semantics: duplicate memberships fail like the unique constraint,
// project creation inserts the author membership, and issue/comment writes
// re-check membership the way the repository transactions do.
type memStore struct {
	mu           sync.Mutex
	nextID       int64
	users        map[int64]*model.User
	projects     map[int64]*model.Project
	contributors map[int64]*model.Contributor
	issues       map[int64]*model.Issue
	comments     map[uuid.UUID]*model.Comment
}

func newMemStore() *memStore {
	return &memStore{
		users:        map[int64]*model.User{},
		projects:     map[int64]*model.Project{},
		contributors: map[int64]*model.Contributor{},
		issues:       map[int64]*model.Issue{},
		comments:     map[uuid.UUID]*model.Comment{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

// --- UserStore ---

func (m *memStore) Create(ctx context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return &apperr.DuplicateError{Constraint: "username"}
		}
	}
	u.ID = m.id()
	u.CreatedAt = time.Now()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memStore) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("user")
}

func (m *memStore) FindByID(ctx context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("user")
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) UpdateConsents(ctx context.Context, id int64, canBeContacted, canDataBeShared bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return apperr.NotFound("user")
	}
	u.CanBeContacted = canBeContacted
	u.CanDataBeShared = canDataBeShared
	return nil
}

// --- ProjectStore ---

type projectStoreAdapter struct{ *memStore }

func (m *memStore) CreateProject(ctx context.Context, p *model.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.id()
	p.CreatedAt = time.Now()
	cp := *p
	m.projects[p.ID] = &cp
	// author joins in the same "transaction", insert-if-absent
	if p.AuthorID != nil && !m.isMemberLocked(p.ID, *p.AuthorID) {
		m.contributors[m.id()] = &model.Contributor{
			ID: m.nextID, UserID: *p.AuthorID, ProjectID: p.ID, CreatedAt: time.Now(),
		}
	}
	return nil
}

func (a projectStoreAdapter) Create(ctx context.Context, p *model.Project) error {
	return a.CreateProject(ctx, p)
}

func (a projectStoreAdapter) FindByID(ctx context.Context, id int64) (*model.Project, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	p, ok := a.projects[id]
	if !ok {
		return nil, apperr.NotFound("project")
	}
	cp := *p
	return &cp, nil
}

func (a projectStoreAdapter) ListForUser(ctx context.Context, userID int64) ([]model.Project, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	projects := []model.Project{}
	for _, c := range a.contributors {
		if c.UserID == userID {
			if p, ok := a.projects[c.ProjectID]; ok {
				projects = append(projects, *p)
			}
		}
	}
	return projects, nil
}

func (a projectStoreAdapter) Update(ctx context.Context, p *model.Project) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	stored, ok := a.projects[p.ID]
	if !ok {
		return apperr.NotFound("project")
	}
	stored.Name, stored.Description, stored.Type = p.Name, p.Description, p.Type
	return nil
}

func (a projectStoreAdapter) Delete(ctx context.Context, id int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.projects[id]; !ok {
		return apperr.NotFound("project")
	}
	delete(a.projects, id)
	for cid, c := range a.contributors {
		if c.ProjectID == id {
			delete(a.contributors, cid)
		}
	}
	for iid, i := range a.issues {
		if i.ProjectID == id {
			delete(a.issues, iid)
			for cid, c := range a.comments {
				if c.IssueID == iid {
					delete(a.comments, cid)
				}
			}
		}
	}
	return nil
}

// --- ContributorStore / policy stores ---

func (m *memStore) isMemberLocked(projectID, userID int64) bool {
	for _, c := range m.contributors {
		if c.ProjectID == projectID && c.UserID == userID {
			return true
		}
	}
	return false
}

func (m *memStore) Add(ctx context.Context, projectID, userID int64) (*model.Contributor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.isMemberLocked(projectID, userID) {
		return nil, &apperr.DuplicateError{Constraint: "contributor"}
	}
	if _, ok := m.users[userID]; !ok {
		return nil, apperr.NotFound("user")
	}
	c := &model.Contributor{ID: m.id(), UserID: userID, ProjectID: projectID, CreatedAt: time.Now()}
	m.contributors[c.ID] = c
	cp := *c
	return &cp, nil
}

func (m *memStore) Remove(ctx context.Context, projectID, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, c := range m.contributors {
		if c.ProjectID == projectID && c.UserID == userID {
			delete(m.contributors, id)
			return nil
		}
	}
	return apperr.NotFound("contributor")
}

func (m *memStore) List(ctx context.Context, projectID int64) ([]model.Contributor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	contributors := []model.Contributor{}
	for _, c := range m.contributors {
		if c.ProjectID == projectID {
			contributors = append(contributors, *c)
		}
	}
	return contributors, nil
}

func (m *memStore) IsMember(ctx context.Context, projectID, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isMemberLocked(projectID, userID), nil
}

func (m *memStore) ProjectAuthor(ctx context.Context, projectID int64) (*int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[projectID]
	if !ok {
		return nil, apperr.NotFound("project")
	}
	return p.AuthorID, nil
}

// --- IssueStore ---

type issueStoreAdapter struct{ *memStore }

func (a issueStoreAdapter) Create(ctx context.Context, i *model.Issue) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if i.AssigneeID != nil && !a.isMemberLocked(i.ProjectID, *i.AssigneeID) {
		return apperr.Validation("assignee must be a contributor of the project")
	}
	i.ID = a.id()
	i.CreatedAt = time.Now()
	i.UpdatedAt = i.CreatedAt
	cp := *i
	a.issues[i.ID] = &cp
	return nil
}

func (a issueStoreAdapter) FindByID(ctx context.Context, projectID, issueID int64) (*model.Issue, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i, ok := a.issues[issueID]
	if !ok || i.ProjectID != projectID {
		return nil, apperr.NotFound("issue")
	}
	cp := *i
	return &cp, nil
}

func (a issueStoreAdapter) List(ctx context.Context, projectID int64) ([]model.Issue, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	issues := []model.Issue{}
	for _, i := range a.issues {
		if i.ProjectID == projectID {
			issues = append(issues, *i)
		}
	}
	return issues, nil
}

func (a issueStoreAdapter) Update(ctx context.Context, i *model.Issue) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if i.AssigneeID != nil && !a.isMemberLocked(i.ProjectID, *i.AssigneeID) {
		return apperr.Validation("assignee must be a contributor of the project")
	}
	stored, ok := a.issues[i.ID]
	if !ok || stored.ProjectID != i.ProjectID {
		return apperr.NotFound("issue")
	}
	cp := *i
	cp.UpdatedAt = time.Now()
	a.issues[i.ID] = &cp
	return nil
}

func (a issueStoreAdapter) Delete(ctx context.Context, projectID, issueID int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	i, ok := a.issues[issueID]
	if !ok || i.ProjectID != projectID {
		return apperr.NotFound("issue")
	}
	delete(a.issues, issueID)
	for cid, c := range a.comments {
		if c.IssueID == issueID {
			delete(a.comments, cid)
		}
	}
	return nil
}

// --- CommentStore ---

type commentStoreAdapter struct{ *memStore }

func (a commentStoreAdapter) Create(ctx context.Context, c *model.Comment) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if c.AuthorID != nil && !a.isMemberLocked(c.ProjectID, *c.AuthorID) {
		return apperr.Validation("comment author must be a contributor of the project")
	}
	c.CreatedAt = time.Now()
	cp := *c
	a.comments[c.ID] = &cp
	return nil
}

func (a commentStoreAdapter) FindByID(ctx context.Context, issueID int64, id uuid.UUID) (*model.Comment, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.comments[id]
	if !ok || c.IssueID != issueID {
		return nil, apperr.NotFound("comment")
	}
	cp := *c
	return &cp, nil
}

func (a commentStoreAdapter) List(ctx context.Context, issueID int64) ([]model.Comment, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	comments := []model.Comment{}
	for _, c := range a.comments {
		if c.IssueID == issueID {
			comments = append(comments, *c)
		}
	}
	return comments, nil
}

func (a commentStoreAdapter) Update(ctx context.Context, c *model.Comment) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	stored, ok := a.comments[c.ID]
	if !ok || stored.IssueID != c.IssueID {
		return apperr.NotFound("comment")
	}
	stored.Description = c.Description
	return nil
}

func (a commentStoreAdapter) Delete(ctx context.Context, issueID int64, id uuid.UUID) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.comments[id]
	if !ok || c.IssueID != issueID {
		return apperr.NotFound("comment")
	}
	delete(a.comments, id)
	return nil
}
