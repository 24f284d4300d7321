package client

import (
	"context"
	"sync"

	"github.com/emilythestrangee/bugai/backend/internal/models"
)

// Store keeps a State in step with the server. Each action calls the API
// and applies the result only when the call succeeds.
type Store struct {
	client *Client

	mu    sync.RWMutex
	state State
}

func NewStore(c *Client) *Store {
	return &Store{client: c}
}

func (s *Store) Client() *Client {
	return s.client
}

// Snapshot returns the current state. Callers may keep it; later actions
// do not change it.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) apply(fn func(State) State) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = fn(s.state)
	return s.state
}

func (s *Store) LoadCases(ctx context.Context) error {
	cases, err := s.client.ListCases(ctx)
	if err != nil {
		return err
	}
	s.apply(func(st State) State { return st.WithCases(cases) })
	return nil
}

// OpenCase fetches a case, which the server counts as a view, and makes it current
func (s *Store) OpenCase(ctx context.Context, id string) (*models.Case, error) {
	c, err := s.client.GetCase(ctx, id)
	if err != nil {
		return nil, err
	}
	s.apply(func(st State) State { return st.WithCurrentCase(*c) })
	return c, nil
}

func (s *Store) LoadUserCases(ctx context.Context, userID string) error {
	cases, err := s.client.UserCases(ctx, userID)
	if err != nil {
		return err
	}
	s.apply(func(st State) State { return st.WithUserCases(cases) })
	return nil
}

func (s *Store) LoadStatistics(ctx context.Context) error {
	stats, err := s.client.Statistics(ctx)
	if err != nil {
		return err
	}
	s.apply(func(st State) State { return st.WithStatistics(*stats) })
	return nil
}

func (s *Store) SubmitCase(ctx context.Context, req models.CreateCaseRequest) (*models.Case, error) {
	c, err := s.client.CreateCase(ctx, req)
	if err != nil {
		return nil, err
	}
	s.apply(func(st State) State { return st.AddCase(*c) })
	return c, nil
}

func (s *Store) Whip(ctx context.Context, id string) (*models.Case, error) {
	return s.counter(ctx, id, s.client.Whip)
}

func (s *Store) VoteAngry(ctx context.Context, id string) (*models.Case, error) {
	return s.counter(ctx, id, s.client.VoteAngry)
}

func (s *Store) VoteLearn(ctx context.Context, id string) (*models.Case, error) {
	return s.counter(ctx, id, s.client.VoteLearn)
}

func (s *Store) Share(ctx context.Context, id string) (*models.Case, error) {
	return s.counter(ctx, id, s.client.Share)
}

func (s *Store) View(ctx context.Context, id string) (*models.Case, error) {
	return s.counter(ctx, id, s.client.View)
}

func (s *Store) counter(ctx context.Context, id string, call func(context.Context, string) (*models.Case, error)) (*models.Case, error) {
	c, err := call(ctx, id)
	if err != nil {
		return nil, err
	}
	s.apply(func(st State) State { return st.MergeCase(*c) })
	return c, nil
}

func (s *Store) LoadComments(ctx context.Context, caseID string) error {
	comments, err := s.client.Comments(ctx, caseID)
	if err != nil {
		return err
	}
	s.apply(func(st State) State { return st.WithComments(comments) })
	return nil
}

func (s *Store) AddComment(ctx context.Context, req models.CreateCommentRequest) (*models.Comment, error) {
	cm, err := s.client.CreateComment(ctx, req)
	if err != nil {
		return nil, err
	}
	s.apply(func(st State) State { return st.AddComment(*cm) })
	return cm, nil
}

// ToggleLike reports whether the case is liked after the call
func (s *Store) ToggleLike(ctx context.Context, req models.ToggleLikeRequest) (bool, error) {
	res, err := s.client.ToggleLike(ctx, req)
	if err != nil {
		return false, err
	}
	s.apply(func(st State) State { return st.ApplyLike(req.CaseID, *res) })
	return res.IsLiked, nil
}

func (s *Store) IsLiked(caseID string, identity models.Identity) bool {
	return s.Snapshot().IsLiked(caseID, identity)
}

func (s *Store) LikeCount(caseID string) int64 {
	return s.Snapshot().LikeCount(caseID)
}
