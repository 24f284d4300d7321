package client

import (
	"slices"

	"github.com/emilythestrangee/bugai/backend/internal/models"
)

// State is a snapshot of the server data a client has seen. Every method
// returns a new State; the receiver and its slices are never modified.
type State struct {
	Cases       []models.Case
	CurrentCase *models.Case
	UserCases   []models.Case
	Comments    []models.Comment
	Likes       []models.Like
	Statistics  *models.Statistics
}

func (s State) WithCases(cases []models.Case) State {
	s.Cases = slices.Clone(cases)
	return s
}

func (s State) WithUserCases(cases []models.Case) State {
	s.UserCases = slices.Clone(cases)
	return s
}

func (s State) WithComments(comments []models.Comment) State {
	s.Comments = slices.Clone(comments)
	return s
}

func (s State) WithStatistics(st models.Statistics) State {
	s.Statistics = &st
	return s
}

func (s State) WithCurrentCase(c models.Case) State {
	s.CurrentCase = &c
	return s.MergeCase(c)
}

// AddCase puts a newly created case in front of the list
func (s State) AddCase(c models.Case) State {
	s.Cases = prepend(s.Cases, c)
	return s
}

// MergeCase replaces every held copy of the case with the same id
func (s State) MergeCase(c models.Case) State {
	s.Cases = replaceCase(s.Cases, c)
	s.UserCases = replaceCase(s.UserCases, c)
	if s.CurrentCase != nil && s.CurrentCase.ID == c.ID {
		cp := c
		s.CurrentCase = &cp
	}
	return s
}

// AddComment prepends the comment and bumps the owning case's comment count
func (s State) AddComment(cm models.Comment) State {
	s.Comments = prepend(s.Comments, cm)
	return s.updateCase(cm.CaseID, func(c *models.Case) { c.CommentCount++ })
}

// ApplyLike records a toggle result: the like is added or removed and the
// case's like count set to the server's value
func (s State) ApplyLike(caseID string, res models.LikeResult) State {
	if res.Like != nil {
		if res.IsLiked {
			s.Likes = append(slices.Clip(s.Likes), *res.Like)
		} else {
			id := res.Like.ID
			s.Likes = slices.DeleteFunc(slices.Clone(s.Likes), func(l models.Like) bool { return l.ID == id })
		}
	}
	return s.updateCase(caseID, func(c *models.Case) { c.LikeCount = res.LikeCount })
}

func (s State) IsLiked(caseID string, identity models.Identity) bool {
	key := identity.Key()
	return slices.ContainsFunc(s.Likes, func(l models.Like) bool {
		return l.CaseID == caseID && l.Identity == key
	})
}

// LikeCount prefers the case's counter and falls back to the locally held likes
func (s State) LikeCount(caseID string) int64 {
	if c := s.findCase(caseID); c != nil {
		return c.LikeCount
	}
	var n int64
	for _, l := range s.Likes {
		if l.CaseID == caseID {
			n++
		}
	}
	return n
}

func (s State) findCase(id string) *models.Case {
	if s.CurrentCase != nil && s.CurrentCase.ID == id {
		return s.CurrentCase
	}
	for i := range s.Cases {
		if s.Cases[i].ID == id {
			return &s.Cases[i]
		}
	}
	for i := range s.UserCases {
		if s.UserCases[i].ID == id {
			return &s.UserCases[i]
		}
	}
	return nil
}

func (s State) updateCase(id string, fn func(*models.Case)) State {
	s.Cases = mapCase(s.Cases, id, fn)
	s.UserCases = mapCase(s.UserCases, id, fn)
	if s.CurrentCase != nil && s.CurrentCase.ID == id {
		cp := *s.CurrentCase
		fn(&cp)
		s.CurrentCase = &cp
	}
	return s
}

func replaceCase(cases []models.Case, c models.Case) []models.Case {
	return mapCase(cases, c.ID, func(dst *models.Case) { *dst = c })
}

// mapCase copies the slice only when a matching case exists
func mapCase(cases []models.Case, id string, fn func(*models.Case)) []models.Case {
	i := slices.IndexFunc(cases, func(c models.Case) bool { return c.ID == id })
	if i < 0 {
		return cases
	}
	out := slices.Clone(cases)
	for ; i < len(out); i++ {
		if out[i].ID == id {
			fn(&out[i])
		}
	}
	return out
}

func prepend[T any](s []T, v T) []T {
	out := make([]T, 0, len(s)+1)
	out = append(out, v)
	return append(out, s...)
}
