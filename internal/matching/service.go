package matching

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyPattern  = errors.New("pattern is required")
	ErrEmptyCategory = errors.New("category is required")
)

// Rule assigns Category to any description containing Pattern,
// case-insensitively.
type Rule struct {
	ID        uuid.UUID
	Pattern   string
	Category  string
	CreatedAt time.Time
}

// Matches reports whether description contains the rule's pattern.
func (r Rule) Matches(description string) bool {
	return strings.Contains(strings.ToLower(description), strings.ToLower(r.Pattern))
}

// Repository stores rules. FindMatch returns the rule with the longest
// matching pattern, newest first on ties, and an empty category when none
// matches.
//
//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	FindMatch(ctx context.Context, description string) (string, error)
	SaveRule(ctx context.Context, rule *Rule) error
	ListRules(ctx context.Context) ([]*Rule, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the learned category for description, or "" if no rule matches.
func (s *Service) Suggest(ctx context.Context, description string) (string, error) {
	if strings.TrimSpace(description) == "" {
		return "", nil
	}

	return s.repo.FindMatch(ctx, description)
}

// Learn remembers that descriptions containing pattern belong to category.
// Learning an existing pattern again replaces its category.
func (s *Service) Learn(ctx context.Context, pattern, category string) (*Rule, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil, ErrEmptyPattern
	}

	category = strings.TrimSpace(category)
	if category == "" {
		return nil, ErrEmptyCategory
	}

	rule := &Rule{Pattern: pattern, Category: category}
	if err := s.repo.SaveRule(ctx, rule); err != nil {
		return nil, err
	}

	return rule, nil
}

func (s *Service) Rules(ctx context.Context) ([]*Rule, error) {
	return s.repo.ListRules(ctx)
}
