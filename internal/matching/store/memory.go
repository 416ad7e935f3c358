package store

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fintrack/internal/matching"
)

// Memory keeps rules in process for the in-memory backend.
type Memory struct {
	mu    sync.RWMutex
	rules []matching.Rule
	now   func() time.Time
}

func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

func (m *Memory) FindMatch(_ context.Context, description string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var best *matching.Rule

	for i := range m.rules {
		r := &m.rules[i]
		if !r.Matches(description) {
			continue
		}

		if best == nil || len(r.Pattern) > len(best.Pattern) ||
			(len(r.Pattern) == len(best.Pattern) && !r.CreatedAt.Before(best.CreatedAt)) {
			best = r
		}
	}

	if best == nil {
		return "", nil
	}

	return best.Category, nil
}

func (m *Memory) SaveRule(_ context.Context, rule *matching.Rule) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rule.CreatedAt = m.now()

	for i := range m.rules {
		if strings.EqualFold(m.rules[i].Pattern, rule.Pattern) {
			rule.ID = m.rules[i].ID
			m.rules[i] = *rule

			return nil
		}
	}

	rule.ID = uuid.New()
	m.rules = append(m.rules, *rule)

	return nil
}

func (m *Memory) ListRules(_ context.Context) ([]*matching.Rule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rules := make([]*matching.Rule, len(m.rules))
	for i := range m.rules {
		r := m.rules[i]
		rules[i] = &r
	}

	slices.SortFunc(rules, func(a, b *matching.Rule) int {
		return strings.Compare(a.Pattern, b.Pattern)
	})

	return rules, nil
}
