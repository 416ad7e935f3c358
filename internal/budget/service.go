package budget

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Repository interface {
	CreateBudget(ctx context.Context, b *Budget) error
	GetBudget(ctx context.Context, id uuid.UUID) (*Budget, error)
	ListBudgets(ctx context.Context) ([]*Budget, error)
	UpdateBudget(ctx context.Context, b *Budget) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type Params struct {
	Category string
	Limit    decimal.Decimal
	Spent    decimal.Decimal
	Period   Period
}

func (p *Params) normalize() error {
	p.Category = strings.TrimSpace(p.Category)
	if p.Category == "" {
		return ErrEmptyCategory
	}

	if p.Limit.IsNegative() {
		return ErrNegativeLimit
	}

	if p.Spent.IsNegative() {
		return ErrNegativeSpent
	}

	if p.Period == "" {
		p.Period = PeriodMonthly
	}

	if !p.Period.Valid() {
		return ErrInvalidPeriod
	}

	return nil
}

func (s *Service) Create(ctx context.Context, params Params) (*Budget, error) {
	if err := params.normalize(); err != nil {
		return nil, err
	}

	b := &Budget{
		Category: params.Category,
		Limit:    params.Limit,
		Spent:    params.Spent,
		Period:   params.Period,
	}
	if err := s.repo.CreateBudget(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Budget, error) {
	return s.repo.GetBudget(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Budget, error) {
	return s.repo.ListBudgets(ctx)
}

// Update replaces the budget identified by id, spent total included.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params Params) (*Budget, error) {
	if err := params.normalize(); err != nil {
		return nil, err
	}

	b := &Budget{
		ID:       id,
		Category: params.Category,
		Limit:    params.Limit,
		Spent:    params.Spent,
		Period:   params.Period,
	}
	if err := s.repo.UpdateBudget(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}
