package preferences

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fintrack/internal/currency"
)

var ErrNegativeSavingsGoal = errors.New("savings goal must not be negative")

// Preferences is the single user's settings.
type Preferences struct {
	PreferredCurrency string
	BudgetAlerts      bool
	SavingsGoal       decimal.Decimal
}

// Default returns the preferences a fresh state starts with.
func Default() Preferences {
	return Preferences{
		PreferredCurrency: currency.Base,
		BudgetAlerts:      true,
		SavingsGoal:       decimal.NewFromInt(1000),
	}
}

func (p Preferences) Validate() error {
	if err := currency.Validate(p.PreferredCurrency); err != nil {
		return err
	}

	if p.SavingsGoal.IsNegative() {
		return ErrNegativeSavingsGoal
	}

	return nil
}

type Repository interface {
	GetPreferences(ctx context.Context) (Preferences, error)
	SavePreferences(ctx context.Context, p Preferences) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context) (Preferences, error) {
	return s.repo.GetPreferences(ctx)
}

func (s *Service) Update(ctx context.Context, p Preferences) (Preferences, error) {
	if err := p.Validate(); err != nil {
		return Preferences{}, err
	}

	if err := s.repo.SavePreferences(ctx, p); err != nil {
		return Preferences{}, err
	}

	return p, nil
}
