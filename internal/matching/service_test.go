package matching_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/fintrack/internal/matching"
)

func TestService_Learn(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		category string
		wantErr  error
		wantSave bool
	}{
		{name: "Valid", pattern: " WHOLE FOODS ", category: "Groceries", wantSave: true},
		{name: "EmptyPattern", pattern: "  ", category: "Groceries", wantErr: matching.ErrEmptyPattern},
		{name: "EmptyCategory", pattern: "uber", category: "", wantErr: matching.ErrEmptyCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := matching.NewMockRepository(ctrl)

			if tt.wantSave {
				repo.EXPECT().
					SaveRule(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, r *matching.Rule) error {
						assert.Equal(t, "WHOLE FOODS", r.Pattern)
						return nil
					})
			}

			rule, err := matching.NewService(repo).Learn(context.Background(), tt.pattern, tt.category)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.category, rule.Category)
		})
	}
}

func TestService_Suggest(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := matching.NewMockRepository(ctrl)

	repo.EXPECT().FindMatch(gomock.Any(), "UBER *TRIP").Return("Transportation", nil)

	svc := matching.NewService(repo)

	got, err := svc.Suggest(context.Background(), "UBER *TRIP")
	require.NoError(t, err)
	assert.Equal(t, "Transportation", got)

	got, err = svc.Suggest(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, got, "blank descriptions never reach the repository")
}

func TestRule_Matches(t *testing.T) {
	r := matching.Rule{Pattern: "netflix", Category: "Entertainment"}

	assert.True(t, r.Matches("NETFLIX.COM monthly"))
	assert.False(t, r.Matches("Spotify"))
}
