package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/fintrack/internal/currency"
	"github.com/MrJamesThe3rd/fintrack/internal/transaction"
)

func validParams() transaction.CreateParams {
	return transaction.CreateParams{
		Type:        transaction.TypeExpense,
		Amount:      decimal.NewFromInt(45),
		Category:    "Groceries",
		Description: "Weekly grocery shopping",
		Date:        time.Date(2025, 1, 8, 15, 30, 0, 0, time.UTC),
		Currency:    "USD",
	}
}

func TestService_Create(t *testing.T) {
	type args struct {
		params transaction.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *transaction.MockRepository)
		wantErr   error
	}

	negative := validParams()
	negative.Amount = decimal.NewFromInt(-1)

	badType := validParams()
	badType.Type = "transfer"

	noCategory := validParams()
	noCategory.Category = "  "

	badCurrency := validParams()
	badCurrency.Currency = "XYZ"

	tests := []testCase{
		{
			name: "Success",
			args: args{params: validParams()},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						tx.ID = uuid.New()
						tx.CreatedAt = time.Now()
						return nil
					})
			},
		},
		{
			name: "RepoError",
			args: args{params: validParams()},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
		{name: "NegativeAmount", args: args{params: negative}, wantErr: transaction.ErrNegativeAmount},
		{name: "InvalidType", args: args{params: badType}, wantErr: transaction.ErrInvalidType},
		{name: "EmptyCategory", args: args{params: noCategory}, wantErr: transaction.ErrEmptyCategory},
		{name: "UnknownCurrency", args: args{params: badCurrency}, wantErr: currency.ErrUnknownCurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := transaction.NewService(repo)
			got, err := svc.Create(context.Background(), tt.args.params)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Nil(t, got)

				if !errors.Is(err, tt.wantErr) {
					assert.EqualError(t, err, tt.wantErr.Error())
				}

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.NotEqual(t, uuid.Nil, got.ID)
			assert.Equal(t, time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC), got.Date)
		})
	}
}

func TestService_List(t *testing.T) {
	expense := transaction.TypeExpense

	type testCase struct {
		name      string
		filter    transaction.ListFilter
		setupMock func(m *transaction.MockRepository)
		wantLen   int
		wantErr   bool
	}

	tests := []testCase{
		{
			name:   "Success",
			filter: transaction.ListFilter{Type: &expense},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{Type: &expense}).
					Return([]*transaction.Transaction{
						{ID: uuid.New()},
						{ID: uuid.New()},
					}, nil)
			},
			wantLen: 2,
		},
		{
			name:   "Error",
			filter: transaction.ListFilter{},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{}).
					Return(nil, errors.New("list error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := transaction.NewService(repo)
			got, err := svc.List(context.Background(), tt.filter)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_Replace(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	id := uuid.New()
	created := time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC)

	repo.EXPECT().GetTransaction(gomock.Any(), id).Return(&transaction.Transaction{ID: id, CreatedAt: created}, nil)
	repo.EXPECT().
		ReplaceTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
			assert.Equal(t, id, tx.ID)
			assert.Equal(t, created, tx.CreatedAt)
			assert.Equal(t, "Groceries", tx.Category)

			return nil
		})

	got, err := svc.Replace(context.Background(), id, validParams())
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
}

func TestService_Replace_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	id := uuid.New()
	repo.EXPECT().GetTransaction(gomock.Any(), id).Return(nil, transaction.ErrNotFound)

	_, err := svc.Replace(context.Background(), id, validParams())
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}

func TestService_ImportBatch_NoConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)
	svc := transaction.NewService(repo)

	params := []transaction.CreateParams{validParams()}
	date := params[0].Date

	repo.EXPECT().BeginImport(gomock.Any(), date, date).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), params).Return(nil, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), params)
	require.NoError(t, err)
	assert.Len(t, result.Imported, 1)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.New)
}

func TestService_ImportBatch_WithConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)
	svc := transaction.NewService(repo)

	coffee := validParams()
	coffee.Description = "Coffee"
	coffee.Amount = decimal.RequireFromString("3.50")

	lunch := validParams()
	lunch.Description = "Lunch"
	lunch.Amount = decimal.RequireFromString("12")

	params := []transaction.CreateParams{coffee, lunch}

	existing := &transaction.Transaction{
		ID:          uuid.New(),
		Type:        transaction.TypeExpense,
		Amount:      decimal.RequireFromString("3.5"),
		Description: "Coffee",
		Date:        transaction.DateOnly(coffee.Date),
	}

	repo.EXPECT().BeginImport(gomock.Any(), coffee.Date, coffee.Date).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), params).Return([]*transaction.Transaction{existing}, nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), params)
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Len(t, result.New, 1)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, params[0], result.Conflicts[0].Incoming)
	assert.Equal(t, existing, result.Conflicts[0].Existing)
}

func TestService_ImportBatch_InvalidRow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := transaction.NewService(transaction.NewMockRepository(ctrl))

	bad := validParams()
	bad.Currency = "ZZZ"

	_, err := svc.ImportBatch(context.Background(), []transaction.CreateParams{validParams(), bad})
	require.Error(t, err)
	assert.ErrorIs(t, err, currency.ErrUnknownCurrency)
	assert.Contains(t, err.Error(), "row 2")
}

func TestService_ImportBatch_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := transaction.NewService(transaction.NewMockRepository(ctrl))

	result, err := svc.ImportBatch(context.Background(), []transaction.CreateParams{})
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.New)
}

func TestService_CreateBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)
	svc := transaction.NewService(repo)

	params := []transaction.CreateParams{validParams()}
	date := params[0].Date

	repo.EXPECT().BeginImport(gomock.Any(), date, date).Return(itx, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	txs, err := svc.CreateBatch(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.True(t, decimal.NewFromInt(45).Equal(txs[0].Amount))
	assert.Equal(t, transaction.TypeExpense, txs[0].Type)
}

func TestListFilter_Matches(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	category := "Rent"

	filter := transaction.ListFilter{Category: &category, StartDate: &start, EndDate: &end}

	assert.True(t, filter.Matches(&transaction.Transaction{Category: "Rent", Date: start}))
	assert.True(t, filter.Matches(&transaction.Transaction{Category: "Rent", Date: end}))
	assert.False(t, filter.Matches(&transaction.Transaction{Category: "Rent", Date: end.AddDate(0, 0, 1)}))
	assert.False(t, filter.Matches(&transaction.Transaction{Category: "Food", Date: start}))
}
