package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading_backend/internal/feature/positions/domain/entity"
	stockentity "trading_backend/internal/feature/stocks/domain/entity"
)

type fakePositionRepo struct {
	openCalls int
	sellCalls int
}

func (f *fakePositionRepo) OpenOrAdd(ctx context.Context, userID, stockID uint, quantity, price float64) (*entity.Position, error) {
	f.openCalls++
	return &entity.Position{UserID: userID, StockID: stockID, Quantity: quantity, PurchasePrice: price}, nil
}

func (f *fakePositionRepo) ListByUser(ctx context.Context, userID uint) ([]entity.Position, error) {
	return nil, nil
}

func (f *fakePositionRepo) FindByID(ctx context.Context, userID, id uint) (*entity.Position, error) {
	return nil, ErrPositionNotFound
}

func (f *fakePositionRepo) Update(ctx context.Context, userID, id uint, fields PositionUpdate) (*entity.Position, error) {
	return &entity.Position{ID: id, UserID: userID}, nil
}

func (f *fakePositionRepo) Sell(ctx context.Context, userID, id uint, quantity float64) (*entity.Position, bool, error) {
	f.sellCalls++
	return nil, true, nil
}

func (f *fakePositionRepo) Delete(ctx context.Context, userID, id uint) error { return nil }

func (f *fakePositionRepo) Summary(ctx context.Context, userID uint) (*PortfolioSummary, error) {
	return &PortfolioSummary{}, nil
}

type fakeStockFinder struct {
	known map[uint]bool
}

func (f *fakeStockFinder) FindByID(ctx context.Context, id uint) (*stockentity.Stock, error) {
	if !f.known[id] {
		return nil, ErrStockNotFound
	}
	return &stockentity.Stock{ID: id, Symbol: "AAPL"}, nil
}

func newTestUsecase() (*positionUsecase, *fakePositionRepo) {
	repo := &fakePositionRepo{}
	return NewPositionUsecase(repo, &fakeStockFinder{known: map[uint]bool{3: true}}), repo
}

func TestPositionUsecase_Open(t *testing.T) {
	tests := []struct {
		name     string
		stockID  uint
		quantity float64
		price    float64
		wantErr  error
	}{
		{name: "valid buy", stockID: 3, quantity: 10, price: 150},
		{name: "zero quantity", stockID: 3, quantity: 0, price: 150, wantErr: ErrInvalidQuantity},
		{name: "negative quantity", stockID: 3, quantity: -1, price: 150, wantErr: ErrInvalidQuantity},
		{name: "zero price", stockID: 3, quantity: 10, price: 0, wantErr: ErrInvalidPrice},
		{name: "unknown stock", stockID: 99, quantity: 10, price: 150, wantErr: ErrStockNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, repo := newTestUsecase()
			p, err := uc.Open(context.Background(), 1, tt.stockID, tt.quantity, tt.price)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, repo.openCalls, "invalid input must not reach the store")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.quantity, p.Quantity)
			assert.Equal(t, 1, repo.openCalls)
		})
	}
}

func TestPositionUsecase_Update(t *testing.T) {
	uc, _ := newTestUsecase()

	bad := -5.0
	_, err := uc.Update(context.Background(), 1, 7, PositionUpdate{Quantity: &bad})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	badPrice := 0.0
	_, err = uc.Update(context.Background(), 1, 7, PositionUpdate{PurchasePrice: &badPrice})
	assert.ErrorIs(t, err, ErrInvalidPrice)

	good := 5.0
	_, err = uc.Update(context.Background(), 1, 7, PositionUpdate{Quantity: &good})
	assert.NoError(t, err)
}

func TestPositionUsecase_Sell(t *testing.T) {
	uc, repo := newTestUsecase()

	_, _, err := uc.Sell(context.Background(), 1, 7, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Zero(t, repo.sellCalls)

	_, closed, err := uc.Sell(context.Background(), 1, 7, 5)
	require.NoError(t, err)
	assert.True(t, closed)
	assert.Equal(t, 1, repo.sellCalls)
}
