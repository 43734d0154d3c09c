package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-pos/internal/application/usecase"
	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
)

type fakeSalesRepo struct {
	mu       sync.Mutex
	windows  []entity.SalesWindow
	limit    int
	top      []entity.TopSellingProduct
	count    int64
	revenue  decimal.Decimal
	items    decimal.Decimal
	countErr error
}

func (r *fakeSalesRepo) record(w entity.SalesWindow) {
	r.mu.Lock()
	r.windows = append(r.windows, w)
	r.mu.Unlock()
}

func (r *fakeSalesRepo) TopSelling(_ context.Context, w entity.SalesWindow, limit int) ([]entity.TopSellingProduct, error) {
	r.record(w)
	r.limit = limit
	return r.top, nil
}

func (r *fakeSalesRepo) CountSales(_ context.Context, w entity.SalesWindow) (int64, error) {
	r.record(w)
	return r.count, r.countErr
}

func (r *fakeSalesRepo) Revenue(_ context.Context, w entity.SalesWindow) (decimal.Decimal, error) {
	r.record(w)
	return r.revenue, nil
}

func (r *fakeSalesRepo) ItemsSold(_ context.Context, w entity.SalesWindow) (decimal.Decimal, error) {
	r.record(w)
	return r.items, nil
}

func TestSalesWindow_Rangos(t *testing.T) {
	uc := usecase.NewSalesUseCase(&fakeSalesRepo{})

	w, err := uc.Window(entity.RangeDaily, "")
	require.NoError(t, err)
	assert.Equal(t, 0, w.From.Hour())
	assert.Equal(t, 0, w.From.Minute())
	assert.Equal(t, w.To.YearDay(), w.From.YearDay())
	assert.Nil(t, w.StoreID)

	w, err = uc.Window(entity.RangeWeekly, "s-1")
	require.NoError(t, err)
	assert.True(t, w.From.Equal(w.To.AddDate(0, 0, -7)))
	require.NotNil(t, w.StoreID)
	assert.Equal(t, "s-1", *w.StoreID)

	w, err = uc.Window(entity.RangeMonthly, "")
	require.NoError(t, err)
	assert.True(t, w.From.Equal(w.To.AddDate(0, 0, -30)))

	_, err = uc.Window("yearly", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTopSellingProducts_Top10(t *testing.T) {
	repo := &fakeSalesRepo{top: []entity.TopSellingProduct{
		{ProductID: "p-1", Name: "Leche", Quantity: decimal.NewFromInt(40), Revenue: decimal.NewFromInt(160000)},
	}}
	uc := usecase.NewSalesUseCase(repo)

	out, err := uc.TopSellingProducts(context.Background(), entity.RangeWeekly, "")
	require.NoError(t, err)
	assert.Equal(t, usecase.TopSellingLimit, repo.limit)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Leche", out.Items[0].Name)
	assert.Equal(t, entity.RangeWeekly, out.Range)
}

func TestTopSellingProducts_RangoInvalidoSinConsulta(t *testing.T) {
	repo := &fakeSalesRepo{}
	uc := usecase.NewSalesUseCase(repo)

	_, err := uc.TopSellingProducts(context.Background(), "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, repo.windows)
}

func TestSalesSummary_TicketPromedio(t *testing.T) {
	repo := &fakeSalesRepo{count: 3, revenue: decimal.NewFromInt(100), items: decimal.NewFromInt(9)}
	uc := usecase.NewSalesUseCase(repo)

	out, err := uc.Summary(context.Background(), entity.RangeDaily, "s-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), out.SalesCount)
	assert.True(t, decimal.RequireFromString("33.33").Equal(out.AvgTicket))
	assert.Len(t, repo.windows, 3)
}

func TestSalesSummary_SinVentas(t *testing.T) {
	uc := usecase.NewSalesUseCase(&fakeSalesRepo{revenue: decimal.Zero, items: decimal.Zero})

	out, err := uc.Summary(context.Background(), entity.RangeMonthly, "")
	require.NoError(t, err)
	assert.True(t, out.AvgTicket.IsZero())
}

func TestSalesSummary_ErrorDeConsulta(t *testing.T) {
	uc := usecase.NewSalesUseCase(&fakeSalesRepo{countErr: errors.New("conn reset")})

	_, err := uc.Summary(context.Background(), entity.RangeMonthly, "")
	assert.ErrorContains(t, err, "conn reset")
}
