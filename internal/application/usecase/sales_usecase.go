package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

// TopSellingLimit cantidad de productos del ranking.
const TopSellingLimit = 10

// SalesUseCase reportes de ventas por período.
type SalesUseCase struct {
	repo repository.SalesRepository
	now  func() time.Time
}

// NewSalesUseCase construye el caso de uso.
func NewSalesUseCase(repo repository.SalesRepository) *SalesUseCase {
	return &SalesUseCase{repo: repo, now: time.Now}
}

// Window calcula el período: daily desde la medianoche local, weekly últimos 7 días,
// monthly últimos 30 días. storeID vacío = todos los almacenes.
func (uc *SalesUseCase) Window(timeRange, storeID string) (entity.SalesWindow, error) {
	now := uc.now()
	var from time.Time
	switch timeRange {
	case entity.RangeDaily:
		y, m, d := now.Date()
		from = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case entity.RangeWeekly:
		from = now.AddDate(0, 0, -7)
	case entity.RangeMonthly:
		from = now.AddDate(0, 0, -30)
	default:
		return entity.SalesWindow{}, domain.Invalid(fmt.Sprintf("Rango de tiempo inválido: %q", timeRange))
	}
	w := entity.SalesWindow{From: from, To: now}
	if storeID != "" {
		w.StoreID = &storeID
	}
	return w, nil
}

// TopSellingProducts los productos más vendidos del período por cantidad.
func (uc *SalesUseCase) TopSellingProducts(ctx context.Context, timeRange, storeID string) (*dto.TopSellingResponse, error) {
	w, err := uc.Window(timeRange, storeID)
	if err != nil {
		return nil, err
	}
	rows, err := uc.repo.TopSelling(ctx, w, TopSellingLimit)
	if err != nil {
		return nil, fmt.Errorf("top selling: %w", err)
	}
	items := make([]dto.TopSellingProductResponse, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.TopSellingProductResponse{
			ProductID: r.ProductID,
			Name:      r.Name,
			Quantity:  r.Quantity,
			Revenue:   r.Revenue,
		})
	}
	return &dto.TopSellingResponse{Range: timeRange, StoreID: w.StoreID, From: w.From, To: w.To, Items: items}, nil
}

// Summary totales del período: cantidad de ventas, ingresos, ítems y ticket promedio.
func (uc *SalesUseCase) Summary(ctx context.Context, timeRange, storeID string) (*dto.SalesSummaryResponse, error) {
	w, err := uc.Window(timeRange, storeID)
	if err != nil {
		return nil, err
	}

	var (
		count   int64
		revenue decimal.Decimal
		items   decimal.Decimal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		count, err = uc.repo.CountSales(gctx, w)
		return err
	})
	g.Go(func() error {
		var err error
		revenue, err = uc.repo.Revenue(gctx, w)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = uc.repo.ItemsSold(gctx, w)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}

	avg := decimal.Zero
	if count > 0 {
		avg = revenue.DivRound(decimal.NewFromInt(count), 2)
	}
	return &dto.SalesSummaryResponse{
		Range:      timeRange,
		StoreID:    w.StoreID,
		From:       w.From,
		To:         w.To,
		SalesCount: count,
		Revenue:    revenue,
		ItemsSold:  items,
		AvgTicket:  avg,
	}, nil
}
