package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/caderneta-bot/internal/domain/constants"
	"github.com/yourusername/caderneta-bot/internal/domain/entity"
	"github.com/yourusername/caderneta-bot/internal/domain/repository"
)

// Validation errors, rejected before any write.
var (
	ErrInvalidPrice   = errors.New("sale price must be positive")
	ErrMissingProduct = errors.New("sale needs a product name")
)

// SaleInput describes a resolved sale about to be registered. Product is nil
// for uncatalogued sales; ProductName then carries whatever reference we have.
type SaleInput struct {
	Product     *entity.Product
	ProductName string
	Price       float64
	BuyerName   *string
}

// SaleRegistrationService computes cost/profit/margin and writes the sale to
// its two sinks: the authoritative revenue entry and the best-effort detail row.
type SaleRegistrationService struct {
	repo repository.LedgerRepository
	now  func() time.Time
}

func NewSaleRegistrationService(repo repository.LedgerRepository) *SaleRegistrationService {
	return &SaleRegistrationService{repo: repo, now: time.Now}
}

// RegisterSale validates, computes margins and persists the sale. The ledger
// entry is the financially authoritative row; a failed detail write is logged
// and swallowed, never rolled back.
func (s *SaleRegistrationService) RegisterSale(ctx context.Context, userID int64, in SaleInput) (*entity.SaleRecord, error) {
	if in.Price <= 0 {
		return nil, ErrInvalidPrice
	}
	name := in.ProductName
	if in.Product != nil && in.Product.Name != "" {
		name = in.Product.Name
	}
	if name == "" {
		return nil, ErrMissingProduct
	}

	cost := 0.0
	if in.Product != nil {
		cost = in.Product.CostOrZero()
	}

	var profit, margin float64
	estimated := cost <= 0
	if estimated {
		// No cost price known: assume the estimated margin rate.
		profit = in.Price * constants.EstimatedMarginRate
		margin = constants.EstimatedMarginRate * 100
	} else {
		profit = in.Price - cost
		margin = profit / in.Price * 100
	}

	now := s.now()
	entry, err := s.repo.CreateLedgerEntry(ctx, entity.LedgerEntry{
		ID:          uuid.New().String(),
		UserID:      userID,
		Kind:        entity.KindRevenue,
		Amount:      in.Price,
		Category:    constants.SalesCategory,
		Description: fmt.Sprintf("Venda: %s", name),
		Date:        now,
	})
	if err != nil {
		return nil, fmt.Errorf("create revenue entry: %w", err)
	}

	record := &entity.SaleRecord{
		Entry:           entry,
		ProductName:     name,
		UnitPrice:       in.Price,
		BuyerName:       in.BuyerName,
		Cost:            cost,
		Profit:          profit,
		Margin:          margin,
		EstimatedMargin: estimated,
		RegisteredAt:    now,
	}

	detail := entity.SaleDetail{
		ID:            uuid.New().String(),
		UserID:        userID,
		LedgerEntryID: entry.ID,
		Quantity:      1,
		UnitPrice:     in.Price,
		BuyerName:     in.BuyerName,
	}
	if in.Product != nil {
		id := in.Product.ID
		detail.ProductID = &id
		record.ProductID = &id
	}

	if _, err := s.repo.CreateSaleDetail(ctx, detail); err != nil {
		// Best-effort secondary write: the revenue entry already succeeded
		// and stays authoritative.
		log.Printf("sale detail write failed (entry=%s user=%d): %v", entry.ID, userID, err)
	} else if in.Product != nil && in.Product.Stock != nil {
		if err := s.repo.UpdateProductStock(ctx, userID, in.Product.ID, -1); err != nil {
			log.Printf("stock update failed (product=%s user=%d): %v", in.Product.ID, userID, err)
		}
	}

	return record, nil
}
