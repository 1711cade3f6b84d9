package price

import (
	"context"
	"math"
	"sort"
)

// FindDeals scans in-stock products with a recorded MRP and keeps those at
// or above the discount threshold, best discount first. Each deal carries
// an is_flash_deal flag (recent sharp drop, or a 90-day low).
func (a *Analyzer) FindDeals(ctx context.Context, category string, minDiscount float64, limit int) (*DealsResult, error) {
	if minDiscount <= 0 {
		minDiscount = 10
	}
	if limit <= 0 {
		limit = 20
	}

	candidates, err := a.store.DealCandidates(ctx, category, limit*2)
	if err != nil {
		return nil, err
	}

	deals := make([]Deal, 0, len(candidates))
	for _, p := range candidates {
		if p.MRP == nil || *p.MRP <= 0 {
			continue
		}
		discountPct := (*p.MRP - p.Price) / *p.MRP * 100
		if discountPct < minDiscount {
			continue
		}
		isFlash := a.isFlashDeal(ctx, p.ID)
		dealType := "regular"
		if isFlash {
			dealType = "flash"
		}
		deals = append(deals, Deal{
			ProductID:   p.ID,
			Name:        p.Name,
			Brand:       p.Brand,
			Category:    p.Category,
			Price:       p.Price,
			MRP:         *p.MRP,
			DiscountPct: math.Round(discountPct*100) / 100,
			Savings:     math.Round((*p.MRP-p.Price)*100) / 100,
			Rating:      p.Rating,
			ReviewCount: p.ReviewCount,
			IsFlashDeal: isFlash,
			DealType:    dealType,
		})
	}

	sort.Slice(deals, func(i, j int) bool {
		if deals[i].DiscountPct != deals[j].DiscountPct {
			return deals[i].DiscountPct > deals[j].DiscountPct
		}
		return deals[i].ProductID < deals[j].ProductID
	})
	if len(deals) > limit {
		deals = deals[:limit]
	}

	label := category
	if label == "" {
		label = "All Categories"
	}
	return &DealsResult{Deals: deals, Count: len(deals), Category: label}, nil
}

// FindFlashDeals keeps only flash deals and attaches urgency grading.
func (a *Analyzer) FindFlashDeals(ctx context.Context, category string, limit int) (*DealsResult, error) {
	if limit <= 0 {
		limit = 10
	}
	all, err := a.FindDeals(ctx, category, 10, limit*3)
	if err != nil {
		return nil, err
	}

	flash := make([]Deal, 0, len(all.Deals))
	for _, d := range all.Deals {
		if !d.IsFlashDeal {
			continue
		}
		d.UrgencyScore = d.DiscountPct
		switch {
		case d.DiscountPct >= 40:
			d.UrgencyLevel = "extreme"
		case d.DiscountPct >= 25:
			d.UrgencyLevel = "high"
		case d.DiscountPct >= 15:
			d.UrgencyLevel = "medium"
		default:
			d.UrgencyLevel = "low"
		}
		flash = append(flash, d)
	}

	sort.Slice(flash, func(i, j int) bool {
		if flash[i].UrgencyScore != flash[j].UrgencyScore {
			return flash[i].UrgencyScore > flash[j].UrgencyScore
		}
		return flash[i].ProductID < flash[j].ProductID
	})
	if len(flash) > limit {
		flash = flash[:limit]
	}
	return &DealsResult{Deals: flash, Count: len(flash), Category: all.Category}, nil
}

// isFlashDeal: the price dropped >=10% within the last 48 hours, or the
// current price sits within 1% of the 90-day minimum.
func (a *Analyzer) isFlashDeal(ctx context.Context, productID int64) bool {
	recent, err := a.store.PriceHistory(ctx, productID, 7)
	if err != nil || len(recent) < 2 {
		return false
	}
	current := recent[0].Price

	if len(recent) >= 3 {
		old := recent[2].Price
		if old > 0 && (old-current)/old*100 >= 10 {
			return true
		}
	}

	full, err := a.store.PriceHistory(ctx, productID, 90)
	if err != nil || len(full) == 0 {
		return false
	}
	minPrice := full[0].Price
	for _, p := range full {
		if p.Price < minPrice {
			minPrice = p.Price
		}
	}
	return current <= minPrice*1.01
}
