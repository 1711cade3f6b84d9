// Package catalog provides typed, read-only access to the product catalog:
// products, reviews, price history and card offers. Writes happen in an
// ingestion path outside this module.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("catalog: not found")

// PredicateQuery describes the attribute leg of a hybrid search.
type PredicateQuery struct {
	Category  string   // matched against category OR subcategory, case-insensitive
	Brand     string
	Keywords  []string // OR-disjunction across name/description/category/subcategory/brand/model/features
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	Limit     int
}

// Store is the read interface the agents consume. The pgx-backed Repo is the
// production implementation; tests substitute fakes.
type Store interface {
	Product(ctx context.Context, id int64) (*Product, error)
	Products(ctx context.Context, ids []int64) ([]Product, error)
	Search(ctx context.Context, q PredicateQuery) ([]Product, error)
	Reviews(ctx context.Context, productID int64, limit int) ([]Review, error)
	PriceHistory(ctx context.Context, productID int64, days int) ([]PricePoint, error)
	ActiveOffers(ctx context.Context, productID int64) ([]CardOffer, error)
	DealCandidates(ctx context.Context, category string, limit int) ([]Product, error)
}

// Repo reads the catalog through a shared pgx pool.
type Repo struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func NewRepo(pool *pgxpool.Pool, log *zap.Logger) *Repo {
	return &Repo{pool: pool, log: log}
}

const productColumns = `id, name, COALESCE(brand, ''), COALESCE(model, ''), category,
	COALESCE(subcategory, ''), price, mrp, COALESCE(description, ''),
	COALESCE(features, ''), COALESCE(specifications, ''), COALESCE(rating, 0),
	COALESCE(review_count, 0), COALESCE(in_stock, TRUE)`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	var featuresRaw, specsRaw string
	err := row.Scan(&p.ID, &p.Name, &p.Brand, &p.Model, &p.Category, &p.Subcategory,
		&p.Price, &p.MRP, &p.Description, &featuresRaw, &specsRaw, &p.Rating,
		&p.ReviewCount, &p.InStock)
	if err != nil {
		return nil, err
	}
	p.Features = decodeFeatures(featuresRaw)
	p.Specifications = decodeSpecifications(specsRaw)
	return &p, nil
}

func (r *Repo) Product(ctx context.Context, id int64) (*Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: load product %d: %w", id, err)
	}
	return p, nil
}

func (r *Repo) Products(ctx context.Context, ids []int64) ([]Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("catalog: load products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

// Search runs the predicate leg of hybrid retrieval: LIKE filters over the
// catalog, popularity-ordered by rating x review_count.
func (r *Repo) Search(ctx context.Context, q PredicateQuery) ([]Product, error) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.Category != "" {
		like := arg("%" + q.Category + "%")
		conds = append(conds, fmt.Sprintf("(category ILIKE %s OR subcategory ILIKE %s)", like, like))
	}
	if q.Brand != "" {
		conds = append(conds, fmt.Sprintf("brand ILIKE %s", arg("%"+q.Brand+"%")))
	}
	if q.MinPrice != nil {
		conds = append(conds, fmt.Sprintf("price >= %s", arg(*q.MinPrice)))
	}
	if q.MaxPrice != nil {
		conds = append(conds, fmt.Sprintf("price <= %s", arg(*q.MaxPrice)))
	}
	if q.MinRating != nil {
		conds = append(conds, fmt.Sprintf("rating >= %s", arg(*q.MinRating)))
	}
	if len(q.Keywords) > 0 {
		var kw []string
		for _, keyword := range q.Keywords {
			like := arg("%" + keyword + "%")
			for _, col := range []string{"name", "description", "category", "subcategory", "brand", "model", "features"} {
				kw = append(kw, fmt.Sprintf("%s ILIKE %s", col, like))
			}
		}
		conds = append(conds, "("+strings.Join(kw, " OR ")+")")
	}

	sql := `SELECT ` + productColumns + ` FROM products`
	if len(conds) > 0 {
		sql += " WHERE " + strings.Join(conds, " AND ")
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	sql += fmt.Sprintf(" ORDER BY rating * review_count DESC LIMIT %s", arg(limit))

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog: predicate search: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *Repo) Reviews(ctx context.Context, productID int64, limit int) ([]Review, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT product_id, rating, COALESCE(review_text, ''), COALESCE(verified_purchase, FALSE),
		       COALESCE(helpful_count, 0), created_at
		FROM reviews WHERE product_id = $1
		ORDER BY helpful_count DESC
		LIMIT $2`, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("catalog: load reviews for %d: %w", productID, err)
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ProductID, &rv.Rating, &rv.Text, &rv.VerifiedPurchase, &rv.HelpfulCount, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("catalog: scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

// PriceHistory returns price points within the last `days` days, newest first.
func (r *Repo) PriceHistory(ctx context.Context, productID int64, days int) ([]PricePoint, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := r.pool.Query(ctx, `
		SELECT product_id, price, recorded_at
		FROM price_history
		WHERE product_id = $1 AND recorded_at >= $2
		ORDER BY recorded_at DESC`, productID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("catalog: load price history for %d: %w", productID, err)
	}
	defer rows.Close()

	var points []PricePoint
	for rows.Next() {
		var pt PricePoint
		if err := rows.Scan(&pt.ProductID, &pt.Price, &pt.RecordedAt); err != nil {
			return nil, fmt.Errorf("catalog: scan price point: %w", err)
		}
		points = append(points, pt)
	}
	return points, rows.Err()
}

func (r *Repo) ActiveOffers(ctx context.Context, productID int64) ([]CardOffer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, product_id, bank_name, COALESCE(card_type, ''), offer_type,
		       discount_amount, discount_percentage, cashback_amount,
		       min_transaction_amount, COALESCE(emi_tenure, ''),
		       COALESCE(is_no_cost_emi, FALSE), COALESCE(offer_description, ''),
		       COALESCE(is_active, TRUE), valid_from, valid_till
		FROM card_offers
		WHERE product_id = $1 AND is_active = TRUE`, productID)
	if err != nil {
		return nil, fmt.Errorf("catalog: load offers for %d: %w", productID, err)
	}
	defer rows.Close()

	var offers []CardOffer
	for rows.Next() {
		var o CardOffer
		var tenureRaw string
		err := rows.Scan(&o.ID, &o.ProductID, &o.BankName, &o.CardType, &o.OfferType,
			&o.DiscountAmount, &o.DiscountPercent, &o.CashbackAmount,
			&o.MinTransaction, &tenureRaw, &o.IsNoCostEMI, &o.Description,
			&o.IsActive, &o.ValidFrom, &o.ValidTill)
		if err != nil {
			return nil, fmt.Errorf("catalog: scan offer: %w", err)
		}
		o.EMITenureMonths = parseTenure(tenureRaw)
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

// DealCandidates returns in-stock products with a recorded MRP, optionally
// category-filtered. Callers compute discounts and apply thresholds.
func (r *Repo) DealCandidates(ctx context.Context, category string, limit int) ([]Product, error) {
	sql := `SELECT ` + productColumns + ` FROM products WHERE mrp IS NOT NULL AND in_stock = TRUE`
	var args []any
	if category != "" {
		args = append(args, category)
		sql += fmt.Sprintf(" AND category = $%d", len(args))
	}
	args = append(args, limit)
	sql += fmt.Sprintf(" ORDER BY (mrp - price) / mrp DESC LIMIT $%d", len(args))

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog: deal candidates: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func collectProducts(rows pgx.Rows) ([]Product, error) {
	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("catalog: scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// parseTenure normalizes the emi_tenure column, which the source schema
// stores as text ("6", "6 months"), to integer months.
func parseTenure(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	fields := strings.Fields(raw)
	n, err := strconv.Atoi(fields[0])
	if err != nil || n <= 0 {
		return nil
	}
	return &n
}
