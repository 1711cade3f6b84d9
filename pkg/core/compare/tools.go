package compare

import (
	"fmt"
	"strings"

	"shopagent/pkg/core/catalog"
)

// CalculateDifferences computes the price/rating/discount spreads and the
// per-specification-key matrix across the set.
func CalculateDifferences(products []Product) Differences {
	diff := Differences{
		SpecComparison: map[string]map[string]string{},
		ProductCount:   len(products),
	}
	if len(products) < 2 {
		return diff
	}

	cheapest, expensive := products[0], products[0]
	highest, lowest := products[0], products[0]
	bestDeal, worstDeal := products[0], products[0]
	for _, p := range products[1:] {
		if p.Price < cheapest.Price {
			cheapest = p
		}
		if p.Price > expensive.Price {
			expensive = p
		}
		if p.Rating > highest.Rating {
			highest = p
		}
		if p.Rating < lowest.Rating {
			lowest = p
		}
		if p.DiscountPct > bestDeal.DiscountPct {
			bestDeal = p
		}
		if p.DiscountPct < worstDeal.DiscountPct {
			worstDeal = p
		}
	}

	diff.PriceAnalysis = PriceAnalysis{
		Cheapest:         cheapest.Price,
		MostExpensive:    expensive.Price,
		PriceDifference:  expensive.Price - cheapest.Price,
		CheapestProduct:  cheapest.Name,
		ExpensiveProduct: expensive.Name,
	}
	diff.RatingAnalysis = RatingAnalysis{
		HighestRated: highest.Rating,
		LowestRated:  lowest.Rating,
		BestProduct:  highest.Name,
		WorstProduct: lowest.Name,
	}
	diff.DiscountAnalysis = DiscountAnalysis{
		BestDiscount:    bestDeal.DiscountPct,
		WorstDiscount:   worstDeal.DiscountPct,
		BestDealProduct: bestDeal.Name,
	}

	// Union of spec keys, then productName -> value (or N/A) per key.
	var asCatalog []catalog.Product
	for _, p := range products {
		asCatalog = append(asCatalog, catalog.Product{Specifications: p.Specifications})
	}
	for _, key := range catalog.SpecKeys(asCatalog) {
		row := map[string]string{}
		for _, p := range products {
			if v, ok := p.Specifications[key]; ok && v != "" {
				row[p.Name] = v
			} else {
				row[p.Name] = "N/A"
			}
		}
		diff.SpecComparison[key] = row
	}
	return diff
}

// DetermineWinners emits the fixed winner categories.
func DetermineWinners(products []Product) Winners {
	cheapest := products[0]
	bestValue := products[0]
	highestRated := products[0]
	mostReviewed := products[0]
	bestOverall := products[0]
	for _, p := range products[1:] {
		if p.Price < cheapest.Price {
			cheapest = p
		}
		if p.DiscountPct > bestValue.DiscountPct {
			bestValue = p
		}
		if p.Rating > highestRated.Rating {
			highestRated = p
		}
		if p.ReviewCount > mostReviewed.ReviewCount {
			mostReviewed = p
		}
		if p.ValueScore() > bestOverall.ValueScore() {
			bestOverall = p
		}
	}

	savings := 0.0
	if bestValue.MRP != nil {
		savings = *bestValue.MRP - bestValue.Price
	}

	return Winners{
		BestPrice: Winner{
			Product: cheapest.Name,
			Value:   fmt.Sprintf("₹%.0f", cheapest.Price),
			Reason:  "Lowest price",
		},
		BestValue: Winner{
			Product: bestValue.Name,
			Value:   fmt.Sprintf("%.1f%% OFF", bestValue.DiscountPct),
			Reason:  fmt.Sprintf("Save ₹%.0f", savings),
		},
		BestRating: Winner{
			Product: highestRated.Name,
			Value:   fmt.Sprintf("%.1f/5", highestRated.Rating),
			Reason:  fmt.Sprintf("%d reviews", highestRated.ReviewCount),
		},
		MostPopular: Winner{
			Product: mostReviewed.Name,
			Value:   fmt.Sprintf("%d reviews", mostReviewed.ReviewCount),
			Reason:  "Most user feedback",
		},
		BestOverall: Winner{
			Product: bestOverall.Name,
			Value:   fmt.Sprintf("Score: %.2f", bestOverall.ValueScore()),
			Reason:  "Best combination of price, rating, and popularity",
		},
	}
}

// FrontendTable builds the structured comparison table with per-cell
// value/raw/style hints.
func FrontendTable(products []Product, winners Winners) *TableData {
	columns := []Column{{Key: "attribute", Label: "Feature", Width: 150}}
	for i, p := range products {
		label := p.Name
		if len(label) > 30 {
			label = label[:30]
		}
		columns = append(columns, Column{
			Key:       fmt.Sprintf("product_%d", i+1),
			Label:     label,
			Width:     200,
			ProductID: p.ID,
		})
	}

	attributes := []struct {
		key   string
		label string
	}{
		{"price", "Price"},
		{"rating", "Rating"},
		{"discount_pct", "Discount"},
		{"review_count", "Total Reviews"},
		{"in_stock", "Availability"},
	}

	var rows []map[string]any
	for _, attr := range attributes {
		row := map[string]any{
			"attribute":     attr.label,
			"attribute_key": attr.key,
		}
		for i, p := range products {
			row[fmt.Sprintf("product_%d", i+1)] = cellFor(attr.key, p)
		}
		rows = append(rows, row)
	}

	return &TableData{
		Columns:       columns,
		Rows:          rows,
		Winners:       winners,
		TotalProducts: len(products),
		Recommendations: map[string]string{
			"best_value":  winners.BestValue.Product,
			"best_price":  winners.BestPrice.Product,
			"best_rating": winners.BestRating.Product,
		},
	}
}

func cellFor(attr string, p Product) Cell {
	switch attr {
	case "price":
		return Cell{Value: fmt.Sprintf("₹%.0f", p.Price), Raw: p.Price, Style: "currency"}
	case "rating":
		color := "red"
		if p.Rating >= 4.0 {
			color = "green"
		} else if p.Rating >= 3.0 {
			color = "orange"
		}
		return Cell{Value: fmt.Sprintf("%.1f/5", p.Rating), Raw: p.Rating, Style: "rating", Color: color}
	case "discount_pct":
		if p.DiscountPct <= 0 {
			return Cell{Value: "No discount", Raw: p.DiscountPct, Style: "badge", Color: "gray"}
		}
		color := "blue"
		if p.DiscountPct >= 20 {
			color = "green"
		}
		return Cell{Value: fmt.Sprintf("%.1f%% OFF", p.DiscountPct), Raw: p.DiscountPct, Style: "badge", Color: color}
	case "review_count":
		return Cell{Value: fmt.Sprintf("%d", p.ReviewCount), Raw: p.ReviewCount, Style: "text"}
	case "in_stock":
		if p.InStock {
			return Cell{Value: "In Stock", Raw: true, Style: "status", Color: "green"}
		}
		return Cell{Value: "Out of Stock", Raw: false, Style: "status", Color: "red"}
	default:
		return Cell{Value: "N/A", Style: "text"}
	}
}

// ASCIITable renders the comparison as a fixed-width console table.
func ASCIITable(products []Product) string {
	names := make([]string, len(products))
	for i, p := range products {
		name := p.Name
		if len(name) > 20 {
			name = name[:20]
		}
		names[i] = name
	}

	header := fmt.Sprintf("%-20s | ", "Attribute")
	cells := make([]string, len(names))
	for i, n := range names {
		cells[i] = fmt.Sprintf("%-20s", n)
	}
	header += strings.Join(cells, " | ")
	separator := strings.Repeat("-", len(header))

	lines := []string{separator, header, separator}
	rows := []struct {
		label  string
		render func(Product) string
	}{
		{"Price", func(p Product) string { return fmt.Sprintf("₹%.0f", p.Price) }},
		{"Rating", func(p Product) string { return fmt.Sprintf("%.1f/5", p.Rating) }},
		{"Discount", func(p Product) string {
			if p.DiscountPct <= 0 {
				return "No discount"
			}
			return fmt.Sprintf("%.1f%% OFF", p.DiscountPct)
		}},
		{"Reviews", func(p Product) string { return fmt.Sprintf("%d", p.ReviewCount) }},
		{"In Stock", func(p Product) string {
			if p.InStock {
				return "Yes"
			}
			return "No"
		}},
	}
	for _, row := range rows {
		values := make([]string, len(products))
		for i, p := range products {
			values[i] = fmt.Sprintf("%-20s", row.render(p))
		}
		lines = append(lines, fmt.Sprintf("%-20s | %s", row.label, strings.Join(values, " | ")))
	}
	lines = append(lines, separator)
	return strings.Join(lines, "\n")
}

// BattleComparison runs the three fixed rounds (price, rating, discount)
// for exactly two products and declares the overall winner by round count.
func BattleComparison(p1, p2 Product) *Battle {
	rounds := make([]Round, 0, 3)

	priceWinner := p1.Name
	if p2.Price < p1.Price {
		priceWinner = p2.Name
	}
	rounds = append(rounds, Round{
		Name: "ROUND 1: PRICE",
		Values: map[string]string{
			p1.Name: fmt.Sprintf("₹%.0f", p1.Price),
			p2.Name: fmt.Sprintf("₹%.0f", p2.Price),
		},
		Winner: priceWinner,
		Reason: fmt.Sprintf("₹%.0f cheaper", abs(p1.Price-p2.Price)),
	})

	ratingWinner := p1.Name
	if p2.Rating > p1.Rating {
		ratingWinner = p2.Name
	}
	rounds = append(rounds, Round{
		Name: "ROUND 2: RATING",
		Values: map[string]string{
			p1.Name: fmt.Sprintf("%.1f/5 (%d reviews)", p1.Rating, p1.ReviewCount),
			p2.Name: fmt.Sprintf("%.1f/5 (%d reviews)", p2.Rating, p2.ReviewCount),
		},
		Winner: ratingWinner,
		Reason: fmt.Sprintf("%.1f stars better", abs(p1.Rating-p2.Rating)),
	})

	discountWinner := p1.Name
	if p2.DiscountPct > p1.DiscountPct {
		discountWinner = p2.Name
	}
	rounds = append(rounds, Round{
		Name: "ROUND 3: DISCOUNT",
		Values: map[string]string{
			p1.Name: fmt.Sprintf("%.1f%% OFF", p1.DiscountPct),
			p2.Name: fmt.Sprintf("%.1f%% OFF", p2.DiscountPct),
		},
		Winner: discountWinner,
		Reason: fmt.Sprintf("%.1f%% more savings", abs(p1.DiscountPct-p2.DiscountPct)),
	})

	p1Wins, p2Wins := 0, 0
	for _, r := range rounds {
		if r.Winner == p1.Name {
			p1Wins++
		} else {
			p2Wins++
		}
	}

	battle := &Battle{Rounds: rounds}
	var verdict string
	switch {
	case p1Wins > p2Wins:
		battle.Winner = p1.Name
		verdict = fmt.Sprintf("Winner: %s (%d rounds)", p1.Name, p1Wins)
	case p2Wins > p1Wins:
		battle.Winner = p2.Name
		verdict = fmt.Sprintf("Winner: %s (%d rounds)", p2.Name, p2Wins)
	default:
		battle.Tie = true
		verdict = "It's a TIE! Both products are equally matched"
	}

	var sb strings.Builder
	sb.WriteString("PRODUCT BATTLE\n")
	fmt.Fprintf(&sb, "%s VS %s\n\n", p1.Name, p2.Name)
	for _, r := range rounds {
		fmt.Fprintf(&sb, "%s\n", r.Name)
		fmt.Fprintf(&sb, "  %s: %s\n", p1.Name, r.Values[p1.Name])
		fmt.Fprintf(&sb, "  %s: %s\n", p2.Name, r.Values[p2.Name])
		fmt.Fprintf(&sb, "  WINNER: %s (%s)\n\n", r.Winner, r.Reason)
	}
	sb.WriteString("FINAL VERDICT:\n  " + verdict)
	battle.Text = sb.String()
	return battle
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
