package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceTierCount is the fixed number of quantity breaks per product.
const PriceTierCount = 7

// PriceTier is one quantity break: orders of at least Quantity pay Price per unit.
type PriceTier struct {
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Pricing is the ordered list of price tiers of a product.
type Pricing []PriceTier

// Validate checks the tier count and that quantities and prices are non-negative and ascending.
func (p Pricing) Validate() error {
	if len(p) != PriceTierCount {
		return fmt.Errorf("expected %d price tiers, got %d", PriceTierCount, len(p))
	}

	for i, tier := range p {
		if tier.Quantity < 0 {
			return fmt.Errorf("tier %d: quantity must not be negative", i+1)
		}
		if tier.Price.IsNegative() {
			return fmt.Errorf("tier %d: price must not be negative", i+1)
		}
		if i > 0 && tier.Quantity < p[i-1].Quantity {
			return fmt.Errorf("tier %d: quantity must not be lower than tier %d", i+1, i)
		}
	}

	return nil
}

// PriceFor returns the unit price for an order quantity.
func (p Pricing) PriceFor(quantity int64) (decimal.Decimal, error) {
	if len(p) == 0 {
		return decimal.Zero, errors.New("pricing has no tiers")
	}

	price := p[0].Price
	for _, tier := range p {
		if quantity < tier.Quantity {
			break
		}
		price = tier.Price
	}

	return price, nil
}

// Product is a catalog item identified by its model name and package type.
// Stock only changes through inventory operations.
type Product struct {
	ID          uuid.UUID `json:"id"`
	ModelName   string    `json:"modelName"`
	PackageType string    `json:"packageType"`
	Stock       int64     `json:"stock"`
	Pricing     Pricing   `json:"pricing"`
	Remark      string    `json:"remark"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Label renders the product the way operators refer to it.
func (p *Product) Label() string {
	return p.ModelName + " / " + p.PackageType
}
