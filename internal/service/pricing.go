package service

import (
	"github.com/shopspring/decimal"

	"github.com/avolkov/storefront/internal/models"
)

const (
	freeShippingThreshold = 100
	flatShippingFee       = 10
)

var taxRate = decimal.NewFromFloat(0.10)

type PriceBreakdown struct {
	ItemsTotal float64
	Tax        float64
	Shipping   float64
	GrandTotal float64
}

// ComputeTotals derives the order totals from the snapshotted line items
// alone. It is invoked on every order save, so it must give identical
// results for unchanged items no matter how often it runs. Tax and shipping
// are rounded individually before the final sum, as on an invoice.
func ComputeTotals(items []models.OrderItem) PriceBreakdown {
	itemsTotal := decimal.Zero
	for _, it := range items {
		line := decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
		itemsTotal = itemsTotal.Add(line)
	}
	itemsTotal = itemsTotal.Round(2)

	tax := itemsTotal.Mul(taxRate).Round(2)

	shipping := decimal.NewFromInt(flatShippingFee)
	if itemsTotal.GreaterThan(decimal.NewFromInt(freeShippingThreshold)) {
		shipping = decimal.Zero
	}

	grand := itemsTotal.Add(tax).Add(shipping).Round(2)

	return PriceBreakdown{
		ItemsTotal: itemsTotal.InexactFloat64(),
		Tax:        tax.InexactFloat64(),
		Shipping:   shipping.InexactFloat64(),
		GrandTotal: grand.InexactFloat64(),
	}
}
