package cart

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Product is the raw catalog shape at the system boundary. Field aliases
// (pricePer100g, fullName, seller) exist because the catalog is not the
// only producer of product payloads.
type Product struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	FullName     string           `json:"fullName"`
	ImageURL     string           `json:"imageUrl"`
	Category     string           `json:"category"`
	SellerName   string           `json:"sellerName"`
	Seller       string           `json:"seller"`
	Price        *decimal.Decimal `json:"price"`
	PricePer100g *decimal.Decimal `json:"pricePer100g"`
}

// LineItem is the canonical cart entry: display fields and unit price are
// captured once at add-time and never live-refreshed.
type LineItem struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	ImageURL   string          `json:"imageUrl"`
	Category   string          `json:"category"`
	SellerName string          `json:"sellerName"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Quantity   int             `json:"quantity"`
	RawProduct json.RawMessage `json:"rawProduct,omitempty"`
}

// ParseProduct decodes a raw product payload and keeps the payload itself
// as the opaque snapshot.
func ParseProduct(raw json.RawMessage) (Product, json.RawMessage, error) {
	product := Product{}
	if err := json.Unmarshal(raw, &product); err != nil {
		return Product{}, nil, err
	}
	return product, raw, nil
}

// normalize folds the boundary aliases into one canonical line item. The
// second return is false when the product carries no id.
func normalize(product Product, raw json.RawMessage, quantity int) (LineItem, bool) {
	if product.ID == "" {
		return LineItem{}, false
	}

	name := product.Name
	if name == "" {
		name = product.FullName
	}
	seller := product.SellerName
	if seller == "" {
		seller = product.Seller
	}
	price := decimal.Zero
	if product.Price != nil {
		price = *product.Price
	} else if product.PricePer100g != nil {
		price = *product.PricePer100g
	}

	return LineItem{
		ID:         product.ID,
		Name:       name,
		ImageURL:   product.ImageURL,
		Category:   product.Category,
		SellerName: seller,
		UnitPrice:  price,
		Quantity:   quantity,
		RawProduct: raw,
	}, true
}
