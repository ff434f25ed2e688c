package request

import "encoding/json"

type AddToCart struct {
	Product  json.RawMessage `json:"product"  validate:"required"`
	Quantity int             `json:"quantity"`
}

type UpdateQuantity struct {
	Quantity *float64 `json:"quantity" validate:"required"`
}

type ApplyCoupon struct {
	Code string `json:"code" validate:"required"`
}
