package request

type SetOrderStatus struct {
	Status string `json:"status" validate:"required"`
}
