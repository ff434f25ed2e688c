package request

import "time"

type CreateReminder struct {
	Title    string    `json:"title"    validate:"required"`
	Datetime time.Time `json:"datetime" validate:"required"`
	Channels []string  `json:"channels"`
}
