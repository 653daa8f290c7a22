package entities

import (
	"github.com/aarondl/null/v8"

	"workshop-system/pkg/types"
)

type Client struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	MobileNumber string      `json:"mobileNumber"`
	Address      null.String `json:"address"`
	City         null.String `json:"city"`

	types.BaseEntity
}
