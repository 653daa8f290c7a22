package dto

import "workshop-system/internal/entities"

type CreateClientDTO struct {
	Name         string  `json:"name" validate:"required,min=1"`
	MobileNumber string  `json:"mobileNumber" validate:"required,min=1"`
	Address      *string `json:"address,omitempty"`
	City         *string `json:"city,omitempty"`
}

// UpdateClientDTO — частичное обновление. Какие поля реально прислали,
// определяется по сырому телу запроса (см. utils.SentFields), поэтому
// nil здесь означает и "не прислано", и "прислан null" — различает сервис.
type UpdateClientDTO struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1"`
	MobileNumber *string `json:"mobileNumber,omitempty" validate:"omitempty,min=1"`
	Address      *string `json:"address,omitempty"`
	City         *string `json:"city,omitempty"`
}

type ClientWithOrdersDTO struct {
	Client *entities.Client `json:"client"`
	Orders []entities.Order `json:"orders"`
}
