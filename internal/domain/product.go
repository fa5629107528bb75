package domain

import "time"

type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusTrialing ProductStatus = "trialing"
	ProductStatusPastDue  ProductStatus = "past_due"
	ProductStatusExpired  ProductStatus = "expired"
	ProductStatusOther    ProductStatus = "other"
)

// ParseProductStatus maps a wire status onto the closed status set. Values
// outside the set become ProductStatusOther.
func ParseProductStatus(raw string) ProductStatus {
	switch status := ProductStatus(raw); status {
	case ProductStatusActive, ProductStatusTrialing, ProductStatusPastDue, ProductStatusExpired:
		return status
	default:
		return ProductStatusOther
	}
}

// Tone is the display treatment attached to a status chip.
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneDanger  Tone = "danger"
	ToneDefault Tone = "default"
)

func (s ProductStatus) Tone() Tone {
	switch s {
	case ProductStatusActive:
		return ToneSuccess
	case ProductStatusTrialing:
		return ToneWarning
	case ProductStatusPastDue:
		return ToneDanger
	default:
		return ToneDefault
	}
}

type Product struct {
	ID               string
	Name             string
	Group            string
	Status           ProductStatus
	StartedAt        time.Time
	CurrentPeriodEnd time.Time
	CanceledAt       time.Time

	// RawStatus keeps the remote value for display when Status is "other".
	RawStatus string
}

func (p Product) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

func (p Product) DisplayGroup() string {
	if p.Group != "" {
		return p.Group
	}
	return "No group"
}

func (p Product) StatusLabel() string {
	if p.RawStatus != "" {
		return p.RawStatus
	}
	return string(p.Status)
}
