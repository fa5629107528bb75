package domain

import (
	"strings"
	"time"
)

type CustomerID string

type Customer struct {
	ID          CustomerID
	Name        string
	Email       string
	Fingerprint string
	Env         string
	CreatedAt   time.Time
	Products    []Product
}

// CustomerPatch carries the editable fields of a customer. Nil fields are
// left untouched by the remote API.
type CustomerPatch struct {
	Name  *string
	Email *string
}

func (p CustomerPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil
}

func (c Customer) DisplayName() string {
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	return "Unknown"
}

func (c Customer) DisplayEmail() string {
	if email := strings.TrimSpace(c.Email); email != "" {
		return email
	}
	return "No email"
}

// Initials returns up to two upper-cased initials of the customer name, or
// "?" when the name is empty.
func (c Customer) Initials() string {
	fields := strings.Fields(c.Name)
	if len(fields) == 0 {
		return "?"
	}

	var b strings.Builder
	for _, field := range fields {
		r := []rune(field)
		b.WriteRune(r[0])
	}

	initials := []rune(strings.ToUpper(b.String()))
	if len(initials) > 2 {
		initials = initials[:2]
	}
	return string(initials)
}

func (c Customer) HasActiveProduct() bool {
	for _, product := range c.Products {
		if product.Status == ProductStatusActive {
			return true
		}
	}
	return false
}

type Entity struct {
	ID        string
	Name      string
	FeatureID string
	CreatedAt time.Time
}

type Organization struct {
	ID        string
	Name      string
	Slug      string
	CreatedAt time.Time
}
