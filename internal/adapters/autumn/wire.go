package autumn

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/bnema/autumn-cli/internal/domain"
)

type customerListResponse struct {
	List   []customerPayload `json:"list"`
	Total  int               `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

type customerPayload struct {
	ID          string           `json:"id"`
	Name        *string          `json:"name"`
	Email       *string          `json:"email"`
	Fingerprint *string          `json:"fingerprint"`
	Env         string           `json:"env"`
	CreatedAt   epoch            `json:"created_at"`
	Products    []productPayload `json:"products"`
	Invoices    []invoicePayload `json:"invoices"`
	Entities    []entityPayload  `json:"entities"`
}

type productPayload struct {
	ID               string  `json:"id"`
	Name             *string `json:"name"`
	Group            *string `json:"group"`
	Status           string  `json:"status"`
	StartedAt        epoch   `json:"started_at"`
	CurrentPeriodEnd epoch   `json:"current_period_end"`
	CanceledAt       epoch   `json:"canceled_at"`
}

type invoicePayload struct {
	ID         string   `json:"id"`
	StripeID   string   `json:"stripe_id"`
	ProductIDs []string `json:"product_ids"`
	Total      float64  `json:"total"`
	Currency   string   `json:"currency"`
	Status     string   `json:"status"`
	CreatedAt  epoch    `json:"created_at"`
}

type entityPayload struct {
	ID        string  `json:"id"`
	Name      *string `json:"name"`
	FeatureID *string `json:"feature_id"`
	CreatedAt epoch   `json:"created_at"`
}

type organizationPayload struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	CreatedAt epoch  `json:"created_at"`
}

type updateCustomerRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

type errorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// epoch is a unix timestamp that the API sends either in seconds or in
// milliseconds. Zero and null decode to the zero time.
type epoch int64

// Values above this are milliseconds; in seconds it is the year 33658.
const millisecondThreshold = 1e12

func (e *epoch) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*e = 0
		return nil
	}

	var value float64
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*e = epoch(value)
	return nil
}

func (e epoch) Time() time.Time {
	switch {
	case e <= 0:
		return time.Time{}
	case e >= millisecondThreshold:
		return time.UnixMilli(int64(e)).UTC()
	default:
		return time.Unix(int64(e), 0).UTC()
	}
}

func (p customerPayload) toDomain() domain.Customer {
	products := make([]domain.Product, 0, len(p.Products))
	for _, product := range p.Products {
		products = append(products, product.toDomain())
	}

	return domain.Customer{
		ID:          domain.CustomerID(p.ID),
		Name:        deref(p.Name),
		Email:       deref(p.Email),
		Fingerprint: deref(p.Fingerprint),
		Env:         p.Env,
		CreatedAt:   p.CreatedAt.Time(),
		Products:    products,
	}
}

// toView keeps the distinction between an expansion that was absent from
// the payload (nil) and one that was present but empty.
func (p customerPayload) toView() domain.CustomerView {
	var invoices []domain.Invoice
	if p.Invoices != nil {
		invoices = make([]domain.Invoice, 0, len(p.Invoices))
		for _, invoice := range p.Invoices {
			invoices = append(invoices, invoice.toDomain())
		}
	}

	var entities []domain.Entity
	if p.Entities != nil {
		entities = make([]domain.Entity, 0, len(p.Entities))
		for _, entity := range p.Entities {
			entities = append(entities, entity.toDomain())
		}
	}

	return domain.NewCustomerView(p.toDomain(), invoices, entities)
}

func (p productPayload) toDomain() domain.Product {
	status := domain.ParseProductStatus(p.Status)
	raw := ""
	if status == domain.ProductStatusOther {
		raw = p.Status
	}

	return domain.Product{
		ID:               p.ID,
		Name:             deref(p.Name),
		Group:            deref(p.Group),
		Status:           status,
		StartedAt:        p.StartedAt.Time(),
		CurrentPeriodEnd: p.CurrentPeriodEnd.Time(),
		CanceledAt:       p.CanceledAt.Time(),
		RawStatus:        raw,
	}
}

func (p invoicePayload) toDomain() domain.Invoice {
	id := p.ID
	if id == "" {
		id = p.StripeID
	}

	return domain.Invoice{
		ID:         id,
		StripeID:   p.StripeID,
		ProductIDs: p.ProductIDs,
		Total:      int64(p.Total),
		Currency:   p.Currency,
		Status:     p.Status,
		CreatedAt:  p.CreatedAt.Time(),
	}
}

func (p entityPayload) toDomain() domain.Entity {
	return domain.Entity{
		ID:        p.ID,
		Name:      deref(p.Name),
		FeatureID: deref(p.FeatureID),
		CreatedAt: p.CreatedAt.Time(),
	}
}

func (p organizationPayload) toDomain() domain.Organization {
	return domain.Organization{
		ID:        p.ID,
		Name:      p.Name,
		Slug:      p.Slug,
		CreatedAt: p.CreatedAt.Time(),
	}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
