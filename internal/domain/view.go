package domain

// CustomerView is a customer together with whichever expansions the remote
// read returned. The set of implementations is closed: BaseView,
// WithInvoices, WithEntities and WithBoth.
type CustomerView interface {
	Profile() Customer
	isCustomerView()
}

type BaseView struct {
	Base Customer
}

type WithInvoices struct {
	Base     Customer
	Invoices []Invoice
}

type WithEntities struct {
	Base     Customer
	Entities []Entity
}

type WithBoth struct {
	Base     Customer
	Invoices []Invoice
	Entities []Entity
}

func (v BaseView) Profile() Customer     { return v.Base }
func (v WithInvoices) Profile() Customer { return v.Base }
func (v WithEntities) Profile() Customer { return v.Base }
func (v WithBoth) Profile() Customer     { return v.Base }

func (BaseView) isCustomerView()     {}
func (WithInvoices) isCustomerView() {}
func (WithEntities) isCustomerView() {}
func (WithBoth) isCustomerView()     {}

// NewCustomerView picks the variant matching the expansions that were
// present on the wire. A nil slice means the expansion was absent; an empty
// non-nil slice means it was expanded and empty.
func NewCustomerView(base Customer, invoices []Invoice, entities []Entity) CustomerView {
	switch {
	case invoices != nil && entities != nil:
		return WithBoth{Base: base, Invoices: invoices, Entities: entities}
	case invoices != nil:
		return WithInvoices{Base: base, Invoices: invoices}
	case entities != nil:
		return WithEntities{Base: base, Entities: entities}
	default:
		return BaseView{Base: base}
	}
}

func ViewInvoices(view CustomerView) []Invoice {
	switch v := view.(type) {
	case WithInvoices:
		return v.Invoices
	case WithBoth:
		return v.Invoices
	default:
		return nil
	}
}

func ViewEntities(view CustomerView) []Entity {
	switch v := view.(type) {
	case WithEntities:
		return v.Entities
	case WithBoth:
		return v.Entities
	default:
		return nil
	}
}

// WithProfile returns a copy of view whose base customer is replaced,
// keeping the expansions.
func WithProfile(view CustomerView, base Customer) CustomerView {
	switch v := view.(type) {
	case WithInvoices:
		v.Base = base
		return v
	case WithEntities:
		v.Base = base
		return v
	case WithBoth:
		v.Base = base
		return v
	default:
		return BaseView{Base: base}
	}
}
