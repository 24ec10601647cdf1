package checkout

// Coordinates is an optional resolved delivery point. It is informational
// only; an order is never blocked on it.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DraftOrder is the in-progress, unpersisted order form data. Customer and
// bike fields are seeded when the session opens and are not writable through
// the field patch; the rest accumulates from the form step by step.
type DraftOrder struct {
	CustomerName     string       `json:"customer_name"`
	CustomerEmail    string       `json:"customer_email"`
	CustomerPhone    string       `json:"customer_phone"`
	BikeModel        string       `json:"bike_model"`
	Price            float64      `json:"price"`
	DeliveryLocation string       `json:"delivery_location"`
	Coordinates      *Coordinates `json:"coordinates,omitempty"`
	DeliveryNotes    string       `json:"delivery_notes"`
	PaymentMethod    string       `json:"payment_method"`
}

// FieldPatch carries the user-editable draft fields. Nil pointers leave the
// current value untouched, so partial patches merge non-destructively.
type FieldPatch struct {
	CustomerPhone    *string `json:"customer_phone"`
	DeliveryLocation *string `json:"delivery_location"`
	DeliveryNotes    *string `json:"delivery_notes"`
	PaymentMethod    *string `json:"payment_method"`
}

func (d *DraftOrder) apply(p FieldPatch) {
	if p.CustomerPhone != nil {
		d.CustomerPhone = *p.CustomerPhone
	}
	if p.DeliveryLocation != nil {
		d.DeliveryLocation = *p.DeliveryLocation
	}
	if p.DeliveryNotes != nil {
		d.DeliveryNotes = *p.DeliveryNotes
	}
	if p.PaymentMethod != nil {
		d.PaymentMethod = *p.PaymentMethod
	}
}
