// Package dcsa defines the four DCSA-shaped shipping documents the pipeline
// extracts, along with their structural schemas, prompt templates, and the
// semantic validators that split findings into errors and warnings.
package dcsa

import (
	"encoding/json"
	"fmt"
	"slices"
)

// DocumentType identifies which document shape applies to a page group.
type DocumentType string

// Known document types. Unknown is only produced by classification and
// never carries extracted data.
const (
	TypeBookingConfirmation DocumentType = "booking_confirmation"
	TypeBillOfLading        DocumentType = "bill_of_lading"
	TypeDeliveryOrder       DocumentType = "delivery_order"
	TypeTransportOrder      DocumentType = "transport_order"
	TypeUnknown             DocumentType = "unknown"
)

var documentTypes = []DocumentType{
	TypeBookingConfirmation,
	TypeBillOfLading,
	TypeDeliveryOrder,
	TypeTransportOrder,
}

// DocumentTypes returns the extractable document types in canonical order.
func DocumentTypes() []DocumentType {
	return slices.Clone(documentTypes)
}

// Valid reports whether t is one of the four extractable types.
func (t DocumentType) Valid() bool {
	return slices.Contains(documentTypes, t)
}

// ParseDocumentType validates s as an extractable document type.
func ParseDocumentType(s string) (DocumentType, error) {
	t := DocumentType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
	return t, nil
}

// UnmarshalJSON rejects values outside the known set, allowing unknown.
func (t *DocumentType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := DocumentType(raw)
	if !v.Valid() && v != TypeUnknown {
		return fmt.Errorf("%w: %q", ErrUnknownType, raw)
	}
	*t = v
	return nil
}
