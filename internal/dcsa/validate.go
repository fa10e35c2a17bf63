package dcsa

import (
	"errors"
	"fmt"

	"github.com/JaimeStill/lading/pkg/validation"
)

// ErrUnknownType indicates a document type outside the extractable set.
var ErrUnknownType = errors.New("unknown document type")

// ValidationResult holds the findings for one document.
// Valid is true iff Errors is empty; warnings never block validity.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

type findings struct {
	errors   []string
	warnings []string
}

func (f *findings) errorf(format string, args ...any) {
	f.errors = append(f.errors, fmt.Sprintf(format, args...))
}

func (f *findings) warnf(format string, args ...any) {
	f.warnings = append(f.warnings, fmt.Sprintf(format, args...))
}

func (f *findings) result() ValidationResult {
	errs := f.errors
	if errs == nil {
		errs = []string{}
	}
	warns := f.warnings
	if warns == nil {
		warns = []string{}
	}
	return ValidationResult{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Warnings: warns,
	}
}

// Validate checks data against the rules for its document type.
func Validate(data DocumentData) ValidationResult {
	var f findings

	switch d := data.(type) {
	case *BookingConfirmation:
		f.primaryNumber("bookingReference", d.BookingReference)
		f.primaryDate("bookingDate", d.BookingDate)
		f.carrier(d.Carrier)
		f.locations(map[string]Location{
			"placeOfReceipt":  d.PlaceOfReceipt,
			"portOfLoading":   d.PortOfLoading,
			"portOfDischarge": d.PortOfDischarge,
			"placeOfDelivery": d.PlaceOfDelivery,
		})
		f.containers(d.Containers)
	case *BillOfLading:
		f.primaryNumber("billOfLadingNumber", d.BillOfLadingNumber)
		f.secondaryNumber("bookingReference", d.BookingReference)
		f.primaryDate("issueDate", d.IssueDate)
		f.carrier(d.Carrier)
		f.locations(map[string]Location{
			"portOfLoading":   d.PortOfLoading,
			"portOfDischarge": d.PortOfDischarge,
			"placeOfDelivery": d.PlaceOfDelivery,
		})
		f.containers(d.Containers)
	case *DeliveryOrder:
		f.primaryNumber("deliveryOrderNumber", d.DeliveryOrderNumber)
		f.secondaryNumber("billOfLadingNumber", d.BillOfLadingNumber)
		f.primaryDate("issueDate", d.IssueDate)
		f.carrier(d.Carrier)
		f.locations(map[string]Location{
			"portOfDischarge": d.PortOfDischarge,
			"pickupLocation":  d.PickupLocation,
		})
		if d.ReleaseAuthorization.empty() {
			f.warnf("releaseAuthorization is missing")
		}
		f.containers(d.Containers)
	case *TransportOrder:
		f.primaryNumber("transportOrderNumber", d.TransportOrderNumber)
		f.secondaryNumber("bookingReference", d.BookingReference)
		f.primaryDate("orderDate", d.OrderDate)
		f.primaryDate("plannedPickupDate", d.PlannedPickupDate)
		f.primaryDate("plannedDeliveryDate", d.PlannedDeliveryDate)
		f.carrier(d.Carrier)
		f.locations(map[string]Location{
			"pickupLocation":   d.PickupLocation,
			"deliveryLocation": d.DeliveryLocation,
		})
		f.containers(d.Containers)
	default:
		f.errorf("%v: %T", ErrUnknownType, data)
	}

	return f.result()
}

func (f *findings) primaryNumber(field, value string) {
	if value == "" {
		f.errorf("%s is required", field)
	}
}

func (f *findings) secondaryNumber(field, value string) {
	if value == "" {
		f.warnf("%s is missing", field)
	}
}

func (f *findings) primaryDate(field, value string) {
	switch {
	case value == "":
		f.errorf("%s is required", field)
	case !validation.ISODate(value):
		f.errorf("%s %q is not an ISO 8601 date (YYYY-MM-DD)", field, value)
	}
}

func (f *findings) carrier(c Carrier) {
	if c.Name == "" {
		f.warnf("carrier.name is missing")
	}
}

// locations checks UN/LOCODE format in a stable field order.
func (f *findings) locations(locs map[string]Location) {
	for _, field := range locationOrder {
		loc, ok := locs[field]
		if !ok || loc.UNLocode == "" {
			continue
		}
		if !validation.UNLocode(loc.UNLocode) {
			f.warnf("%s.unLocode %q is not a valid UN/LOCODE", field, loc.UNLocode)
		}
	}
}

var locationOrder = []string{
	"placeOfReceipt",
	"portOfLoading",
	"portOfDischarge",
	"placeOfDelivery",
	"pickupLocation",
	"deliveryLocation",
}

func (f *findings) containers(cs []Container) {
	for i, c := range cs {
		if c.ContainerNumber == "" {
			continue
		}
		if !validation.ContainerFormat(c.ContainerNumber) {
			f.warnf(
				"containers[%d].containerNumber %q does not match the 4 letter + 7 digit format",
				i, c.ContainerNumber,
			)
		}
	}
}
