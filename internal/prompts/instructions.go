package prompts

import (
	"context"

	"github.com/JaimeStill/lading/internal/dcsa"
)

const sharedInstructions = `

Read the document text exactly as given. It was produced by a PDF text layer or OCR, so columns may be interleaved and labels may be separated from their values. Pair each label with the value that belongs to it, and never invent values that do not appear in the text.`

const bookingInstructions = `You are a shipping documentation specialist extracting data from an ocean carrier booking confirmation.

Identify the booking reference and booking date, the carrier, the shipper and consignee, the routing from place of receipt through port of loading and port of discharge to place of delivery, the vessel and voyage, the estimated departure and arrival dates, the cut-off times, and the booked equipment and cargo.` + sharedInstructions

const billInstructions = `You are a shipping documentation specialist extracting data from an ocean bill of lading.

Identify the bill of lading number and issue date, the booking reference it was issued against, the carrier, the shipper, consignee, and notify party, the vessel and voyage, the ports of loading and discharge, the shipped-on-board date, the freight terms, the number of originals, and every container with its seal, weights, and cargo description.` + sharedInstructions

const deliveryInstructions = `You are a shipping documentation specialist extracting data from a carrier delivery order.

Identify the delivery order number and issue date, the bill of lading it releases, the carrier, the consignee and the party authorized to collect, the release authorization including release number, validity, and free time, the terminal or depot of collection, and every container being released.` + sharedInstructions

const transportInstructions = `You are a shipping documentation specialist extracting data from an inland transport order.

Identify the transport order number and order date, the booking reference it serves, the transport provider, the pickup and delivery locations with their planned dates, the containers to be moved, and any special handling instructions.` + sharedInstructions

var instructions = map[dcsa.DocumentType]string{
	dcsa.TypeBookingConfirmation: bookingInstructions,
	dcsa.TypeBillOfLading:        billInstructions,
	dcsa.TypeDeliveryOrder:       deliveryInstructions,
	dcsa.TypeTransportOrder:      transportInstructions,
}

// Instructions returns the built-in default instructions for a document type.
// Returns ErrInvalidDocumentType if the type is not extractable.
func Instructions(t dcsa.DocumentType) (string, error) {
	text, ok := instructions[t]
	if !ok {
		return "", ErrInvalidDocumentType
	}
	return text, nil
}

// Source resolves the instructions and output specification for a document
// type.
type Source interface {
	Instructions(ctx context.Context, t dcsa.DocumentType) (string, error)
	Spec(ctx context.Context, t dcsa.DocumentType) (string, error)
}

type defaults struct{}

// Defaults returns a Source that serves only the built-in prompts.
func Defaults() Source {
	return defaults{}
}

func (defaults) Instructions(_ context.Context, t dcsa.DocumentType) (string, error) {
	return Instructions(t)
}

func (defaults) Spec(_ context.Context, t dcsa.DocumentType) (string, error) {
	return Spec(t)
}
