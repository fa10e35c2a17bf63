package dcsa

import "fmt"

const (
	partyTemplate = `{
    "name": "string",
    "address": "string | null",
    "contactName": "string | null",
    "email": "string | null",
    "phone": "string | null"
  }`

	locationTemplate = `{ "name": "string", "unLocode": "5 char UN/LOCODE | null", "address": "string | null" }`

	carrierTemplate = `{ "name": "string", "scac": "4 letter SCAC | null" }`

	vesselTemplate = `{ "name": "string", "voyageNumber": "string | null", "imoNumber": "string | null" }`

	containersTemplate = `[
    {
      "containerNumber": "4 letters + 7 digits, e.g. MSKU1234565",
      "containerType": "string, e.g. 40HC",
      "sealNumber": "string | null",
      "grossWeight": "number | null",
      "tareWeight": "number | null",
      "weightUnit": "KGM | LBR | null",
      "isHazmat": "boolean | null"
    }
  ]`

	cargoTemplate = `[
    {
      "description": "string",
      "hsCode": "string | null",
      "packageCount": "integer | null",
      "packageType": "string | null",
      "grossWeight": "number | null",
      "weightUnit": "KGM | LBR | null",
      "volume": "number | null",
      "volumeUnit": "MTQ | FTQ | null"
    }
  ]`
)

var templates = map[DocumentType]string{
	TypeBookingConfirmation: fmt.Sprintf(`{
  "documentType": "booking_confirmation",
  "bookingReference": "string (required)",
  "bookingDate": "YYYY-MM-DD (required)",
  "carrier": %s,
  "shipper": %s,
  "consignee": %s,
  "vessel": %s,
  "placeOfReceipt": %s,
  "portOfLoading": %s,
  "portOfDischarge": %s,
  "placeOfDelivery": %s,
  "estimatedDepartureDate": "YYYY-MM-DD | null",
  "estimatedArrivalDate": "YYYY-MM-DD | null",
  "cutOffs": { "documentation": "YYYY-MM-DD | null", "vgm": "YYYY-MM-DD | null", "cargo": "YYYY-MM-DD | null" },
  "containers": %s,
  "cargo": %s
}`,
		carrierTemplate, partyTemplate, partyTemplate, vesselTemplate,
		locationTemplate, locationTemplate, locationTemplate, locationTemplate,
		containersTemplate, cargoTemplate),

	TypeBillOfLading: fmt.Sprintf(`{
  "documentType": "bill_of_lading",
  "billOfLadingNumber": "string (required)",
  "bookingReference": "string | null",
  "issueDate": "YYYY-MM-DD (required)",
  "placeOfIssue": "string | null",
  "shippedOnBoardDate": "YYYY-MM-DD | null",
  "carrier": %s,
  "shipper": %s,
  "consignee": %s,
  "notifyParty": %s,
  "vessel": %s,
  "portOfLoading": %s,
  "portOfDischarge": %s,
  "placeOfDelivery": %s,
  "freightPaymentTerms": "PREPAID | COLLECT | null",
  "numberOfOriginals": "integer | null",
  "containers": %s,
  "cargo": %s
}`,
		carrierTemplate, partyTemplate, partyTemplate, partyTemplate, vesselTemplate,
		locationTemplate, locationTemplate, locationTemplate,
		containersTemplate, cargoTemplate),

	TypeDeliveryOrder: fmt.Sprintf(`{
  "documentType": "delivery_order",
  "deliveryOrderNumber": "string (required)",
  "billOfLadingNumber": "string | null",
  "issueDate": "YYYY-MM-DD (required)",
  "carrier": %s,
  "consignee": %s,
  "deliverTo": %s,
  "vessel": %s,
  "portOfDischarge": %s,
  "pickupLocation": %s,
  "releaseAuthorization": { "releaseNumber": "string | null", "authorizedBy": "string | null", "validUntil": "YYYY-MM-DD | null" },
  "containers": %s,
  "cargo": %s
}`,
		carrierTemplate, partyTemplate, partyTemplate, vesselTemplate,
		locationTemplate, locationTemplate,
		containersTemplate, cargoTemplate),

	TypeTransportOrder: fmt.Sprintf(`{
  "documentType": "transport_order",
  "transportOrderNumber": "string (required)",
  "bookingReference": "string | null",
  "orderDate": "YYYY-MM-DD (required)",
  "carrier": %s,
  "transportProvider": %s,
  "pickupLocation": %s,
  "deliveryLocation": %s,
  "plannedPickupDate": "YYYY-MM-DD (required)",
  "plannedDeliveryDate": "YYYY-MM-DD (required)",
  "specialInstructions": "string | null",
  "containers": %s,
  "cargo": %s
}`,
		carrierTemplate, partyTemplate, locationTemplate, locationTemplate,
		containersTemplate, cargoTemplate),
}

// Template returns the JSON field template shown to the model for t.
func Template(t DocumentType) (string, error) {
	tmpl, ok := templates[t]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	return tmpl, nil
}
