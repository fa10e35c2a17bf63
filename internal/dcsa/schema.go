package dcsa

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Structural schemas only check JSON types. Every field is nullable and
// nothing is required; presence rules belong to Validate.
func nullable(kind string) map[string]any {
	return map[string]any{"type": []any{kind, "null"}}
}

func object(props map[string]any) map[string]any {
	return map[string]any{
		"type":       []any{"object", "null"},
		"properties": props,
	}
}

func array(items map[string]any) map[string]any {
	return map[string]any{
		"type":  []any{"array", "null"},
		"items": items,
	}
}

var (
	str     = nullable("string")
	number  = nullable("number")
	integer = nullable("integer")
	boolean = nullable("boolean")

	partySchema = object(map[string]any{
		"name":        str,
		"address":     str,
		"contactName": str,
		"email":       str,
		"phone":       str,
	})

	locationSchema = object(map[string]any{
		"name":     str,
		"unLocode": str,
		"address":  str,
	})

	carrierSchema = object(map[string]any{
		"name": str,
		"scac": str,
	})

	vesselSchema = object(map[string]any{
		"name":         str,
		"voyageNumber": str,
		"imoNumber":    str,
	})

	containerSchema = object(map[string]any{
		"containerNumber": str,
		"containerType":   str,
		"sealNumber":      str,
		"grossWeight":     number,
		"tareWeight":      number,
		"weightUnit":      str,
		"isHazmat":        boolean,
	})

	cargoSchema = object(map[string]any{
		"description":  str,
		"hsCode":       str,
		"packageCount": integer,
		"packageType":  str,
		"grossWeight":  number,
		"weightUnit":   str,
		"volume":       number,
		"volumeUnit":   str,
	})
)

func documentSchema(props map[string]any) map[string]any {
	props["documentType"] = map[string]any{"type": "string"}
	props["carrier"] = carrierSchema
	props["containers"] = array(containerSchema)
	props["cargo"] = array(cargoSchema)
	return map[string]any{
		"$schema":    "https://json-schema.org/draft/2020-12/schema",
		"type":       "object",
		"properties": props,
	}
}

var schemaDocuments = map[DocumentType]map[string]any{
	TypeBookingConfirmation: documentSchema(map[string]any{
		"bookingReference":       str,
		"bookingDate":            str,
		"shipper":                partySchema,
		"consignee":              partySchema,
		"vessel":                 vesselSchema,
		"placeOfReceipt":         locationSchema,
		"portOfLoading":          locationSchema,
		"portOfDischarge":        locationSchema,
		"placeOfDelivery":        locationSchema,
		"estimatedDepartureDate": str,
		"estimatedArrivalDate":   str,
		"cutOffs": object(map[string]any{
			"documentation": str,
			"vgm":           str,
			"cargo":         str,
		}),
	}),
	TypeBillOfLading: documentSchema(map[string]any{
		"billOfLadingNumber":  str,
		"bookingReference":    str,
		"issueDate":           str,
		"placeOfIssue":        str,
		"shippedOnBoardDate":  str,
		"shipper":             partySchema,
		"consignee":           partySchema,
		"notifyParty":         partySchema,
		"vessel":              vesselSchema,
		"portOfLoading":       locationSchema,
		"portOfDischarge":     locationSchema,
		"placeOfDelivery":     locationSchema,
		"freightPaymentTerms": str,
		"numberOfOriginals":   integer,
	}),
	TypeDeliveryOrder: documentSchema(map[string]any{
		"deliveryOrderNumber": str,
		"billOfLadingNumber":  str,
		"issueDate":           str,
		"consignee":           partySchema,
		"deliverTo":           partySchema,
		"vessel":              vesselSchema,
		"portOfDischarge":     locationSchema,
		"pickupLocation":      locationSchema,
		"releaseAuthorization": object(map[string]any{
			"releaseNumber": str,
			"authorizedBy":  str,
			"validUntil":    str,
		}),
	}),
	TypeTransportOrder: documentSchema(map[string]any{
		"transportOrderNumber": str,
		"bookingReference":     str,
		"orderDate":            str,
		"transportProvider":    partySchema,
		"pickupLocation":       locationSchema,
		"deliveryLocation":     locationSchema,
		"plannedPickupDate":    str,
		"plannedDeliveryDate":  str,
		"specialInstructions":  str,
	}),
}

var compiled = sync.OnceValues(func() (map[DocumentType]*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	out := make(map[DocumentType]*jsonschema.Schema, len(schemaDocuments))

	for t, doc := range schemaDocuments {
		raw, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("marshal %s schema: %w", t, err)
		}

		url := string(t) + ".json"
		if err := compiler.AddResource(url, bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("add %s schema: %w", t, err)
		}

		schema, err := compiler.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("compile %s schema: %w", t, err)
		}
		out[t] = schema
	}

	return out, nil
})

// Schema returns the structural JSON Schema for t as indented JSON.
func Schema(t DocumentType) (string, error) {
	doc, ok := schemaDocuments[t]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Decode converts an untyped object into the variant for t. Fields whose
// JSON type does not fit are left zero and reported in the returned error;
// the partially decoded variant is still returned.
func Decode(t DocumentType, raw map[string]any) (DocumentData, error) {
	data := New(t)
	if data == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}

	normalized := maps.Clone(raw)
	if normalized == nil {
		normalized = map[string]any{}
	}
	normalized["documentType"] = string(t)

	body, err := json.Marshal(normalized)
	if err != nil {
		return data, fmt.Errorf("encode %s: %w", t, err)
	}

	if err := json.Unmarshal(body, data); err != nil {
		return data, fmt.Errorf("decode %s: %w", t, err)
	}

	return data, nil
}

// ValidateRaw runs the structural schema for t over raw, decodes it into a
// typed variant, and applies Validate. Structural violations are errors.
func ValidateRaw(t DocumentType, raw map[string]any) (DocumentData, ValidationResult) {
	var f findings

	schemas, err := compiled()
	if err != nil {
		f.errorf("schema unavailable: %v", err)
		return nil, f.result()
	}

	schema, ok := schemas[t]
	if !ok {
		f.errorf("%v: %q", ErrUnknownType, t)
		return nil, f.result()
	}

	data, decodeErr := Decode(t, raw)

	canonical, err := canonicalize(raw, t)
	if err != nil {
		f.errorf("document is not serializable: %v", err)
	} else if err := schema.Validate(canonical); err != nil {
		f.errors = append(f.errors, structuralErrors(err)...)
	}

	var typeErr *json.UnmarshalTypeError
	if decodeErr != nil && !errors.As(decodeErr, &typeErr) {
		f.errorf("%v", decodeErr)
	}

	semantic := Validate(data)
	f.errors = append(f.errors, semantic.Errors...)
	f.warnings = append(f.warnings, semantic.Warnings...)

	return data, f.result()
}

func canonicalize(raw map[string]any, t DocumentType) (any, error) {
	normalized := maps.Clone(raw)
	if normalized == nil {
		normalized = map[string]any{}
	}
	normalized["documentType"] = string(t)

	body, err := json.Marshal(normalized)
	if err != nil {
		return nil, err
	}

	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func structuralErrors(err error) []string {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return []string{err.Error()}
	}

	var out []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			out = append(out, fmt.Sprintf("%s: %s", pointerPath(e.InstanceLocation), e.Message))
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(verr)

	sort.Strings(out)
	return out
}

// pointerPath converts a JSON pointer such as /containers/0/grossWeight
// into containers[0].grossWeight.
func pointerPath(ptr string) string {
	if ptr == "" || ptr == "/" {
		return "document"
	}

	var b strings.Builder
	for _, seg := range strings.Split(strings.TrimPrefix(ptr, "/"), "/") {
		seg = strings.ReplaceAll(strings.ReplaceAll(seg, "~1", "/"), "~0", "~")
		if isIndex(seg) {
			b.WriteString("[" + seg + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
