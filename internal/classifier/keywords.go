package classifier

import "github.com/JaimeStill/lading/internal/dcsa"

type typeKeywords struct {
	documentType dcsa.DocumentType
	keywords     []string
}

// Declared order doubles as the deterministic iteration order.
var documentKeywords = []typeKeywords{
	{
		documentType: dcsa.TypeBookingConfirmation,
		keywords: []string{
			"booking confirmation",
			"space confirmation",
			"booking number",
			"booking reference",
			"booking date",
			"vgm cut-off",
			"cargo cut-off",
			"documentation cut-off",
			"estimated departure",
			"equipment release",
		},
	},
	{
		documentType: dcsa.TypeBillOfLading,
		keywords: []string{
			"bill of lading",
			"b/l number",
			"shipped on board",
			"clean on board",
			"place of issue",
			"notify party",
			"freight prepaid",
			"freight collect",
			"number of originals",
			"shipper's load",
		},
	},
	{
		documentType: dcsa.TypeDeliveryOrder,
		keywords: []string{
			"delivery order",
			"release order",
			"release authorization",
			"release number",
			"deliver to",
			"terminal release",
			"free time",
			"customs cleared",
			"container release",
		},
	},
	{
		documentType: dcsa.TypeTransportOrder,
		keywords: []string{
			"transport order",
			"haulage order",
			"trucking order",
			"transport provider",
			"haulier",
			"planned pickup",
			"planned delivery",
			"pickup address",
			"delivery address",
			"special instructions",
		},
	},
}

type carrierAliases struct {
	carrier string
	aliases []string
}

var carrierKeywords = []carrierAliases{
	{carrier: "maersk", aliases: []string{"maersk", "maersk line", "MAEU", "MSKU", "MRKU"}},
	{carrier: "msc", aliases: []string{"mediterranean shipping", "msc", "MSCU", "MEDU"}},
	{carrier: "cma_cgm", aliases: []string{"cma cgm", "cma-cgm", "CMAU", "CGMU"}},
	{carrier: "hapag_lloyd", aliases: []string{"hapag-lloyd", "hapag lloyd", "HLCU", "HLXU"}},
	{carrier: "evergreen", aliases: []string{"evergreen", "EGLV", "EISU", "EMCU"}},
	{carrier: "cosco", aliases: []string{"cosco", "COSU", "CBHU", "CCLU"}},
	{carrier: "one", aliases: []string{"ocean network express", "ONEY", "ONEU"}},
}

var thresholds = map[dcsa.DocumentType]float64{
	dcsa.TypeBookingConfirmation: 0.6,
	dcsa.TypeBillOfLading:        0.6,
	dcsa.TypeDeliveryOrder:       0.5,
	dcsa.TypeTransportOrder:      0.5,
	dcsa.TypeUnknown:             0.3,
}

// Carriers returns the known carrier identifiers in declared order.
func Carriers() []string {
	out := make([]string, len(carrierKeywords))
	for i, c := range carrierKeywords {
		out[i] = c.carrier
	}
	return out
}
