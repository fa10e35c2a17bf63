package dcsa

// DocumentData is the closed set of extracted document shapes.
// Each variant reports its own discriminant.
type DocumentData interface {
	Type() DocumentType
	documentData()
}

// Party is a shipper, consignee, notify party, or service provider.
type Party struct {
	Name        string `json:"name"`
	Address     string `json:"address,omitempty"`
	ContactName string `json:"contactName,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// Location is a port, terminal, or inland place identified by UN/LOCODE.
type Location struct {
	Name     string `json:"name"`
	UNLocode string `json:"unLocode,omitempty"`
	Address  string `json:"address,omitempty"`
}

// Carrier identifies the ocean carrier issuing the document.
type Carrier struct {
	Name string `json:"name"`
	SCAC string `json:"scac,omitempty"`
}

// Vessel identifies the transporting vessel and voyage.
type Vessel struct {
	Name         string `json:"name"`
	VoyageNumber string `json:"voyageNumber,omitempty"`
	IMONumber    string `json:"imoNumber,omitempty"`
}

// Container is a single equipment record.
type Container struct {
	ContainerNumber string   `json:"containerNumber"`
	ContainerType   string   `json:"containerType,omitempty"`
	SealNumber      string   `json:"sealNumber,omitempty"`
	GrossWeight     *float64 `json:"grossWeight,omitempty"`
	TareWeight      *float64 `json:"tareWeight,omitempty"`
	WeightUnit      string   `json:"weightUnit,omitempty"`
	IsHazmat        *bool    `json:"isHazmat,omitempty"`
}

// Cargo is a commodity line.
type Cargo struct {
	Description  string   `json:"description"`
	HSCode       string   `json:"hsCode,omitempty"`
	PackageCount *int     `json:"packageCount,omitempty"`
	PackageType  string   `json:"packageType,omitempty"`
	GrossWeight  *float64 `json:"grossWeight,omitempty"`
	WeightUnit   string   `json:"weightUnit,omitempty"`
	Volume       *float64 `json:"volume,omitempty"`
	VolumeUnit   string   `json:"volumeUnit,omitempty"`
}

// CutOffs holds booking deadlines as ISO 8601 dates.
type CutOffs struct {
	Documentation string `json:"documentation,omitempty"`
	VGM           string `json:"vgm,omitempty"`
	Cargo         string `json:"cargo,omitempty"`
}

// ReleaseAuthorization authorizes pickup of cargo under a delivery order.
type ReleaseAuthorization struct {
	ReleaseNumber string `json:"releaseNumber,omitempty"`
	AuthorizedBy  string `json:"authorizedBy,omitempty"`
	ValidUntil    string `json:"validUntil,omitempty"`
}

func (r *ReleaseAuthorization) empty() bool {
	return r == nil || (r.ReleaseNumber == "" && r.AuthorizedBy == "" && r.ValidUntil == "")
}

// BookingConfirmation confirms space allocation on a voyage.
type BookingConfirmation struct {
	DocumentType           DocumentType `json:"documentType"`
	BookingReference       string       `json:"bookingReference"`
	BookingDate            string       `json:"bookingDate"`
	Carrier                Carrier      `json:"carrier"`
	Shipper                Party        `json:"shipper"`
	Consignee              Party        `json:"consignee"`
	Vessel                 Vessel       `json:"vessel"`
	PlaceOfReceipt         Location     `json:"placeOfReceipt"`
	PortOfLoading          Location     `json:"portOfLoading"`
	PortOfDischarge        Location     `json:"portOfDischarge"`
	PlaceOfDelivery        Location     `json:"placeOfDelivery"`
	EstimatedDepartureDate string       `json:"estimatedDepartureDate,omitempty"`
	EstimatedArrivalDate   string       `json:"estimatedArrivalDate,omitempty"`
	CutOffs                CutOffs      `json:"cutOffs"`
	Containers             []Container  `json:"containers"`
	Cargo                  []Cargo      `json:"cargo"`
}

// BillOfLading evidences cargo shipped on board a vessel.
type BillOfLading struct {
	DocumentType        DocumentType `json:"documentType"`
	BillOfLadingNumber  string       `json:"billOfLadingNumber"`
	BookingReference    string       `json:"bookingReference"`
	IssueDate           string       `json:"issueDate"`
	PlaceOfIssue        string       `json:"placeOfIssue,omitempty"`
	ShippedOnBoardDate  string       `json:"shippedOnBoardDate,omitempty"`
	Carrier             Carrier      `json:"carrier"`
	Shipper             Party        `json:"shipper"`
	Consignee           Party        `json:"consignee"`
	NotifyParty         Party        `json:"notifyParty"`
	Vessel              Vessel       `json:"vessel"`
	PortOfLoading       Location     `json:"portOfLoading"`
	PortOfDischarge     Location     `json:"portOfDischarge"`
	PlaceOfDelivery     Location     `json:"placeOfDelivery"`
	FreightPaymentTerms string       `json:"freightPaymentTerms,omitempty"`
	NumberOfOriginals   *int         `json:"numberOfOriginals,omitempty"`
	Containers          []Container  `json:"containers"`
	Cargo               []Cargo      `json:"cargo"`
}

// DeliveryOrder instructs a terminal to release cargo to a named party.
type DeliveryOrder struct {
	DocumentType         DocumentType          `json:"documentType"`
	DeliveryOrderNumber  string                `json:"deliveryOrderNumber"`
	BillOfLadingNumber   string                `json:"billOfLadingNumber"`
	IssueDate            string                `json:"issueDate"`
	Carrier              Carrier               `json:"carrier"`
	Consignee            Party                 `json:"consignee"`
	DeliverTo            Party                 `json:"deliverTo"`
	Vessel               Vessel                `json:"vessel"`
	PortOfDischarge      Location              `json:"portOfDischarge"`
	PickupLocation       Location              `json:"pickupLocation"`
	ReleaseAuthorization *ReleaseAuthorization `json:"releaseAuthorization"`
	Containers           []Container           `json:"containers"`
	Cargo                []Cargo               `json:"cargo"`
}

// TransportOrder instructs a haulier to move containers between locations.
type TransportOrder struct {
	DocumentType         DocumentType `json:"documentType"`
	TransportOrderNumber string       `json:"transportOrderNumber"`
	BookingReference     string       `json:"bookingReference"`
	OrderDate            string       `json:"orderDate"`
	Carrier              Carrier      `json:"carrier"`
	TransportProvider    Party        `json:"transportProvider"`
	PickupLocation       Location     `json:"pickupLocation"`
	DeliveryLocation     Location     `json:"deliveryLocation"`
	PlannedPickupDate    string       `json:"plannedPickupDate"`
	PlannedDeliveryDate  string       `json:"plannedDeliveryDate"`
	SpecialInstructions  string       `json:"specialInstructions,omitempty"`
	Containers           []Container  `json:"containers"`
	Cargo                []Cargo      `json:"cargo"`
}

func (*BookingConfirmation) Type() DocumentType { return TypeBookingConfirmation }
func (*BillOfLading) Type() DocumentType        { return TypeBillOfLading }
func (*DeliveryOrder) Type() DocumentType       { return TypeDeliveryOrder }
func (*TransportOrder) Type() DocumentType      { return TypeTransportOrder }

func (*BookingConfirmation) documentData() {}
func (*BillOfLading) documentData()        {}
func (*DeliveryOrder) documentData()       {}
func (*TransportOrder) documentData()      {}

// New returns an empty variant for t, or nil if t is not extractable.
func New(t DocumentType) DocumentData {
	switch t {
	case TypeBookingConfirmation:
		return &BookingConfirmation{DocumentType: t}
	case TypeBillOfLading:
		return &BillOfLading{DocumentType: t}
	case TypeDeliveryOrder:
		return &DeliveryOrder{DocumentType: t}
	case TypeTransportOrder:
		return &TransportOrder{DocumentType: t}
	default:
		return nil
	}
}
