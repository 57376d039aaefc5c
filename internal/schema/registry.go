package schema

import (
	"fmt"
	"sort"
	"strings"
)

// codeToType maps UN/EDIFACT 1001 document type codes to UBL 2.1 document
// type names. Each name corresponds to a maindoc XSD (UBL-<Name>-2.1.xsd).
var codeToType = map[string]string{
	"1":   "Catalogue",
	"6":   "CertificateOfOrigin",
	"10":  "ContractNotice",
	"11":  "PriorInformationNotice",
	"15":  "ContractAwardNotice",
	"17":  "CallForTenders",
	"21":  "ItemInformationRequest",
	"24":  "AwardedNotification",
	"25":  "UnawardedNotification",
	"42":  "TransportationStatus",
	"43":  "TransportationStatusRequest",
	"45":  "TenderReceipt",
	"50":  "Tender",
	"54":  "TendererQualification",
	"55":  "TendererQualificationResponse",
	"71":  "Reminder",
	"76":  "TransportExecutionPlanRequest",
	"77":  "TransportExecutionPlan",
	"92":  "ExceptionCriteria",
	"93":  "ExceptionNotification",
	"129": "CatalogueRequest",
	"140": "Forecast",
	"141": "ForecastRevision",
	"142": "InventoryReport",
	"143": "ProductActivity",
	"144": "RetailEvent",
	"145": "StockAvailabilityReport",
	"146": "TradeItemLocationProfile",
	"147": "TransportProgressStatus",
	"148": "TransportProgressStatusRequest",
	"149": "TransportServiceDescription",
	"150": "TransportServiceDescriptionRequest",
	"170": "CataloguePricingUpdate",
	"171": "CatalogueItemSpecificationUpdate",
	"172": "CatalogueDeletion",
	"220": "Order",
	"221": "OrderResponseSimple",
	"227": "OrderChange",
	"230": "OrderCancellation",
	"231": "OrderResponse",
	"232": "FulfilmentCancellation",
	"271": "PackingList",
	"310": "RequestForQuotation",
	"311": "ApplicationResponse",
	"312": "DocumentStatus",
	"313": "DocumentStatusRequest",
	"315": "Quotation",
	"325": "Statement",
	"326": "UtilityStatement",
	"380": "Invoice",
	"381": "CreditNote",
	"383": "DebitNote",
	"389": "SelfBilledInvoice",
	"396": "SelfBilledCreditNote",
	"430": "RemittanceAdvice",
	"447": "GuaranteeCertificate",
	"610": "ForwardingInstructions",
	"632": "DespatchAdvice",
	"633": "ReceiptAdvice",
	"635": "InstructionForReturns",
	"705": "BillOfLading",
	"716": "Waybill",
	"744": "GoodsItemItinerary",
	"780": "FreightInvoice",
	"916": "AttachedDocument",
}

// nameIndex maps lowercase type names back to their canonical casing.
var nameIndex = func() map[string]string {
	idx := make(map[string]string, len(codeToType))
	for _, name := range codeToType {
		idx[strings.ToLower(name)] = name
	}
	return idx
}()

// ResolveType maps a raw document_type value (numeric code, numeric string,
// or type name in any casing) to the canonical UBL document type name.
func ResolveType(raw any) (string, error) {
	var given string
	switch v := raw.(type) {
	case nil:
		return "", &UnknownTypeError{Given: ""}
	case string:
		given = strings.TrimSpace(v)
	case float64:
		given = fmt.Sprintf("%.0f", v)
	case int:
		given = fmt.Sprintf("%d", v)
	case int64:
		given = fmt.Sprintf("%d", v)
	default:
		given = fmt.Sprintf("%v", v)
	}
	if given == "" {
		return "", &UnknownTypeError{Given: given}
	}
	if name, ok := codeToType[given]; ok {
		return name, nil
	}
	if name, ok := nameIndex[strings.ToLower(given)]; ok {
		return name, nil
	}
	return "", &UnknownTypeError{Given: given}
}

// KnownTypes returns all registered document type names in sorted order.
func KnownTypes() []string {
	names := make([]string, 0, len(codeToType))
	for _, name := range codeToType {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
