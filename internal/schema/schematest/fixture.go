// Package schematest bundles a small UBL-shaped schema set for tests: an
// Invoice and a CreditNote maindoc plus the common component schemas they
// reference. The layout mirrors a real UBL 2.1 distribution (maindoc/ and
// common/) so the same fixture serves the compiler, the engine, and the
// batch pipeline.
package schematest

import (
	"testing/fstest"
	"time"
)

const invoiceXSD = `<?xml version="1.0" encoding="UTF-8"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
           xmlns:cac="urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
           xmlns:cbc="urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
           targetNamespace="urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
           elementFormDefault="qualified">
  <xs:element name="Invoice" type="InvoiceType"/>
  <xs:complexType name="InvoiceType">
    <xs:sequence>
      <xs:element ref="cbc:ID" minOccurs="1" maxOccurs="1"/>
      <xs:element ref="cbc:CopyIndicator" minOccurs="0"/>
      <xs:element ref="cbc:IssueDate" minOccurs="0"/>
      <xs:element ref="cbc:DocumentCurrencyCode" minOccurs="0"/>
      <xs:element ref="cbc:Note" minOccurs="0" maxOccurs="unbounded"/>
      <xs:element name="Reference" type="xs:string" minOccurs="0"/>
      <xs:element name="REFERENCE" type="xs:string" minOccurs="0"/>
      <xs:element ref="cac:AccountingSupplierParty" minOccurs="0"/>
      <xs:element ref="cac:TaxTotal" minOccurs="0" maxOccurs="unbounded"/>
      <xs:element ref="cac:LegalMonetaryTotal" minOccurs="0"/>
      <xs:element ref="cac:InvoiceLine" minOccurs="1" maxOccurs="unbounded"/>
    </xs:sequence>
  </xs:complexType>
</xs:schema>
`

const creditNoteXSD = `<?xml version="1.0" encoding="UTF-8"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
           xmlns:cac="urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
           xmlns:cbc="urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
           targetNamespace="urn:oasis:names:specification:ubl:schema:xsd:CreditNote-2"
           elementFormDefault="qualified">
  <xs:element name="CreditNote" type="CreditNoteType"/>
  <xs:complexType name="CreditNoteType">
    <xs:sequence>
      <xs:element ref="cbc:ID" minOccurs="1" maxOccurs="1"/>
      <xs:element ref="cbc:IssueDate" minOccurs="0"/>
      <xs:element ref="cbc:Note" minOccurs="0" maxOccurs="unbounded"/>
      <xs:element ref="cac:CreditNoteLine" minOccurs="1" maxOccurs="unbounded"/>
    </xs:sequence>
  </xs:complexType>
</xs:schema>
`

const commonBasicXSD = `<?xml version="1.0" encoding="UTF-8"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
           targetNamespace="urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
           elementFormDefault="qualified">
  <xs:element name="ID" type="IDType"/>
  <xs:element name="CopyIndicator" type="CopyIndicatorType"/>
  <xs:element name="IssueDate" type="IssueDateType"/>
  <xs:element name="DocumentCurrencyCode" type="DocumentCurrencyCodeType"/>
  <xs:element name="Note" type="NoteType"/>
  <xs:element name="Name" type="NameType"/>
  <xs:element name="Description" type="DescriptionType"/>
  <xs:element name="StreetName" type="NameType"/>
  <xs:element name="CityName" type="NameType"/>
  <xs:element name="InvoicedQuantity" type="QuantityType"/>
  <xs:element name="CreditedQuantity" type="QuantityType"/>
  <xs:element name="LineExtensionAmount" type="AmountType"/>
  <xs:element name="TaxableAmount" type="AmountType"/>
  <xs:element name="TaxAmount" type="AmountType"/>
  <xs:element name="PayableAmount" type="AmountType"/>
  <xs:complexType name="IDType">
    <xs:simpleContent>
      <xs:extension base="xs:normalizedString">
        <xs:attribute name="schemeID" type="xs:normalizedString" use="optional"/>
      </xs:extension>
    </xs:simpleContent>
  </xs:complexType>
  <xs:complexType name="AmountType">
    <xs:simpleContent>
      <xs:extension base="xs:decimal">
        <xs:attribute name="currencyID" type="xs:normalizedString" use="optional"/>
      </xs:extension>
    </xs:simpleContent>
  </xs:complexType>
  <xs:complexType name="QuantityType">
    <xs:simpleContent>
      <xs:extension base="xs:decimal">
        <xs:attribute name="unitCode" type="xs:normalizedString" use="optional"/>
      </xs:extension>
    </xs:simpleContent>
  </xs:complexType>
</xs:schema>
`

const commonAggregateXSD = `<?xml version="1.0" encoding="UTF-8"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
           xmlns:cac="urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
           xmlns:cbc="urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
           targetNamespace="urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
           elementFormDefault="qualified">
  <xs:element name="AccountingSupplierParty" type="SupplierPartyType"/>
  <xs:element name="Party" type="PartyType"/>
  <xs:element name="PartyName" type="PartyNameType"/>
  <xs:element name="PostalAddress" type="AddressType"/>
  <xs:element name="TaxTotal" type="TaxTotalType"/>
  <xs:element name="TaxSubtotal" type="TaxSubtotalType"/>
  <xs:element name="LegalMonetaryTotal" type="MonetaryTotalType"/>
  <xs:element name="InvoiceLine" type="InvoiceLineType"/>
  <xs:element name="CreditNoteLine" type="CreditNoteLineType"/>
  <xs:element name="Item" type="ItemType"/>
  <xs:element name="SubItem" type="ItemType"/>
  <xs:complexType name="SupplierPartyType">
    <xs:sequence>
      <xs:element ref="cac:Party" minOccurs="0"/>
    </xs:sequence>
  </xs:complexType>
  <xs:complexType name="PartyType">
    <xs:sequence>
      <xs:element ref="cac:PartyName" minOccurs="0" maxOccurs="unbounded"/>
      <xs:element ref="cac:PostalAddress" minOccurs="0"/>
    </xs:sequence>
  </xs:complexType>
  <xs:complexType name="PartyNameType">
    <xs:sequence>
      <xs:element ref="cbc:Name" minOccurs="1"/>
    </xs:sequence>
  </xs:complexType>
  <xs:complexType name="AddressType">
    <xs:sequence>
      <xs:element ref="cbc:StreetName" minOccurs="0"/>
      <xs:element ref="cbc:CityName" minOccurs="0"/>
    </xs:sequence>
  </xs:complexType>
  <xs:complexType name="TaxTotalType">
    <xs:sequence>
      <xs:element ref="cbc:TaxAmount" minOccurs="1"/>
      <xs:element ref="cac:TaxSubtotal" minOccurs="0" maxOccurs="unbounded"/>
    </xs:sequence>
  </xs:complexType>
  <xs:complexType name="TaxSubtotalType">
    <xs:sequence>
      <xs:element ref="cbc:TaxableAmount" minOccurs="0"/>
      <xs:element ref="cbc:TaxAmount" minOccurs="1"/>
    </xs:sequence>
  </xs:complexType>
  <xs:complexType name="MonetaryTotalType">
    <xs:sequence>
      <xs:element ref="cbc:LineExtensionAmount" minOccurs="0"/>
      <xs:element ref="cbc:PayableAmount" minOccurs="1"/>
    </xs:sequence>
  </xs:complexType>
  <xs:complexType name="InvoiceLineType">
    <xs:sequence>
      <xs:element ref="cbc:ID" minOccurs="1"/>
      <xs:element ref="cbc:InvoicedQuantity" minOccurs="0"/>
      <xs:element ref="cbc:LineExtensionAmount" minOccurs="0"/>
      <xs:element ref="cac:Item" minOccurs="0"/>
    </xs:sequence>
  </xs:complexType>
  <xs:complexType name="CreditNoteLineType">
    <xs:sequence>
      <xs:element ref="cbc:ID" minOccurs="1"/>
      <xs:element ref="cbc:CreditedQuantity" minOccurs="0"/>
      <xs:element ref="cbc:LineExtensionAmount" minOccurs="0"/>
      <xs:element ref="cac:Item" minOccurs="0"/>
    </xs:sequence>
  </xs:complexType>
  <xs:complexType name="ItemType">
    <xs:sequence>
      <xs:element ref="cbc:Name" minOccurs="0"/>
      <xs:element ref="cbc:Description" minOccurs="0" maxOccurs="unbounded"/>
      <xs:element ref="cac:SubItem" minOccurs="0"/>
    </xs:sequence>
  </xs:complexType>
</xs:schema>
`

// Files returns the fixture schema set keyed by path relative to the schema
// root.
func Files() map[string]string {
	return map[string]string{
		"maindoc/UBL-Invoice-2.1.xsd":                  invoiceXSD,
		"maindoc/UBL-CreditNote-2.1.xsd":               creditNoteXSD,
		"common/UBL-CommonBasicComponents-2.1.xsd":     commonBasicXSD,
		"common/UBL-CommonAggregateComponents-2.1.xsd": commonAggregateXSD,
	}
}

// FS returns the fixture as an in-memory filesystem.
func FS() fstest.MapFS {
	fsys := fstest.MapFS{}
	for path, content := range Files() {
		fsys[path] = &fstest.MapFile{Data: []byte(content), ModTime: time.Unix(1700000000, 0)}
	}
	return fsys
}
