package model

import "time"

// DocumentType classifies an uploaded KYC or income document.
type DocumentType string

const (
	DocPANCard       DocumentType = "PAN_CARD"
	DocAadharCard    DocumentType = "AADHAR_CARD"
	DocBankStatement DocumentType = "BANK_STATEMENT"
	DocSalarySlip    DocumentType = "SALARY_SLIP"
	DocAddressProof  DocumentType = "ADDRESS_PROOF"
	DocOther         DocumentType = "OTHER"
)

// RequiredDocuments lists the types a borrower must upload, in display order.
var RequiredDocuments = []DocumentType{DocPANCard, DocAadharCard, DocBankStatement, DocSalarySlip, DocAddressProof}

// Valid reports whether t is a known type.
func (t DocumentType) Valid() bool {
	if t == DocOther {
		return true
	}
	for _, r := range RequiredDocuments {
		if r == t {
			return true
		}
	}
	return false
}

// DocumentStatus is the review state of an uploaded document.
type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "PENDING"
	DocumentApproved DocumentStatus = "APPROVED"
	DocumentRejected DocumentStatus = "REJECTED"
)

// Valid reports whether s is a known status.
func (s DocumentStatus) Valid() bool {
	return s == DocumentPending || s == DocumentApproved || s == DocumentRejected
}

// Document is the metadata of a file held in object storage.
type Document struct {
	ID            int64          `json:"id"`
	OwnerID       int64          `json:"ownerId"`
	ApplicationID *int64         `json:"applicationId,omitempty"`
	Type          DocumentType   `json:"type"`
	Status        DocumentStatus `json:"status"`
	Filename      string         `json:"filename"`
	StoragePath   string         `json:"storagePath"`
	Size          int64          `json:"size"`
	ContentType   string         `json:"contentType"`
	CreatedAt     time.Time      `json:"createdAt"`
}
