package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// AccountSortFields contains allowed sort fields for billing accounts
var AccountSortFields = map[string]bool{
	"id":                  true,
	"created_at":          true,
	"updated_at":          true,
	"account_number":      true,
	"status":              true,
	"billing_cycle":       true,
	"outstanding_amount":  true,
	"total_billed_amount": true,
}

// InstallmentSortFields contains allowed sort fields for installments
var InstallmentSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"due_date":   true,
	"amount":     true,
	"type":       true,
	"direction":  true,
	"status":     true,
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"invoice_number": true,
	"amount":         true,
	"status":         true,
	"cancelled_on":   true,
}

// PaymentSortFields contains allowed sort fields for payments
var PaymentSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"amount":           true,
	"payment_date":     true,
	"mode":             true,
	"status":           true,
	"reference_number": true,
}

// ContractSortFields contains allowed sort fields for contracts
var ContractSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"contract_number": true,
	"status":          true,
	"premium_amount":  true,
	"effective_date":  true,
	"expiration_date": true,
}

// EndorsementSortFields contains allowed sort fields for endorsements
var EndorsementSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"endorsement_number": true,
	"type":               true,
	"status":             true,
	"effective_date":     true,
	"premium_adjustment": true,
	"processed_on":       true,
}

// MemberSortFields contains allowed sort fields for members
var MemberSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"member_number": true,
	"last_name":     true,
	"status":        true,
	"date_of_birth": true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"product_code": true,
	"name":         true,
	"type":         true,
	"status":       true,
	"base_premium": true,
}
