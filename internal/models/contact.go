package models

import (
	"strconv"
	"strings"
	"time"
)

const (
	DefaultStatus           = "new"
	DefaultImportLeadSource = "Import"
	DefaultManualLeadSource = "Manual"
)

// Contact represents a tenant-scoped contact in the database
type Contact struct {
	ID           string    `json:"id"`
	SubAccountID string    `json:"subAccountId"`
	CreatedBy    string    `json:"createdBy,omitempty"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Company      string    `json:"company,omitempty"`
	Tags         []string  `json:"tags"`
	Status       string    `json:"status"`
	LeadSource   string    `json:"leadSource"`
	Score        float64   `json:"score"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ExportValues returns the contact's fields in export column order
func (c Contact) ExportValues() []string {
	return []string{
		c.Name,
		c.Email,
		c.Phone,
		c.Company,
		c.Status,
		c.LeadSource,
		strings.Join(c.Tags, ";"),
		strconv.FormatFloat(c.Score, 'f', -1, 64),
	}
}

// ContactRequest represents the body for creating or updating a contact
type ContactRequest struct {
	FirstName  string   `json:"firstName"`
	LastName   string   `json:"lastName"`
	Name       string   `json:"name" validate:"required_without_all=FirstName LastName"`
	Email      string   `json:"email" validate:"required,email"`
	Phone      string   `json:"phone"`
	Company    string   `json:"company"`
	Tags       []string `json:"tags"`
	Status     string   `json:"status"`
	LeadSource string   `json:"leadSource"`
	Score      *float64 `json:"score" validate:"omitempty,gte=0,lte=100"`
}

// ImportResult summarizes a batch import
type ImportResult struct {
	ImportedCount int      `json:"importedCount"`
	SkippedCount  int      `json:"skippedCount"`
	ErrorCount    int      `json:"errorCount"`
	Errors        []string `json:"errors"`
}
