package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"voxdesk/internal/csvfile"
	"voxdesk/internal/logger"
	"voxdesk/internal/metrics"
	"voxdesk/internal/models"
)

// ErrEmptyFile aborts an import whose CSV yields no data rows
var ErrEmptyFile = errors.New("CSV file appears to be empty or invalid")

// Header aliases, tried in order. Keys are compared in canonical form.
var (
	firstNameAliases  = []string{"firstName", "first_name", "first name", "fname", "first"}
	lastNameAliases   = []string{"lastName", "last_name", "last name", "lname", "last", "surname"}
	fullNameAliases   = []string{"name", "fullName", "full_name", "full name"}
	emailAliases      = []string{"email", "emailAddress", "email_address", "e-mail", "mail"}
	phoneAliases      = []string{"phone", "phoneNumber", "phone_number", "mobile", "telephone"}
	companyAliases    = []string{"company", "companyName", "company_name", "organization"}
	tagsAliases       = []string{"tags", "tag", "labels"}
	statusAliases     = []string{"status"}
	leadSourceAliases = []string{"leadSource", "lead_source", "source"}
	scoreAliases      = []string{"score", "leadScore", "lead_score"}
)

// ScoreFunc supplies a score for rows without a numeric score column
type ScoreFunc func() float64

// RandomScore returns a pseudo-random integer score in [0, 100)
func RandomScore() float64 {
	return float64(rand.IntN(100))
}

// ContactWriter persists imported contacts
type ContactWriter interface {
	Create(ctx context.Context, c *models.Contact) error
}

// EmailLister returns the lower-cased emails already stored for a tenant
type EmailLister interface {
	ListEmails(ctx context.Context, subAccountID string) ([]string, error)
}

// ImportStore is what the importer needs from the contact store
type ImportStore interface {
	ContactWriter
	EmailLister
}

// ImportRequest describes one CSV import batch
type ImportRequest struct {
	SubAccountID   string
	CreatedBy      string
	CSV            string
	SkipDuplicates bool
}

// EmailSet is the dedup accumulator of lower-cased emails
type EmailSet map[string]struct{}

// NewEmailSet builds a set from already lower-cased emails
func NewEmailSet(emails []string) EmailSet {
	set := make(EmailSet, len(emails))
	for _, e := range emails {
		set[e] = struct{}{}
	}
	return set
}

// Has reports whether email is in the set
func (s EmailSet) Has(email string) bool {
	_, ok := s[email]
	return ok
}

// Add inserts email
func (s EmailSet) Add(email string) {
	s[email] = struct{}{}
}

// ImportService maps CSV rows to contacts and writes them one at a time
type ImportService struct {
	store ImportStore
	log   *logger.Logger
	score ScoreFunc
}

// NewImportService creates an importer. A nil score uses RandomScore.
func NewImportService(store ImportStore, log *logger.Logger, score ScoreFunc) *ImportService {
	if score == nil {
		score = RandomScore
	}
	return &ImportService{store: store, log: log, score: score}
}

// Import parses req.CSV, pre-fetches the tenant's emails once and imports
// every row. Rows already written stay written if a later row fails.
func (s *ImportService) Import(ctx context.Context, req ImportRequest) (*models.ImportResult, error) {
	rows := csvfile.ParseNumbered(req.CSV)
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	emails, err := s.store.ListEmails(ctx, req.SubAccountID)
	if err != nil {
		s.log.Errorw("failed to load existing emails", "sub_account_id", req.SubAccountID, "error", err)
		return nil, fmt.Errorf("failed to load existing emails: %w", err)
	}

	result := s.ImportRows(ctx, rows, NewEmailSet(emails), req)
	s.log.Infow("contact import finished",
		"sub_account_id", req.SubAccountID,
		"imported", result.ImportedCount,
		"skipped", result.SkippedCount,
		"errors", result.ErrorCount)
	return result, nil
}

type rowOutcome int

const (
	rowImported rowOutcome = iota
	rowSkipped
	rowFailed
)

func (o rowOutcome) String() string {
	switch o {
	case rowImported:
		return "imported"
	case rowSkipped:
		return "skipped"
	default:
		return "error"
	}
}

// ImportRows imports already-parsed rows against the seen accumulator.
// Each written email is added to seen so later rows in the same batch
// are caught as duplicates. Errors name the physical line of the row in
// the uploaded file, counting the header as line 1.
func (s *ImportService) ImportRows(ctx context.Context, rows []csvfile.NumberedRow, seen EmailSet, req ImportRequest) *models.ImportResult {
	result := &models.ImportResult{Errors: []string{}}

	for _, nr := range rows {
		outcome, email, err := s.importRow(ctx, nr.Row, seen, req)
		metrics.ContactImportRowsTotal.WithLabelValues(outcome.String()).Inc()

		switch outcome {
		case rowImported:
			result.ImportedCount++
			seen.Add(email)
		case rowSkipped:
			result.SkippedCount++
		case rowFailed:
			result.ErrorCount++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", nr.Line, err))
		}
	}
	return result
}

func (s *ImportService) importRow(ctx context.Context, row csvfile.Row, seen EmailSet, req ImportRequest) (rowOutcome, string, error) {
	c, err := MapRow(row, s.score)
	if err != nil {
		return rowFailed, "", err
	}

	if req.SkipDuplicates && seen.Has(c.Email) {
		return rowSkipped, c.Email, nil
	}

	c.SubAccountID = req.SubAccountID
	c.CreatedBy = req.CreatedBy
	if err := s.store.Create(ctx, c); err != nil {
		s.log.Errorw("failed to import contact", "sub_account_id", req.SubAccountID, "error", err)
		return rowFailed, c.Email, errors.New("failed to save contact")
	}
	return rowImported, c.Email, nil
}

// MapRow resolves a parsed CSV row into a contact, or explains why the
// row cannot be imported.
func MapRow(row csvfile.Row, score ScoreFunc) (*models.Contact, error) {
	first := FirstNonEmpty(row, firstNameAliases)
	last := FirstNonEmpty(row, lastNameAliases)
	if first == "" && last == "" {
		first, last = splitFullName(FirstNonEmpty(row, fullNameAliases))
	}
	if first == "" && last == "" {
		return nil, errors.New("missing name")
	}

	email := strings.ToLower(strings.TrimSpace(FirstNonEmpty(row, emailAliases)))
	if email == "" {
		return nil, errors.New("missing email")
	}

	c := &models.Contact{
		FirstName:  first,
		LastName:   last,
		Name:       strings.TrimSpace(first + " " + last),
		Email:      email,
		Phone:      FirstNonEmpty(row, phoneAliases),
		Company:    FirstNonEmpty(row, companyAliases),
		Tags:       SplitTags(FirstNonEmpty(row, tagsAliases)),
		Status:     FirstNonEmpty(row, statusAliases),
		LeadSource: FirstNonEmpty(row, leadSourceAliases),
	}
	if c.Status == "" {
		c.Status = models.DefaultStatus
	}
	if c.LeadSource == "" {
		c.LeadSource = models.DefaultImportLeadSource
	}

	c.Score = parseScore(FirstNonEmpty(row, scoreAliases), score)
	return c, nil
}

func parseScore(raw string, fallback ScoreFunc) float64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback()
	}
	return v
}

// FirstNonEmpty returns the first non-empty value among aliases. Aliases
// are compared in canonical header form, so "First Name" matches
// "firstname".
func FirstNonEmpty(row csvfile.Row, aliases []string) string {
	for _, alias := range aliases {
		if v := strings.TrimSpace(row.Get(csvfile.CanonicalHeader(alias))); v != "" {
			return v
		}
	}
	return ""
}

// SplitTags splits a semicolon-delimited tag list, dropping empty pieces
func SplitTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ";") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func splitFullName(full string) (string, string) {
	full = strings.TrimSpace(full)
	first, last, _ := strings.Cut(full, " ")
	return first, strings.TrimSpace(last)
}
