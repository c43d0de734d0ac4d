package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"voxdesk/internal/models"
)

// ErrNotFound is returned when no contact matches the tenant and id
var ErrNotFound = errors.New("contact not found")

const contactColumns = `id, sub_account_id, created_by, first_name, last_name, name, email, phone,
	company, tags, status, lead_source, score, created_at, updated_at`

// ContactRepository stores contacts scoped by sub-account
type ContactRepository struct {
	db  *DB
	now func() time.Time
}

// NewContactRepository creates a repository over db
func NewContactRepository(db *DB) *ContactRepository {
	return &ContactRepository{db: db, now: time.Now}
}

// Create assigns an id and timestamps to c and inserts it
func (r *ContactRepository) Create(ctx context.Context, c *models.Contact) error {
	now := r.now().UTC()
	id := uuid.NewString()

	query := `INSERT INTO contacts (` + contactColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.db.Conn.ExecContext(ctx, query,
		id, c.SubAccountID, c.CreatedBy, c.FirstName, c.LastName, c.Name, c.Email, c.Phone,
		c.Company, joinTags(c.Tags), c.Status, c.LeadSource, c.Score, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert contact: %w", err)
	}

	c.ID = id
	c.CreatedAt = now
	c.UpdatedAt = now
	return nil
}

// Get returns one contact of the tenant
func (r *ContactRepository) Get(ctx context.Context, subAccountID, id string) (*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE sub_account_id = $1 AND id = $2`
	contacts, err := r.queryContacts(ctx, query, subAccountID, id)
	if err != nil {
		return nil, err
	}
	if len(contacts) == 0 {
		return nil, ErrNotFound
	}
	return contacts[0], nil
}

// List returns all contacts of the tenant, oldest first
func (r *ContactRepository) List(ctx context.Context, subAccountID string) ([]*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE sub_account_id = $1 ORDER BY created_at, id`
	return r.queryContacts(ctx, query, subAccountID)
}

// ListEmails returns the lower-cased emails of every contact in the tenant
func (r *ContactRepository) ListEmails(ctx context.Context, subAccountID string) ([]string, error) {
	rows, err := r.db.Conn.QueryContext(ctx, `SELECT email FROM contacts WHERE sub_account_id = $1`, subAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("failed to scan email: %w", err)
		}
		emails = append(emails, strings.ToLower(strings.TrimSpace(email)))
	}
	return emails, rows.Err()
}

// Update overwrites the mutable fields of an existing contact
func (r *ContactRepository) Update(ctx context.Context, c *models.Contact) error {
	now := r.now().UTC()
	query := `UPDATE contacts SET first_name = $1, last_name = $2, name = $3, email = $4, phone = $5,
			  company = $6, tags = $7, status = $8, lead_source = $9, score = $10, updated_at = $11
			  WHERE sub_account_id = $12 AND id = $13`
	res, err := r.db.Conn.ExecContext(ctx, query,
		c.FirstName, c.LastName, c.Name, c.Email, c.Phone, c.Company, joinTags(c.Tags),
		c.Status, c.LeadSource, c.Score, now, c.SubAccountID, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	if err := expectOneRow(res); err != nil {
		return err
	}
	c.UpdatedAt = now
	return nil
}

// Delete removes a contact of the tenant
func (r *ContactRepository) Delete(ctx context.Context, subAccountID, id string) error {
	res, err := r.db.Conn.ExecContext(ctx, `DELETE FROM contacts WHERE sub_account_id = $1 AND id = $2`, subAccountID, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// queryContacts executes a query and returns contacts
func (r *ContactRepository) queryContacts(ctx context.Context, query string, args ...any) ([]*models.Contact, error) {
	rows, err := r.db.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*models.Contact
	for rows.Next() {
		c := &models.Contact{}
		var tags string
		err := rows.Scan(&c.ID, &c.SubAccountID, &c.CreatedBy, &c.FirstName, &c.LastName, &c.Name,
			&c.Email, &c.Phone, &c.Company, &tags, &c.Status, &c.LeadSource, &c.Score,
			&c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		c.Tags = splitTags(tags)
		contacts = append(contacts, c)
	}

	return contacts, rows.Err()
}

func joinTags(tags []string) string {
	return strings.Join(tags, ";")
}

func splitTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ";") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
