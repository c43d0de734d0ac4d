package service

import (
	"context"
	"fmt"
	"strings"

	"voxdesk/internal/database"
	"voxdesk/internal/models"
)

type fakeStore struct {
	contacts  []*models.Contact
	failEmail map[string]bool
	listErr   error
	creates   int
	emailsErr error
}

func newFakeStore(existing ...*models.Contact) *fakeStore {
	return &fakeStore{contacts: existing, failEmail: map[string]bool{}}
}

func (f *fakeStore) Create(_ context.Context, c *models.Contact) error {
	f.creates++
	if f.failEmail[c.Email] {
		return fmt.Errorf("write rejected for %s", c.Email)
	}
	c.ID = fmt.Sprintf("c-%d", len(f.contacts)+1)
	cp := *c
	f.contacts = append(f.contacts, &cp)
	return nil
}

func (f *fakeStore) ListEmails(_ context.Context, subAccountID string) ([]string, error) {
	if f.emailsErr != nil {
		return nil, f.emailsErr
	}
	var out []string
	for _, c := range f.contacts {
		if c.SubAccountID == subAccountID {
			out = append(out, strings.ToLower(c.Email))
		}
	}
	return out, nil
}

func (f *fakeStore) Get(_ context.Context, subAccountID, id string) (*models.Contact, error) {
	for _, c := range f.contacts {
		if c.SubAccountID == subAccountID && c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeStore) List(_ context.Context, subAccountID string) ([]*models.Contact, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*models.Contact
	for _, c := range f.contacts {
		if c.SubAccountID == subAccountID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, c *models.Contact) error {
	for i, existing := range f.contacts {
		if existing.SubAccountID == c.SubAccountID && existing.ID == c.ID {
			cp := *c
			f.contacts[i] = &cp
			return nil
		}
	}
	return database.ErrNotFound
}

func (f *fakeStore) Delete(_ context.Context, subAccountID, id string) error {
	for i, c := range f.contacts {
		if c.SubAccountID == subAccountID && c.ID == id {
			f.contacts = append(f.contacts[:i], f.contacts[i+1:]...)
			return nil
		}
	}
	return database.ErrNotFound
}
