package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxdesk/internal/logger"
	"voxdesk/internal/models"
)

func TestContactServiceCreate(t *testing.T) {
	store := newFakeStore()
	svc := NewContactService(store, logger.Nop())

	score := 55.0
	c, err := svc.Create(context.Background(), "tenant-a", "user-1", models.ContactRequest{
		Name:  "Jane Doe",
		Email: " Jane@Example.com ",
		Tags:  []string{" vip ", ""},
		Score: &score,
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane", c.FirstName)
	assert.Equal(t, "Doe", c.LastName)
	assert.Equal(t, "jane@example.com", c.Email)
	assert.Equal(t, []string{"vip"}, c.Tags)
	assert.Equal(t, models.DefaultStatus, c.Status)
	assert.Equal(t, models.DefaultManualLeadSource, c.LeadSource)
	assert.Equal(t, 55.0, c.Score)
	assert.NotEmpty(t, c.ID)
}

func TestContactServiceCreateValidation(t *testing.T) {
	svc := NewContactService(newFakeStore(), logger.Nop())

	_, err := svc.Create(context.Background(), "t", "u", models.ContactRequest{Email: "not-an-email"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{"Name": "required", "Email": "invalid_email"}, verr.Fields)

	_, err = svc.Create(context.Background(), "t", "u", models.ContactRequest{FirstName: "Ann", Email: "ann@example.com"})
	assert.NoError(t, err)
}

func TestContactServiceUpdateAndDelete(t *testing.T) {
	store := newFakeStore()
	svc := NewContactService(store, logger.Nop())
	ctx := context.Background()

	c, err := svc.Create(ctx, "tenant-a", "u", models.ContactRequest{Name: "Jane Doe", Email: "jane@example.com"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "tenant-a", c.ID, models.ContactRequest{
		FirstName: "Janet", LastName: "Doe", Email: "janet@example.com", Status: "contacted",
	})
	require.NoError(t, err)
	assert.Equal(t, "Janet Doe", updated.Name)
	assert.Equal(t, "contacted", updated.Status)

	_, err = svc.Update(ctx, "tenant-b", c.ID, models.ContactRequest{Name: "X", Email: "x@example.com"})
	assert.ErrorIs(t, err, ErrContactNotFound)

	require.NoError(t, svc.Delete(ctx, "tenant-a", c.ID))
	_, err = svc.Get(ctx, "tenant-a", c.ID)
	assert.ErrorIs(t, err, ErrContactNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "tenant-a", c.ID), ErrContactNotFound)
}

func TestContactServiceListEmptyTenant(t *testing.T) {
	contacts, err := NewContactService(newFakeStore(), logger.Nop()).List(context.Background(), "none")
	require.NoError(t, err)
	assert.NotNil(t, contacts)
	assert.Empty(t, contacts)
}

func TestContactServiceExport(t *testing.T) {
	store := newFakeStore(&models.Contact{
		SubAccountID: "a", Name: "Jane Doe", Email: "jane@example.com", Phone: "+14155551234",
		Status: "new", LeadSource: "Import", Tags: []string{"vip", "lead"}, Score: 42,
	})

	var buf bytes.Buffer
	require.NoError(t, NewContactService(store, logger.Nop()).Export(context.Background(), "a", &buf))
	assert.Equal(t,
		"name,email,phone,company,status,leadSource,tags,score\n"+
			`"Jane Doe","jane@example.com","+14155551234","","new","Import","vip;lead","42"`+"\n",
		buf.String())
}

func TestContactServiceExportListFailure(t *testing.T) {
	store := newFakeStore()
	store.listErr = errors.New("boom")

	var buf bytes.Buffer
	err := NewContactService(store, logger.Nop()).Export(context.Background(), "a", &buf)
	assert.ErrorContains(t, err, "boom")
	assert.Empty(t, buf.String())
}
