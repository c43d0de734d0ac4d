package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxdesk/internal/logger"
	"voxdesk/internal/models"
)

func newTestRepo(t *testing.T) *ContactRepository {
	t.Helper()
	db, err := New(context.Background(), filepath.Join(t.TempDir(), "test.db"), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewContactRepository(db)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return repo
}

func TestDriverFor(t *testing.T) {
	assert.Equal(t, "postgres", DriverFor("postgres://u:p@localhost/db"))
	assert.Equal(t, "postgres", DriverFor("postgresql://localhost/db"))
	assert.Equal(t, "sqlite3", DriverFor("./voxdesk.db"))
	assert.Equal(t, "sqlite3", DriverFor("file::memory:?cache=shared"))
}

func TestContactLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	c := &models.Contact{
		SubAccountID: "tenant-a",
		CreatedBy:    "user-1",
		FirstName:    "Jane",
		LastName:     "Doe",
		Name:         "Jane Doe",
		Email:        "jane@example.com",
		Tags:         []string{"vip", "lead"},
		Status:       "new",
		LeadSource:   "Import",
		Score:        42,
	}
	require.NoError(t, repo.Create(ctx, c))
	require.NotEmpty(t, c.ID)
	assert.False(t, c.CreatedAt.IsZero())

	got, err := repo.Get(ctx, "tenant-a", c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, []string{"vip", "lead"}, got.Tags)
	assert.Equal(t, 42.0, got.Score)

	_, err = repo.Get(ctx, "tenant-b", c.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got.Company = "Acme"
	got.Tags = nil
	require.NoError(t, repo.Update(ctx, got))

	again, err := repo.Get(ctx, "tenant-a", c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", again.Company)
	assert.Equal(t, []string{}, again.Tags)

	require.NoError(t, repo.Delete(ctx, "tenant-a", c.ID))
	assert.ErrorIs(t, repo.Delete(ctx, "tenant-a", c.ID), ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, got), ErrNotFound)
}

func TestListAndListEmails(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	for _, c := range []*models.Contact{
		{SubAccountID: "a", Name: "One", Email: "One@Example.com"},
		{SubAccountID: "a", Name: "Two", Email: "two@example.com"},
		{SubAccountID: "b", Name: "Three", Email: "three@example.com"},
	} {
		require.NoError(t, repo.Create(ctx, c))
	}

	list, err := repo.List(ctx, "a")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "One", list[0].Name)
	assert.Equal(t, "Two", list[1].Name)

	emails, err := repo.ListEmails(ctx, "a")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"one@example.com", "two@example.com"}, emails)

	empty, err := repo.List(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCreateFailure(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectExec("INSERT INTO contacts").WillReturnError(errors.New("connection reset"))

	repo := NewContactRepository(&DB{Conn: conn, Driver: "postgres"})
	c := &models.Contact{SubAccountID: "a", Name: "x", Email: "x@example.com"}
	err = repo.Create(context.Background(), c)

	assert.ErrorContains(t, err, "connection reset")
	assert.Empty(t, c.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListEmailsQueryFailure(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery("SELECT email FROM contacts").WithArgs("a").WillReturnError(errors.New("timeout"))

	repo := NewContactRepository(&DB{Conn: conn, Driver: "postgres"})
	_, err = repo.ListEmails(context.Background(), "a")
	assert.ErrorContains(t, err, "failed to query emails")
	assert.NoError(t, mock.ExpectationsWereMet())
}
