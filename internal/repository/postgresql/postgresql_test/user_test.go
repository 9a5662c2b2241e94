package postgresql_test

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	c := seedCompany(t, db)
	repo := postgresql.NewUserRepository(db)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	created, err := repo.Create(ctx, user.User{
		CompanyID:    c.ID,
		Email:        "owner@cmlabs.co",
		PasswordHash: string(hash),
		Role:         user.RoleOwner,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, user.RoleOwner, created.Role)

	byEmail, err := repo.GetByEmail(ctx, "owner@cmlabs.co")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(byEmail.PasswordHash), []byte("password123")))

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, byID.CompanyID)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	c := seedCompany(t, db)
	repo := postgresql.NewUserRepository(db)

	u := user.User{CompanyID: c.ID, Email: "dup@cmlabs.co", PasswordHash: "x", Role: user.RoleEmployee}
	_, err := repo.Create(ctx, u)
	require.NoError(t, err)

	_, err = repo.Create(ctx, u)
	assert.ErrorIs(t, err, user.ErrUserEmailExists)
}

func TestUserRepository_NotFound(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(db)

	_, err := repo.GetByEmail(ctx, "nobody@cmlabs.co")
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserRepository_ListByCompany(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := seedCompany(t, db)
	b := seedCompany(t, db)
	repo := postgresql.NewUserRepository(db)

	for _, email := range []string{"a1@cmlabs.co", "a2@cmlabs.co"} {
		_, err := repo.Create(ctx, user.User{CompanyID: a.ID, Email: email, PasswordHash: "x", Role: user.RoleManager})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, user.User{CompanyID: b.ID, Email: "b1@cmlabs.co", PasswordHash: "x", Role: user.RoleOwner})
	require.NoError(t, err)

	users, err := repo.ListByCompany(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestUserRepository_LinkGoogleAccount(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	c := seedCompany(t, db)
	repo := postgresql.NewUserRepository(db)

	alice, err := repo.Create(ctx, user.User{CompanyID: c.ID, Email: "alice@cmlabs.co", PasswordHash: "x", Role: user.RoleManager})
	require.NoError(t, err)
	assert.Nil(t, alice.GoogleID)
	bob, err := repo.Create(ctx, user.User{CompanyID: c.ID, Email: "bob@cmlabs.co", PasswordHash: "x", Role: user.RoleEmployee})
	require.NoError(t, err)

	linked, err := repo.LinkGoogleAccount(ctx, alice.ID, "google-alice")
	require.NoError(t, err)
	require.NotNil(t, linked.GoogleID)
	assert.Equal(t, "google-alice", *linked.GoogleID)

	found, err := repo.GetByEmail(ctx, "alice@cmlabs.co")
	require.NoError(t, err)
	require.NotNil(t, found.GoogleID)
	assert.Equal(t, "google-alice", *found.GoogleID)

	_, err = repo.LinkGoogleAccount(ctx, bob.ID, "google-alice")
	assert.ErrorIs(t, err, user.ErrGoogleAccountLinked)

	_, err = repo.LinkGoogleAccount(ctx, uuid.NewString(), "google-nobody")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
