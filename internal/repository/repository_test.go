package repository

import (
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviecrate/moviecrate/internal/db"
	"github.com/moviecrate/moviecrate/internal/models"
)

// setupTestDB connects to the database named by TEST_DATABASE_URL, applies
// the migrations and truncates all tables. Tests are skipped when no test
// database is configured.
func setupTestDB(t *testing.T) *db.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	database, err := db.Connect(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.Migrate(database, "../../migrations"))
	_, err = database.Exec(
		"TRUNCATE users, movies, collections, collection_movies RESTART IDENTITY CASCADE")
	require.NoError(t, err)

	return database
}

func createTestUser(t *testing.T, users *UserRepository, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, PasswordHash: "x"}
	require.NoError(t, users.Create(u))
	return u
}

func newCollection(userID uuid.UUID, title string, movies ...models.Movie) *models.Collection {
	return &models.Collection{
		UUID:        uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: title + " description",
		Movies:      movies,
	}
}

func TestMovieUpsertSharedAcrossCollections(t *testing.T) {
	database := setupTestDB(t)
	users := NewUserRepository(database.DB)
	movies := NewMovieRepository(database.DB)
	collections := NewCollectionRepository(database.DB)

	user := createTestUser(t, users, "alice")
	movieID := uuid.New()

	first := newCollection(user.ID, "First", models.Movie{
		UUID:        movieID,
		Title:       "Heat",
		Description: "Crime drama",
		Genres:      "Action,Crime",
	})
	require.NoError(t, collections.Create(first))

	// Second collection references the same UUID with different fields; the
	// stored record must win and no second row may appear.
	second := newCollection(user.ID, "Second", models.Movie{
		UUID:   movieID,
		Title:  "Heat (different title)",
		Genres: "Other",
	})
	require.NoError(t, collections.Create(second))

	count, err := movies.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.Len(t, first.Movies, 1)
	require.Len(t, second.Movies, 1)
	assert.Equal(t, first.Movies[0].RowID, second.Movies[0].RowID)
	assert.Equal(t, "Heat", second.Movies[0].Title)
	assert.Equal(t, "Action,Crime", second.Movies[0].Genres)

	stored, err := movies.GetByUUID(movieID.String())
	require.NoError(t, err)
	assert.Equal(t, "Heat", stored.Title)
}

func TestUpsertByUUIDIdempotent(t *testing.T) {
	database := setupTestDB(t)
	movies := NewMovieRepository(database.DB)

	m := &models.Movie{UUID: uuid.New(), Title: "Solaris", Genres: "Sci-Fi"}
	require.NoError(t, movies.UpsertByUUID(m))
	firstRowID := m.RowID

	again := &models.Movie{UUID: m.UUID, Title: "Renamed", Genres: "Drama"}
	require.NoError(t, movies.UpsertByUUID(again))

	assert.Equal(t, firstRowID, again.RowID)
	assert.Equal(t, "Solaris", again.Title)
	assert.Equal(t, "Sci-Fi", again.Genres)

	count, err := movies.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDeleteCollectionKeepsMovies(t *testing.T) {
	database := setupTestDB(t)
	users := NewUserRepository(database.DB)
	movies := NewMovieRepository(database.DB)
	collections := NewCollectionRepository(database.DB)

	user := createTestUser(t, users, "bob")
	movieID := uuid.New()

	c := newCollection(user.ID, "Doomed", models.Movie{
		UUID:   movieID,
		Title:  "Stalker",
		Genres: "Sci-Fi,Drama",
	})
	require.NoError(t, collections.Create(c))

	require.NoError(t, collections.Delete(c.UUID, user.ID))

	_, err := collections.GetByUUID(c.UUID, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// The movie row survives the collection and is now orphaned.
	stored, err := movies.GetByUUID(movieID.String())
	require.NoError(t, err)
	assert.Equal(t, "Stalker", stored.Title)

	orphans, err := movies.CountOrphans()
	require.NoError(t, err)
	assert.Equal(t, 1, orphans)

	// A new collection can link the surviving row again.
	relinked := newCollection(user.ID, "Revived", models.Movie{UUID: movieID, Title: "ignored"})
	require.NoError(t, collections.Create(relinked))

	count, err := movies.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := collections.GetByUUID(relinked.UUID, user.ID)
	require.NoError(t, err)
	require.Len(t, got.Movies, 1)
	assert.Equal(t, "Stalker", got.Movies[0].Title)

	orphans, err = movies.CountOrphans()
	require.NoError(t, err)
	assert.Equal(t, 0, orphans)
}

func TestOwnershipGuard(t *testing.T) {
	database := setupTestDB(t)
	users := NewUserRepository(database.DB)
	collections := NewCollectionRepository(database.DB)

	owner := createTestUser(t, users, "owner")
	other := createTestUser(t, users, "other")

	c := newCollection(owner.ID, "Private")
	require.NoError(t, collections.Create(c))

	_, err := collections.GetByUUID(c.UUID, other.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, collections.Delete(c.UUID, other.ID), ErrNotFound)

	// Still intact for the owner.
	got, err := collections.GetByUUID(c.UUID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Private", got.Title)
}

func TestCreateDuplicateUsername(t *testing.T) {
	database := setupTestDB(t)
	users := NewUserRepository(database.DB)

	createTestUser(t, users, "taken")

	err := users.Create(&models.User{Username: "taken", PasswordHash: "y"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}
