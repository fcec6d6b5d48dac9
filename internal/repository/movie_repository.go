package repository

import (
	"database/sql"

	"github.com/moviecrate/moviecrate/internal/models"
)

// upsertMovieSQL inserts the movie if its UUID is unseen, otherwise returns
// the existing record with its stored fields untouched. Single statement so
// concurrent creates referencing the same new UUID cannot double-insert.
const upsertMovieSQL = `
	WITH ins AS (
		INSERT INTO movies (uuid, title, description, genres)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (uuid) DO NOTHING
		RETURNING id, uuid, title, description, genres
	)
	SELECT id, uuid, title, description, genres FROM ins
	UNION ALL
	SELECT id, uuid, title, description, genres FROM movies WHERE uuid = $1
	LIMIT 1`

// rowQuerier lets the upsert run against either the pool or an open
// transaction.
type rowQuerier interface {
	QueryRow(query string, args ...interface{}) *sql.Row
}

func upsertMovie(q rowQuerier, m *models.Movie) error {
	err := q.QueryRow(upsertMovieSQL, m.UUID, m.Title, m.Description, m.Genres).
		Scan(&m.RowID, &m.UUID, &m.Title, &m.Description, &m.Genres)
	if err == sql.ErrNoRows {
		// Under READ COMMITTED a competing insert can commit after our CTE
		// saw the conflict but before the read-back snapshot was taken,
		// leaving both branches empty. The row is committed by now, so one
		// retry resolves it.
		err = q.QueryRow(upsertMovieSQL, m.UUID, m.Title, m.Description, m.Genres).
			Scan(&m.RowID, &m.UUID, &m.Title, &m.Description, &m.Genres)
	}
	return err
}

type MovieRepository struct {
	db *sql.DB
}

func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// UpsertByUUID creates the movie or, if the UUID already exists, loads the
// existing record into m (the supplied title/description/genres are ignored
// in that case).
func (r *MovieRepository) UpsertByUUID(m *models.Movie) error {
	return upsertMovie(r.db, m)
}

func (r *MovieRepository) GetByUUID(id string) (*models.Movie, error) {
	m := &models.Movie{}
	err := r.db.QueryRow(`
		SELECT id, uuid, title, description, genres
		FROM movies WHERE uuid=$1`, id,
	).Scan(&m.RowID, &m.UUID, &m.Title, &m.Description, &m.Genres)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *MovieRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM movies").Scan(&count)
	return count, err
}

// CountOrphans reports movies that belong to no collection. Orphans are
// permitted and never garbage-collected; the count is diagnostic only.
func (r *MovieRepository) CountOrphans() (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM movies m
		WHERE NOT EXISTS (
			SELECT 1 FROM collection_movies cm WHERE cm.movie_id = m.id
		)`).Scan(&count)
	return count, err
}
