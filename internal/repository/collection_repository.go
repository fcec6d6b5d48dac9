package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/moviecrate/moviecrate/internal/models"
)

type CollectionRepository struct {
	db *sql.DB
}

func NewCollectionRepository(db *sql.DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

// Create inserts the collection, upserts every referenced movie by UUID and
// links them, all in one transaction so a failure cannot leave an orphaned
// collection behind.
func (r *CollectionRepository) Create(c *models.Collection) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.QueryRow(`
		INSERT INTO collections (uuid, user_id, title, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		c.UUID, c.UserID, c.Title, c.Description,
	).Scan(&c.RowID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return err
	}

	if err := linkMovies(tx, c); err != nil {
		return err
	}
	return tx.Commit()
}

func linkMovies(tx *sql.Tx, c *models.Collection) error {
	for i := range c.Movies {
		m := &c.Movies[i]
		if err := upsertMovie(tx, m); err != nil {
			return fmt.Errorf("upsert movie %s: %w", m.UUID, err)
		}
		if _, err := tx.Exec(`
			INSERT INTO collection_movies (collection_id, movie_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, c.RowID, m.RowID); err != nil {
			return err
		}
	}
	return nil
}

func (r *CollectionRepository) ListByUser(userID uuid.UUID) ([]*models.Collection, error) {
	rows, err := r.db.Query(`
		SELECT id, uuid, title, description, created_at, updated_at
		FROM collections
		WHERE user_id = $1
		ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collections []*models.Collection
	for rows.Next() {
		c := &models.Collection{UserID: userID}
		if err := rows.Scan(&c.RowID, &c.UUID, &c.Title, &c.Description,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, c := range collections {
		if c.Movies, err = r.listMovies(c.RowID); err != nil {
			return nil, err
		}
	}
	return collections, nil
}

// GetByUUID resolves a collection only when it belongs to userID. A missing
// row and a row owned by another user are both ErrNotFound.
func (r *CollectionRepository) GetByUUID(id, userID uuid.UUID) (*models.Collection, error) {
	c := &models.Collection{UserID: userID}
	err := r.db.QueryRow(`
		SELECT id, uuid, title, description, created_at, updated_at
		FROM collections
		WHERE uuid = $1 AND user_id = $2`, id, userID,
	).Scan(&c.RowID, &c.UUID, &c.Title, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if c.Movies, err = r.listMovies(c.RowID); err != nil {
		return nil, err
	}
	return c, nil
}

// Update writes title/description and, when replaceMovies is set, swaps the
// movie set for c.Movies using the same upsert-by-UUID path as Create.
// The write is guarded by owner, like GetByUUID.
func (r *CollectionRepository) Update(c *models.Collection, replaceMovies bool) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRow(`
		UPDATE collections SET title=$1, description=$2, updated_at=NOW()
		WHERE uuid=$3 AND user_id=$4
		RETURNING id, updated_at`,
		c.Title, c.Description, c.UUID, c.UserID,
	).Scan(&c.RowID, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if replaceMovies {
		if _, err := tx.Exec(
			`DELETE FROM collection_movies WHERE collection_id=$1`, c.RowID); err != nil {
			return err
		}
		if err := linkMovies(tx, c); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Delete removes the collection row; link rows go with it via ON DELETE
// CASCADE and movie rows stay.
func (r *CollectionRepository) Delete(id, userID uuid.UUID) error {
	result, err := r.db.Exec(
		`DELETE FROM collections WHERE uuid=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CollectionRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM collections").Scan(&count)
	return count, err
}

func (r *CollectionRepository) listMovies(collectionID int64) ([]models.Movie, error) {
	rows, err := r.db.Query(`
		SELECT m.id, m.uuid, m.title, m.description, m.genres
		FROM movies m
		JOIN collection_movies cm ON cm.movie_id = m.id
		WHERE cm.collection_id = $1
		ORDER BY m.id`, collectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := []models.Movie{}
	for rows.Next() {
		var m models.Movie
		if err := rows.Scan(&m.RowID, &m.UUID, &m.Title, &m.Description, &m.Genres); err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}
