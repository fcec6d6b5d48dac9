// Package scheduler runs periodic background jobs.
package scheduler

import (
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/moviecrate/moviecrate/internal/repository"
)

// StatsReporter periodically logs row counts for the main tables. The
// numbers are diagnostic only and never surface through the API.
type StatsReporter struct {
	users       *repository.UserRepository
	collections *repository.CollectionRepository
	movies      *repository.MovieRepository
	log         zerolog.Logger
	cron        *cron.Cron
}

func NewStatsReporter(users *repository.UserRepository, collections *repository.CollectionRepository, movies *repository.MovieRepository, log zerolog.Logger) *StatsReporter {
	return &StatsReporter{
		users:       users,
		collections: collections,
		movies:      movies,
		log:         log,
		cron:        cron.New(),
	}
}

// Start schedules the report with a cron spec such as "@hourly".
func (r *StatsReporter) Start(spec string) error {
	if _, err := r.cron.AddFunc(spec, r.report); err != nil {
		return err
	}
	r.cron.Start()
	return nil
}

func (r *StatsReporter) Stop() {
	r.cron.Stop()
}

func (r *StatsReporter) report() {
	users, err := r.users.Count()
	if err != nil {
		r.log.Error().Err(err).Msg("stats: failed to count users")
		return
	}
	collections, err := r.collections.Count()
	if err != nil {
		r.log.Error().Err(err).Msg("stats: failed to count collections")
		return
	}
	movies, err := r.movies.Count()
	if err != nil {
		r.log.Error().Err(err).Msg("stats: failed to count movies")
		return
	}
	orphans, err := r.movies.CountOrphans()
	if err != nil {
		r.log.Error().Err(err).Msg("stats: failed to count orphaned movies")
		return
	}

	r.log.Info().
		Int("users", users).
		Int("collections", collections).
		Int("movies", movies).
		Int("orphaned_movies", orphans).
		Msg("database stats")
}
