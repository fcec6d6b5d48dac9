// Package genres ranks the genre tokens appearing across a user's
// collections.
package genres

import (
	"sort"
	"strings"

	"github.com/moviecrate/moviecrate/internal/models"
)

// TopN is how many favourite genres collection listings report.
const TopN = 3

// Favourites tallies genre tokens over every (collection, movie) pair and
// returns up to n tokens ordered by descending count. The genre string is
// split on commas exactly as stored: tokens are not trimmed, and an empty
// string contributes one empty token. A movie appearing in several
// collections is counted once per collection. Ties keep first-seen order.
func Favourites(collections []*models.Collection, n int) []string {
	counts := make(map[string]int)
	var order []string

	for _, c := range collections {
		for _, m := range c.Movies {
			for _, g := range strings.Split(m.Genres, ",") {
				if _, seen := counts[g]; !seen {
					order = append(order, g)
				}
				counts[g]++
			}
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > n {
		order = order[:n]
	}
	return order
}
