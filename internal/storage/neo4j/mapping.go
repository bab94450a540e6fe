package neo4j

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/honeycarbs/movie-recommender/internal/domain"
)

// Record keys shared by every movie query
const (
	keyMovie  = "m"
	keyGenres = "genres"
	keyUserID = "userId"
	keyNote   = "note"
)

func parseMovieRecords(records []*neo4j.Record) ([]domain.Movie, error) {
	movies := make([]domain.Movie, 0, len(records))
	for i, record := range records {
		movie, err := parseMovie(record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		movies = append(movies, movie)
	}
	return movies, nil
}

func parseRatingRecords(records []*neo4j.Record) ([]domain.Rating, error) {
	ratings := make([]domain.Rating, 0, len(records))
	for i, record := range records {
		rating, err := parseRating(record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		ratings = append(ratings, rating)
	}
	return ratings, nil
}

func parseRating(record *neo4j.Record) (domain.Rating, error) {
	movie, err := parseMovie(record)
	if err != nil {
		return domain.Rating{}, err
	}

	userID, ok := getRecordInt(record, keyUserID)
	if !ok {
		return domain.Rating{}, fmt.Errorf("missing or non-integer %q", keyUserID)
	}

	note, ok := getRecordInt(record, keyNote)
	if !ok {
		return domain.Rating{}, fmt.Errorf("missing or non-integer %q", keyNote)
	}

	return domain.Rating{
		Movie:  movie,
		UserID: domain.UserID(userID),
		Note:   int(note),
	}, nil
}

func parseMovie(record *neo4j.Record) (domain.Movie, error) {
	movieVal, ok := record.Get(keyMovie)
	if !ok {
		return domain.Movie{}, fmt.Errorf("missing %q column", keyMovie)
	}

	movieNode, ok := movieVal.(neo4j.Node)
	if !ok {
		return domain.Movie{}, fmt.Errorf("column %q is %T, want node", keyMovie, movieVal)
	}

	id, ok := getIntProp(movieNode.Props, "id")
	if !ok {
		return domain.Movie{}, fmt.Errorf("movie node without integer id")
	}

	return domain.Movie{
		ID:     domain.MovieID(id),
		Title:  getStringProp(movieNode.Props, "title"),
		Genres: parseGenreNodes(record),
	}, nil
}

// parseGenreNodes reads the collected genre list, dropping nulls and
// duplicate IDs. The result is sorted by genre ID.
func parseGenreNodes(record *neo4j.Record) []domain.Genre {
	genresVal, ok := record.Get(keyGenres)
	if !ok || genresVal == nil {
		return []domain.Genre{}
	}

	genresList, ok := genresVal.([]any)
	if !ok {
		return []domain.Genre{}
	}

	seen := make(map[domain.GenreID]struct{}, len(genresList))
	genres := make([]domain.Genre, 0, len(genresList))
	for _, gv := range genresList {
		genreNode, ok := gv.(neo4j.Node)
		if !ok {
			continue
		}
		id, ok := getIntProp(genreNode.Props, "id")
		if !ok {
			continue
		}
		gid := domain.GenreID(id)
		if _, dup := seen[gid]; dup {
			continue
		}
		seen[gid] = struct{}{}
		genres = append(genres, domain.Genre{
			ID:   gid,
			Name: getStringProp(genreNode.Props, "name"),
		})
	}

	slices.SortFunc(genres, func(a, b domain.Genre) int { return cmp.Compare(a.ID, b.ID) })
	return genres
}

func getStringProp(props map[string]any, key string) string {
	if v, ok := props[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func getIntProp(props map[string]any, key string) (int64, bool) {
	v, ok := props[key]
	if !ok {
		return 0, false
	}
	return toInt64(v)
}

func getRecordInt(record *neo4j.Record, key string) (int64, bool) {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return 0, false
	}
	return toInt64(val)
}

// toInt64 accepts Bolt integers and whole floats, which CSV imports sometimes produce
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}
