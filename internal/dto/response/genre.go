package response

import "media-review/internal/data/entity"

type GenreResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Helper converter
func GenreToResponse(genre *entity.Genre) GenreResponse {
	return GenreResponse{
		Name: genre.Name,
		Slug: genre.Slug,
	}
}

func GenresToResponse(genres []*entity.Genre) []GenreResponse {
	result := make([]GenreResponse, 0, len(genres))
	for _, genre := range genres {
		result = append(result, GenreToResponse(genre))
	}
	return result
}
