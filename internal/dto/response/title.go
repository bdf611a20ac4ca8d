package response

import "yamdb/internal/data/entity"

type TitleResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Rating      *float64          `json:"rating"` // null until the first review
	Description *string           `json:"description"`
	Genre       []GenreResponse   `json:"genre"`
	Category    *CategoryResponse `json:"category"`
}

func TitleToResponse(title *entity.Title, rating *float64, genres []*entity.Genre, category *entity.Category) TitleResponse {
	resp := TitleResponse{
		ID:          title.ID.String(),
		Name:        title.Name,
		Year:        title.Year,
		Rating:      rating,
		Description: title.Description,
		Genre:       make([]GenreResponse, 0, len(genres)),
	}

	for _, g := range genres {
		resp.Genre = append(resp.Genre, GenreToResponse(g))
	}

	if category != nil {
		c := CategoryToResponse(category)
		resp.Category = &c
	}

	return resp
}
