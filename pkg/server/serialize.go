package server

import (
	"time"

	"github.com/shopspring/decimal"

	"wineraise.dev/WineRaise/pkg/model"
)

// Wire representations. Wine payloads follow the sparse policy: fields
// with no value are omitted rather than rendered as null.

type WineResponse struct {
	ID           uint             `json:"id"`
	Libraries    []uint           `json:"libraries"`
	Tags         []uint           `json:"tags"`
	Reviews      []uint           `json:"reviews"`
	PointAverage decimal.Decimal  `json:"point_average"`
	Name         string           `json:"name"`
	Description  *string          `json:"description,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	Designation  *string          `json:"designation,omitempty"`
	Variety      *string          `json:"variety,omitempty"`
	Region1      *string          `json:"region_1,omitempty"`
	Region2      *string          `json:"region_2,omitempty"`
	Province     *string          `json:"province,omitempty"`
	Country      *string          `json:"country,omitempty"`
	Winery       *string          `json:"winery,omitempty"`
}

type WineDetailResponse struct {
	ID           uint              `json:"id"`
	Libraries    []LibraryResponse `json:"libraries"`
	Tags         []TagResponse     `json:"tags"`
	Reviews      []ReviewResponse  `json:"reviews"`
	PointAverage decimal.Decimal   `json:"point_average"`
	Name         string            `json:"name"`
	Description  *string           `json:"description,omitempty"`
	Price        *decimal.Decimal  `json:"price,omitempty"`
	Designation  *string           `json:"designation,omitempty"`
	Variety      *string           `json:"variety,omitempty"`
	Region1      *string           `json:"region_1,omitempty"`
	Region2      *string           `json:"region_2,omitempty"`
	Province     *string           `json:"province,omitempty"`
	Country      *string           `json:"country,omitempty"`
	Winery       *string           `json:"winery,omitempty"`
}

type LibraryResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Public      bool      `json:"public"`
	Wines       []uint    `json:"wines"`
	CreatedAt   time.Time `json:"created_at"`
}

type TagResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ReviewResponse struct {
	ID        uint      `json:"id"`
	Wine      uint      `json:"wine"`
	Points    uint      `json:"points"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FoundWineResponse carries a wine scraped from an external catalogue.
// These wines are not persisted, so there is no id.
type FoundWineResponse struct {
	Name        string           `json:"name"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Designation *string          `json:"designation,omitempty"`
	Variety     *string          `json:"variety,omitempty"`
	Region1     *string          `json:"region_1,omitempty"`
	Region2     *string          `json:"region_2,omitempty"`
	Province    *string          `json:"province,omitempty"`
	Country     *string          `json:"country,omitempty"`
	Winery      *string          `json:"winery,omitempty"`
	Source      string           `json:"source"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func WineFromModel(wine *model.Wine) WineResponse {
	response := WineResponse{
		ID:           wine.ID,
		Libraries:    make([]uint, 0, len(wine.Libraries)),
		Tags:         make([]uint, 0, len(wine.Tags)),
		Reviews:      make([]uint, 0, len(wine.Reviews)),
		PointAverage: wine.PointAverage,
		Name:         wine.Name,
		Description:  wine.Description,
		Price:        wine.Price,
		Designation:  wine.Designation,
		Variety:      wine.Variety,
		Region1:      wine.Region1,
		Region2:      wine.Region2,
		Province:     wine.Province,
		Country:      wine.Country,
		Winery:       wine.Winery,
	}

	for _, library := range wine.Libraries {
		response.Libraries = append(response.Libraries, library.ID)
	}

	for _, tag := range wine.Tags {
		response.Tags = append(response.Tags, tag.ID)
	}

	for _, review := range wine.Reviews {
		response.Reviews = append(response.Reviews, review.ID)
	}

	return response
}

func WinesFromModel(wines []*model.Wine) []WineResponse {
	responses := make([]WineResponse, 0, len(wines))

	for _, wine := range wines {
		responses = append(responses, WineFromModel(wine))
	}

	return responses
}

func WineDetailFromModel(wine *model.Wine) WineDetailResponse {
	response := WineDetailResponse{
		ID:           wine.ID,
		Libraries:    make([]LibraryResponse, 0, len(wine.Libraries)),
		Tags:         make([]TagResponse, 0, len(wine.Tags)),
		Reviews:      make([]ReviewResponse, 0, len(wine.Reviews)),
		PointAverage: wine.PointAverage,
		Name:         wine.Name,
		Description:  wine.Description,
		Price:        wine.Price,
		Designation:  wine.Designation,
		Variety:      wine.Variety,
		Region1:      wine.Region1,
		Region2:      wine.Region2,
		Province:     wine.Province,
		Country:      wine.Country,
		Winery:       wine.Winery,
	}

	for index := range wine.Libraries {
		response.Libraries = append(response.Libraries, LibraryFromModel(&wine.Libraries[index]))
	}

	for index := range wine.Tags {
		response.Tags = append(response.Tags, TagFromModel(&wine.Tags[index]))
	}

	for index := range wine.Reviews {
		response.Reviews = append(response.Reviews, ReviewFromModel(&wine.Reviews[index]))
	}

	return response
}

func LibraryFromModel(library *model.Library) LibraryResponse {
	response := LibraryResponse{
		ID:          library.ID,
		Name:        library.Name,
		Description: library.Description,
		Public:      library.Public,
		Wines:       make([]uint, 0, len(library.Wines)),
		CreatedAt:   library.CreatedAt,
	}

	for _, wine := range library.Wines {
		response.Wines = append(response.Wines, wine.ID)
	}

	return response
}

func LibrariesFromModel(libraries []*model.Library) []LibraryResponse {
	responses := make([]LibraryResponse, 0, len(libraries))

	for _, library := range libraries {
		responses = append(responses, LibraryFromModel(library))
	}

	return responses
}

func TagFromModel(tag *model.Tag) TagResponse {
	return TagResponse{
		ID:        tag.ID,
		Name:      tag.Name,
		CreatedAt: tag.CreatedAt,
		UpdatedAt: tag.UpdatedAt,
	}
}

func TagsFromModel(tags []*model.Tag) []TagResponse {
	responses := make([]TagResponse, 0, len(tags))

	for _, tag := range tags {
		responses = append(responses, TagFromModel(tag))
	}

	return responses
}

func ReviewFromModel(review *model.Review) ReviewResponse {
	return ReviewResponse{
		ID:        review.ID,
		Wine:      review.WineID,
		Points:    review.Points,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}
}

func FoundWinesFromModel(wines []model.Wine, source string) []FoundWineResponse {
	responses := make([]FoundWineResponse, 0, len(wines))

	for _, wine := range wines {
		responses = append(responses, FoundWineResponse{
			Name:        wine.Name,
			Description: wine.Description,
			Price:       wine.Price,
			Designation: wine.Designation,
			Variety:     wine.Variety,
			Region1:     wine.Region1,
			Region2:     wine.Region2,
			Province:    wine.Province,
			Country:     wine.Country,
			Winery:      wine.Winery,
			Source:      source,
		})
	}

	return responses
}

func UserFromModel(user *model.User) UserResponse {
	return UserResponse{
		ID:    user.UUID.String(),
		Email: user.Email,
		Name:  user.Name,
	}
}
