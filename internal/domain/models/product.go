package models

import "time"

// Product is the row shape returned by the product repository, relations included.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	Stock       int
	Owner       UserSummary
	Categories  []Category
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ProductResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       float64           `json:"price"`
	Stock       int               `json:"stock"`
	User        UserSummary       `json:"user"`
	Categories  []CategorySummary `json:"categories"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

type CategorySummary struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	CategoryIDs []int64 `json:"categoryIds"`
}

type UpdateProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	CategoryIDs []int64 `json:"categoryIds"`
}

// PatchProductInput applies only the keys that are present.
type PatchProductInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
}

// ProductToResponse maps a repository row to the API record.
func ProductToResponse(p Product) ProductResponse {
	cats := make([]CategorySummary, 0, len(p.Categories))
	for _, c := range p.Categories {
		cats = append(cats, CategorySummary{ID: c.ID, Name: c.Name, Description: c.Description})
	}
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		User:        p.Owner,
		Categories:  cats,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
