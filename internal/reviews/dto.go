package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/prajwalbasnet/kinmel-backend/pkg/db/models"
)

// ReviewDTO is the wire representation of a product review.
type ReviewDTO struct {
	ID            uuid.UUID `json:"id"`
	ProductID     uuid.UUID `json:"product"`
	UserID        uuid.UUID `json:"user"`
	QualityRating int       `json:"quality_rating"`
	ValueRating   int       `json:"value_rating"`
	Size          string    `json:"size"`
	Comment       string    `json:"comment"`
	ImageURL      *string   `json:"image,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateReviewRequest is the payload for reviewing a product.
type CreateReviewRequest struct {
	QualityRating int     `json:"quality_rating" validate:"required,min=1,max=5"`
	ValueRating   int     `json:"value_rating" validate:"required,min=1,max=5"`
	Size          string  `json:"size" validate:"required,max=20"`
	Comment       string  `json:"comment" validate:"max=2000"`
	ImageURL      *string `json:"image" validate:"omitempty,url"`
}

func FromModel(r *models.Review) *ReviewDTO {
	if r == nil {
		return nil
	}
	return &ReviewDTO{
		ID:            r.ID,
		ProductID:     r.ProductID,
		UserID:        r.UserID,
		QualityRating: r.QualityRating,
		ValueRating:   r.ValueRating,
		Size:          r.Size,
		Comment:       r.Comment,
		ImageURL:      r.ImageURL,
		CreatedAt:     r.CreatedAt,
	}
}

func FromModels(rows []models.Review) []ReviewDTO {
	out := make([]ReviewDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
