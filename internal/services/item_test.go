package services

import (
	"context"
	"testing"

	"rewear-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

// Invalid listings are rejected before the repository is touched, so a
// nil repository is safe here.
func TestCreateItemValidation(t *testing.T) {
	svc := NewItemService(nil)

	valid := CreateItemInput{
		Title:       "Wool coat",
		Category:    "outerwear",
		Condition:   "good",
		PointsValue: 40,
	}

	tests := []struct {
		name   string
		mutate func(*CreateItemInput)
	}{
		{"missing title", func(in *CreateItemInput) { in.Title = "" }},
		{"unknown category", func(in *CreateItemInput) { in.Category = "gadgets" }},
		{"unknown condition", func(in *CreateItemInput) { in.Condition = "destroyed" }},
		{"zero points value", func(in *CreateItemInput) { in.PointsValue = 0 }},
		{"negative points value", func(in *CreateItemInput) { in.PointsValue = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := svc.CreateItem(context.Background(), "user-1", in)
			assert.ErrorIs(t, err, models.ErrInvalidInput)
		})
	}
}

func TestListItemsUnknownCategory(t *testing.T) {
	svc := NewItemService(nil)

	_, err := svc.ListItems(context.Background(), "gadgets")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}
