package model

import "time"

// Resource is a bookable asset owned by a provider: a staff member, a
// chair, a treatment room.
type Resource struct {
	ID         string         `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ProviderID string         `json:"provider_id" bson:"provider_id" validate:"required,mongodb"`
	Name       string         `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Group      *ResourceGroup `json:"group,omitempty" bson:"group,omitempty" validate:"omitempty"`
	Active     bool           `json:"active" bson:"active"`
	CreatedAt  time.Time      `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type ResourceGroup struct {
	Name  string `json:"name" bson:"name" validate:"required,min=2,max=50"`
	Color string `json:"color,omitempty" bson:"color,omitempty" validate:"omitempty,hexcolor"`
}

type ResourceUpdate struct {
	Name   string         `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Group  *ResourceGroup `json:"group,omitempty" validate:"omitempty"`
	Active *bool          `json:"active,omitempty"`
}
