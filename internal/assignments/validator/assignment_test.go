package validator

import (
	"testing"
	"time"

	"glowbook/pkg/logger"
	"glowbook/pkg/model"
)

func newTestValidator() *AssignmentValidator {
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
	return NewAssignmentValidator(log)
}

func TestValidateRequests(t *testing.T) {
	v := newTestValidator()

	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		requests []model.AssignmentRequest
		wantErr  bool
	}{
		{
			name: "valid without window",
			requests: []model.AssignmentRequest{
				{ResourceID: "64a000000000000000000002"},
			},
		},
		{
			name: "valid with window",
			requests: []model.AssignmentRequest{
				{ResourceID: "64a000000000000000000002", StartTime: &start, EndTime: &end},
			},
		},
		{
			name:     "empty batch",
			requests: nil,
			wantErr:  true,
		},
		{
			name: "missing resource id",
			requests: []model.AssignmentRequest{
				{},
			},
			wantErr: true,
		},
		{
			name: "malformed resource id",
			requests: []model.AssignmentRequest{
				{ResourceID: "not-an-object-id"},
			},
			wantErr: true,
		},
		{
			name: "start without end",
			requests: []model.AssignmentRequest{
				{ResourceID: "64a000000000000000000002", StartTime: &start},
			},
			wantErr: true,
		},
		{
			name: "inverted window",
			requests: []model.AssignmentRequest{
				{ResourceID: "64a000000000000000000002", StartTime: &end, EndTime: &start},
			},
			wantErr: true,
		},
		{
			name: "one bad entry fails the batch",
			requests: []model.AssignmentRequest{
				{ResourceID: "64a000000000000000000002"},
				{ResourceID: "bad"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateRequests(tt.requests)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRequests() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateResource(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name     string
		resource model.Resource
		wantErr  bool
	}{
		{
			name: "valid resource",
			resource: model.Resource{
				ProviderID: "64a000000000000000000001",
				Name:       "Chair 3",
			},
		},
		{
			name: "valid with group",
			resource: model.Resource{
				ProviderID: "64a000000000000000000001",
				Name:       "Treatment Room A",
				Group:      &model.ResourceGroup{Name: "Rooms", Color: "#ffcc00"},
			},
		},
		{
			name: "missing provider",
			resource: model.Resource{
				Name: "Chair 3",
			},
			wantErr: true,
		},
		{
			name: "name too short",
			resource: model.Resource{
				ProviderID: "64a000000000000000000001",
				Name:       "X",
			},
			wantErr: true,
		},
		{
			name: "bad group color",
			resource: model.Resource{
				ProviderID: "64a000000000000000000001",
				Name:       "Chair 3",
				Group:      &model.ResourceGroup{Name: "Chairs", Color: "yellow-ish"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateResource(&tt.resource)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateResource() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
