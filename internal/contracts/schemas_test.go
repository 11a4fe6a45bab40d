package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateKeyFromPath(t *testing.T) {
	assert.Equal(t, "ListingSubmittedEvent/1.0.0", generateKeyFromPath("events/listing-submitted/v1.json"))
	assert.Equal(t, "", generateKeyFromPath("events/v1.json"))
}

func TestValidateEvent(t *testing.T) {
	tests := []struct {
		name    string
		version string
		body    string
		wantErr bool
	}{
		{"valid", "1.0.0", `{"listing_id": 42, "owner_email": "seller@example.lk", "category": "Vehicle", "title": "Honda Civic", "submitted_at": "2026-10-16T08:00:00Z"}`, false},
		{"unknown version", "2.0.0", `{}`, true},
		{"missing listing id", "1.0.0", `{"owner_email": "seller@example.lk", "category": "Vehicle", "submitted_at": "2026-10-16T08:00:00Z"}`, true},
		{"bad category", "1.0.0", `{"listing_id": 1, "owner_email": "seller@example.lk", "category": "Boats", "submitted_at": "2026-10-16T08:00:00Z"}`, true},
		{"bad email", "1.0.0", `{"listing_id": 1, "owner_email": "nobody", "category": "Job", "submitted_at": "2026-10-16T08:00:00Z"}`, true},
		{"bad timestamp", "1.0.0", `{"listing_id": 1, "owner_email": "a@b.lk", "category": "Job", "submitted_at": "yesterday"}`, true},
		{"not json", "1.0.0", `{`, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateEvent("ListingSubmittedEvent", tc.version, []byte(tc.body))
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
