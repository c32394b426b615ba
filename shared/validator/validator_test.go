package validator_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alhamw/vehicle-booking-system-sub000/shared/validator"
)

type decisionPayload struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
	Comments string `json:"comments" validate:"omitempty,max=500"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name: "valid payload",
			body: `{"decision":"approved","comments":"looks fine"}`,
		},
		{
			name:    "missing decision",
			body:    `{"comments":"no decision"}`,
			wantErr: true,
		},
		{
			name:    "unknown decision value",
			body:    `{"decision":"maybe"}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			body:    `{"decision":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := decisionPayload{}
			err := validator.Validate(strings.NewReader(tt.body), &payload)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateVar_Role(t *testing.T) {
	assert.NoError(t, validator.ValidateVar("approver_l1", "role"))
	assert.Error(t, validator.ValidateVar("superuser", "role"))
}
