package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thriftshopper/thriftshopper-server/internal/errors"
	"github.com/thriftshopper/thriftshopper-server/internal/validation"
)

type TestRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
	Status   string `json:"status" validate:"required,oneof=draft active sold hidden"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	req := TestRequest{
		Title:    "Teak Sideboard",
		ImageURL: "https://example.com/sideboard.jpg",
		Status:   "active",
	}

	err := v.Validate(req)
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name       string
		req        TestRequest
		wantErrMsg string
	}{
		{
			name: "missing required field",
			req: TestRequest{
				Title:  "", // Missing
				Status: "active",
			},
			wantErrMsg: "title",
		},
		{
			name: "invalid url",
			req: TestRequest{
				Title:    "Teak Sideboard",
				ImageURL: "not-a-url",
				Status:   "active",
			},
			wantErrMsg: "image_url",
		},
		{
			name: "invalid status",
			req: TestRequest{
				Title:  "Teak Sideboard",
				Status: "archived",
			},
			wantErrMsg: "status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			assert.Error(t, err)

			var domainErr *errors.Error
			if assert.True(t, errors.As(err, &domainErr)) {
				assert.Equal(t, errors.CodeValidation, domainErr.Code)
				details, ok := domainErr.Details.(map[string]string)
				if assert.True(t, ok) {
					assert.Contains(t, details, tt.wantErrMsg)
				}
			}
		})
	}
}

func TestValidator_JSONFieldNames(t *testing.T) {
	v := validation.New()

	req := TestRequest{
		Title:  "",
		Status: "active",
	}

	err := v.Validate(req)
	assert.Error(t, err)

	var domainErr *errors.Error
	if assert.True(t, errors.As(err, &domainErr)) {
		details, ok := domainErr.Details.(map[string]string)
		if assert.True(t, ok) {
			// Should use JSON tag name "title", not struct field name "Title"
			assert.Contains(t, details, "title")
			assert.NotContains(t, details, "Title")
		}
	}
}
