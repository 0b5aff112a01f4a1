package render_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/docket/internal/apperror"
	"github.com/MrJamesThe3rd/docket/internal/http/render"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "InvalidFormat", err: apperror.InvalidFormat("date", "bad"), want: http.StatusBadRequest},
		{name: "MissingField", err: apperror.MissingField("name"), want: http.StatusBadRequest},
		{name: "Duplicate", err: apperror.Duplicate("employee_number"), want: http.StatusConflict},
		{name: "NotFound", err: fmt.Errorf("getting employee: %w", apperror.ErrNotFound), want: http.StatusNotFound},
		{name: "ForeignKey", err: apperror.ErrForeignKeyViolation, want: http.StatusConflict},
		{name: "Unavailable", err: apperror.ErrStorageUnavailable, want: http.StatusServiceUnavailable},
		{name: "Other", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render.Status(tt.err))
		})
	}
}

func TestError(t *testing.T) {
	t.Run("FieldError", func(t *testing.T) {
		rec := httptest.NewRecorder()
		render.Error(rec, apperror.MissingField("hire_date"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "hire_date", body["field"])
		assert.Equal(t, "hire_date: is required", body["error"])
	})

	t.Run("InternalHidesDetails", func(t *testing.T) {
		rec := httptest.NewRecorder()
		render.Error(rec, errors.New("pq: secret detail"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
	})
}
