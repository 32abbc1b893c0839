package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindSurvivesWrapping(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("book: %w", StoreUnavailable(cause))

	assert.True(t, IsKind(err, KindStoreUnavailable))
	assert.Equal(t, "store_unavailable", CodeOf(err))
	assert.ErrorIs(t, err, cause)
	assert.False(t, IsKind(errors.New("plain"), KindValidation))
}

func TestFromError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", Validation("service_not_found"), http.StatusBadRequest, "service_not_found"},
		{"wrapped validation", fmt.Errorf("list: %w", Validation("invalid_date")), http.StatusBadRequest, "invalid_date"},
		{"slot taken", SlotTaken(), http.StatusConflict, "slot_taken"},
		{"invalid slot", InvalidSlot("too_soon"), http.StatusUnprocessableEntity, "too_soon"},
		{"invalid state", InvalidState("invalid_transition"), http.StatusConflict, "invalid_transition"},
		{"not found", NotFound("appointment_not_found"), http.StatusNotFound, "appointment_not_found"},
		{"store", StoreUnavailable(errors.New("timeout")), http.StatusServiceUnavailable, "store_unavailable"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			FromError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body HTTPError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}
