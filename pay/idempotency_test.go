package pay

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"verso/models"

	"github.com/stretchr/testify/assert"
)

func TestComputeRequestHashStable(t *testing.T) {
	body := []byte(`{"items":[{"productid":"p1","quantity":2}]}`)
	a := computeRequestHash(http.MethodPost, "/api/order/place", body, "u1")
	b := computeRequestHash(http.MethodPost, "/api/order/place", body, "u1")
	assert.Equal(t, a, b)
}

func TestComputeRequestHashSensitivity(t *testing.T) {
	body := []byte(`{"items":[]}`)
	base := computeRequestHash(http.MethodPost, "/api/order/place", body, "u1")

	assert.NotEqual(t, base, computeRequestHash(http.MethodPost, "/api/order/place", []byte(`{"items":[1]}`), "u1"))
	assert.NotEqual(t, base, computeRequestHash(http.MethodPost, "/api/order/place", body, "u2"))
	assert.NotEqual(t, base, computeRequestHash(http.MethodPost, "/api/order/cancel", body, "u1"))
	assert.NotEqual(t, base, computeRequestHash(http.MethodPut, "/api/order/place", body, "u1"))
}

func TestCaptureResponseWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	crw := NewCaptureResponseWriter(rec)

	crw.WriteHeader(http.StatusCreated)
	_, err := crw.Write([]byte(`{"success":true}`))
	assert.NoError(t, err)

	assert.Equal(t, http.StatusCreated, crw.Status())
	assert.Equal(t, `{"success":true}`, string(crw.BodyBytes()))
	// the wrapped writer still sees everything
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, `{"success":true}`, rec.Body.String())
}

func TestCaptureResponseWriterDefaultStatus(t *testing.T) {
	crw := NewCaptureResponseWriter(httptest.NewRecorder())
	_, _ = crw.Write([]byte("ok"))
	assert.Equal(t, http.StatusOK, crw.Status())
}

func TestClassifyReplay(t *testing.T) {
	recorded := map[string]interface{}{"status": int32(201), "body": map[string]interface{}{"success": true}}

	tests := []struct {
		name     string
		existing models.IdempotencyRecord
		reqHash  string
		want     replayKind
	}{
		{
			name:     "different request body is a conflict",
			existing: models.IdempotencyRecord{RequestHash: "aaa", Response: recorded},
			reqHash:  "bbb",
			want:     replayConflict,
		},
		{
			name:     "same request with no recorded response is still in flight",
			existing: models.IdempotencyRecord{RequestHash: "aaa"},
			reqHash:  "aaa",
			want:     replayInFlight,
		},
		{
			name:     "same request with a recorded response replays it",
			existing: models.IdempotencyRecord{RequestHash: "aaa", Response: recorded},
			reqHash:  "aaa",
			want:     replayCached,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyReplay(tt.existing, tt.reqHash))
		})
	}
}

func TestResponseStatus(t *testing.T) {
	assert.Equal(t, 201, responseStatus(map[string]interface{}{"status": int32(201)}))
	assert.Equal(t, 201, responseStatus(map[string]interface{}{"status": int64(201)}))
	assert.Equal(t, 201, responseStatus(map[string]interface{}{"status": float64(201)}))
	assert.Equal(t, http.StatusOK, responseStatus(map[string]interface{}{}))
}

func TestCaptureResponseWriterIgnoresSecondHeader(t *testing.T) {
	crw := NewCaptureResponseWriter(httptest.NewRecorder())
	crw.WriteHeader(http.StatusAccepted)
	crw.WriteHeader(http.StatusInternalServerError)
	assert.Equal(t, http.StatusAccepted, crw.Status())
}
