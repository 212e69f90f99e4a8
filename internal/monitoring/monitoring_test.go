package monitoring

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JimLiu0/provider-dashboard/config"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_IsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Init()
		Init()
	})
}

func TestHandler_ExposesCollectors(t *testing.T) {
	Init()
	PatientSubmissions.WithLabelValues(SubmissionAccepted).Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "patient_submissions_total")
}

func TestPatientSubmissions_Counts(t *testing.T) {
	before := testutil.ToFloat64(PatientSubmissions.WithLabelValues(SubmissionRejected))
	PatientSubmissions.WithLabelValues(SubmissionRejected).Inc()
	after := testutil.ToFloat64(PatientSubmissions.WithLabelValues(SubmissionRejected))
	assert.Equal(t, before+1, after)
}

func TestSentry_DisabledWithoutDSN(t *testing.T) {
	require.NoError(t, InitSentry(config.Config{}))
	assert.NotPanics(t, func() {
		CaptureError(errors.New("boom"), map[string]any{"op": "insert"})
		FlushSentry()
	})
}
