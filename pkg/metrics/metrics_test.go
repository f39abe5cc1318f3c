package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/frame"
	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/link"
)

func TestMetrics_ObserveOutcome(t *testing.T) {
	m := New()
	reg := frame.NewRegistry(frame.NewCRC32Table())
	p := link.NewPipeline(reg, link.WithObserver(m))

	ham, err := frame.BuildFrame(reg, frame.CodecHamming, frame.FromBytes([]byte("A")))
	require.NoError(t, err)
	noisy, _ := ham.Flip(3)
	crc, err := frame.BuildFrame(reg, frame.CodecCRC32, frame.FromBytes([]byte("A")))
	require.NoError(t, err)
	bad, _ := crc.Flip(1)

	p.Process(ham, frame.CodecHamming)
	p.Process(noisy, frame.CodecHamming)
	p.Process(crc, frame.CodecCRC32)
	p.Process(bad, frame.CodecCRC32)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.messagesTotal.WithLabelValues("hamming", "delivered")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.messagesTotal.WithLabelValues("crc32", "delivered")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.messagesTotal.WithLabelValues("crc32", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.correctedTotal.WithLabelValues("hamming")))
	assert.Equal(t, float64(2*ham.Len()), testutil.ToFloat64(m.receivedBits.WithLabelValues("hamming")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	p := link.NewPipeline(frame.NewRegistry(frame.NewCRC32Table()), link.WithObserver(m))
	p.ProcessBits("01x", frame.CodecCRC32)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `receptor_messages_total{codec="crc32",state="rejected"} 1`), body)
	assert.Contains(t, body, "receptor_process_duration_seconds_bucket")
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
