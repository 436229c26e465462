package observability

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordToken(t *testing.T) {
	m := NewMetrics("test")

	m.RecordToken("snapshot-holders", "")
	m.RecordToken("snapshot-holders", "")
	m.RecordToken("snapshot-holders", "custody")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TokensProcessed.WithLabelValues("snapshot-holders")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TokensSkipped.WithLabelValues("snapshot-holders", "custody")))
}

func TestMetrics_ObserveRPC(t *testing.T) {
	m := NewMetrics("test")

	m.ObserveRPC("getAccountInfo", 10*time.Millisecond, nil)
	m.ObserveRPC("getAccountInfo", 20*time.Millisecond, assert.AnError)

	assert.Equal(t, 1, testutil.CollectAndCount(m.RPCCallLatency))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RPCCallErrors.WithLabelValues("getAccountInfo")))
}

func TestMetrics_RecordRun(t *testing.T) {
	m := NewMetrics("test")

	m.RecordRun("get-hashlist", time.Second, nil)
	m.RecordRun("get-hashlist", time.Second, assert.AnError)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("get-hashlist", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("get-hashlist", "failure")))
	assert.Greater(t, testutil.ToFloat64(m.LastSuccessfulRun.WithLabelValues("get-hashlist")), 0.0)
}

func TestMetrics_HandlerServesRegistry(t *testing.T) {
	m := NewMetrics("test")
	m.CacheHits.Add(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_metadata_cache_hits_total 3")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "debug", LogFormatJSON)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.WithField("token", "TokenA").Debug("hello")
	assert.True(t, strings.Contains(buf.String(), `"token":"TokenA"`), buf.String())

	logger, err = NewLogger("", "")
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())

	_, err = NewLogger("loud", "")
	assert.Error(t, err)
	_, err = NewLogger("info", "xml")
	assert.Error(t, err)
}
