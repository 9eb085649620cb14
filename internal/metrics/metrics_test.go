package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowdesk/internal/bridge"
	"flowdesk/internal/domain"
	"flowdesk/internal/service"
)

func TestCallStatus(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, StatusOK},
		{fmt.Errorf("%w: title is required", domain.ErrInvalidParams), StatusInvalid},
		{fmt.Errorf("%w: missing Home", domain.ErrMalformedDocument), StatusInvalid},
		{fmt.Errorf("%w: %w", bridge.ErrRendering, context.DeadlineExceeded), StatusTimeout},
		{bridge.ErrClosed, StatusClosed},
		{&bridge.RemoteError{Method: "zoomIn", Message: "boom"}, StatusError},
		{errors.New("other"), StatusError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CallStatus(tt.err), "error %v", tt.err)
	}
}

func TestObserveCall(t *testing.T) {
	c := NewCollector()

	c.ObserveCall(bridge.MethodExportData, 10*time.Millisecond, nil)
	c.ObserveCall(bridge.MethodExportData, 30*time.Second, context.DeadlineExceeded)
	c.ObserveCall(bridge.MethodAddTemplateNode, 0, domain.ErrInvalidParams)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.BridgeCalls.WithLabelValues(bridge.MethodExportData, StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.BridgeCalls.WithLabelValues(bridge.MethodExportData, StatusTimeout)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.BridgeCalls.WithLabelValues(bridge.MethodAddTemplateNode, StatusInvalid)))
	assert.Equal(t, 1, testutil.CollectAndCount(c.BridgeDuration))
}

func TestConsume(t *testing.T) {
	c := NewCollector()
	events := make(chan service.Event, 4)
	events <- service.Event{Type: service.EventNodeAdded}
	events <- service.Event{Type: service.EventNodeAdded}
	events <- service.Event{Type: service.EventSnapshotSaved}
	close(events)

	c.Consume(context.Background(), events)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.EditorEvents.WithLabelValues(string(service.EventNodeAdded))))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.SnapshotsSaved))
}

func TestHandler(t *testing.T) {
	c := NewCollector()
	c.RegisterSessions(func() int { return 3 })
	c.ObserveRequest("GET", "/api/snapshots", 200, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "flowdesk_sessions 3")
	assert.True(t, strings.Contains(body, `flowdesk_http_requests_total{method="GET",route="/api/snapshots",status="200"} 1`), body)
}
