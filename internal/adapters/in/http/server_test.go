package http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpserver "swiftlogistics/internal/adapters/in/http"
	apptracking "swiftlogistics/internal/core/application/tracking"
	"swiftlogistics/internal/core/application/usecases/commands"
	"swiftlogistics/internal/core/application/usecases/queries"
	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/core/domain/model/tracking"
)

type capturingReporter struct {
	reported []tracking.DriverLocation
}

func (r *capturingReporter) ReportLocation(_ context.Context, location tracking.DriverLocation) error {
	r.reported = append(r.reported, location)
	return nil
}

type stubEstimator struct {
	result apptracking.ETAResult
}

func (e *stubEstimator) EstimateArrival(
	_ context.Context,
	_ kernel.UUID,
	_ string,
) (apptracking.ETAResult, error) {
	return e.result, nil
}

func newTestServer(reporter *capturingReporter, estimator *stubEstimator) *echo.Echo {
	server := httpserver.NewServer(
		commands.ProcessOrderCommandHandler{},
		commands.AssignOrdersCommandHandler{},
		commands.NewReportLocationCommandHandler(reporter),
		commands.StartRouteCommandHandler{},
		commands.CompleteDeliveryCommandHandler{},
		queries.NewEstimateArrivalQueryHandler(estimator),
		queries.GetActiveDeliveriesQueryHandler{},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	e := echo.New()
	server.RegisterRoutes(e)
	return e
}

func TestReportLocation_RecordsValidReport(t *testing.T) {
	reporter := &capturingReporter{}
	e := newTestServer(reporter, &stubEstimator{})
	driverID := kernel.NewUUID()

	body := `{"latitude":6.9271,"longitude":79.8612,"speedKmh":32,"headingDeg":180}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/drivers/"+driverID.String()+"/location", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, reporter.reported, 1)
	assert.True(t, reporter.reported[0].DriverID.IsEqual(driverID))
	assert.InDelta(t, 6.9271, reporter.reported[0].Position.Latitude(), 1e-9)
}

func TestReportLocation_RejectsMalformedValues(t *testing.T) {
	reporter := &capturingReporter{}
	e := newTestServer(reporter, &stubEstimator{})
	driverID := kernel.NewUUID()

	body := `{"latitude":95.0,"longitude":79.8612,"speedKmh":32,"headingDeg":180}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/drivers/"+driverID.String()+"/location", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, reporter.reported)
}

func TestReportLocation_RejectsBadDriverID(t *testing.T) {
	e := newTestServer(&capturingReporter{}, &stubEstimator{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/drivers/not-a-uuid/location", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEstimateArrival_ReturnsEstimate(t *testing.T) {
	arrival := time.Now().Add(20 * time.Minute).UTC()
	estimator := &stubEstimator{result: apptracking.ETAResult{
		Status:     "ESTIMATED",
		Message:    "Arriving soon",
		Minutes:    20,
		DistanceKm: 8.4,
		ArrivalAt:  arrival,
	}}
	e := newTestServer(&capturingReporter{}, estimator)
	driverID := kernel.NewUUID()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/drivers/"+driverID.String()+"/eta?address=5+Galle+Road", nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Equal(t, "ESTIMATED", decoded["status"])
	assert.EqualValues(t, 20, decoded["minutes"])
	assert.NotEmpty(t, decoded["arrivalAt"])
}

func TestEstimateArrival_RequiresAddress(t *testing.T) {
	e := newTestServer(&capturingReporter{}, &stubEstimator{})
	driverID := kernel.NewUUID()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/drivers/"+driverID.String()+"/eta", nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
