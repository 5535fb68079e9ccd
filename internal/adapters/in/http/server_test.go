package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "production/internal/adapters/in/http"
	"production/internal/core/application/usecases/commands"
	"production/internal/core/application/usecases/queries"
	"production/internal/core/domain/model/buffer"
	"production/internal/core/domain/model/kernel"
	"production/internal/core/domain/model/machine"
	"production/internal/core/domain/model/pallet"
	"production/internal/generated/servers"
	"production/internal/pkg/errs"
	"production/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStartProcessingHandler struct{ mock.Mock }

func (m *MockStartProcessingHandler) Handle(
	ctx context.Context,
	command commands.StartProcessingCommand,
) (*machine.Assignment, error) {
	args := m.Called(ctx, command)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*machine.Assignment), args.Error(1)
}

type MockRedistributeHandler struct{ mock.Mock }

func (m *MockRedistributeHandler) Handle(
	ctx context.Context,
	command commands.RedistributeCommand,
) (commands.RedistributeResult, error) {
	args := m.Called(ctx, command)
	return args.Get(0).(commands.RedistributeResult), args.Error(1)
}

type MockCompleteProcessingHandler struct{ mock.Mock }

func (m *MockCompleteProcessingHandler) Handle(ctx context.Context, command commands.CompleteProcessingCommand) error {
	return m.Called(ctx, command).Error(0)
}

type MockGetBufferOccupancyHandler struct{ mock.Mock }

func (m *MockGetBufferOccupancyHandler) Handle(
	ctx context.Context,
	query queries.GetBufferOccupancyQuery,
) ([]queries.GetBufferOccupancyQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]queries.GetBufferOccupancyQueryResponse), args.Error(1)
}

type testServer struct {
	echo     *echo.Echo
	metrics  *metrics.Metrics
	start    *MockStartProcessingHandler
	split    *MockRedistributeHandler
	complete *MockCompleteProcessingHandler
	buffer   *MockGetBufferOccupancyHandler
}

func newTestServer() *testServer {
	ts := &testServer{
		echo:     echo.New(),
		metrics:  metrics.New(),
		start:    new(MockStartProcessingHandler),
		split:    new(MockRedistributeHandler),
		complete: new(MockCompleteProcessingHandler),
		buffer:   new(MockGetBufferOccupancyHandler),
	}
	server := httpadapter.NewServer(httpadapter.Handlers{
		StartProcessing:    ts.start,
		Redistribute:       ts.split,
		CompleteProcessing: ts.complete,
		GetBufferOccupancy: ts.buffer,
	}, ts.metrics, slog.New(slog.NewTextHandler(io.Discard, nil)))
	server.Register(ts.echo)
	return ts
}

func (ts *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ts.echo.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) servers.Error {
	t.Helper()
	var body servers.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestServer_StartProcessing(t *testing.T) {
	ts := newTestServer()
	palletID, machineID, stageID := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()
	a, err := machine.NewAssignment(kernel.NewUUID(), palletID, machineID, stageID, time.Now().UTC())
	require.NoError(t, err)

	ts.start.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.StartProcessingCommand) bool {
		return cmd.PalletID().IsEqual(palletID) &&
			cmd.MachineID().IsEqual(machineID) &&
			cmd.Mode() == machine.SelfService
	})).Return(a, nil).Once()

	rec := ts.do(http.MethodPost, "/api/v1/pallets/"+palletID.String()+"/start",
		`{"machineId":"`+machineID.String()+`","mode":"SELF_SERVICE"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body servers.Assignment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, a.ID().Bytes(), body.Id)
	assert.Equal(t, stageID.Bytes(), body.RouteStageId)
	assert.Nil(t, body.CompletedAt)
	ts.start.AssertExpectations(t)
}

func TestServer_RejectsInvalidBodyBeforeDispatch(t *testing.T) {
	ts := newTestServer()
	palletID := kernel.NewUUID()

	for name, body := range map[string]string{
		"missing machine": `{"mode":"SUPERVISED"}`,
		"bad mode":        `{"machineId":"` + kernel.NewUUID().String() + `","mode":"AUTO"}`,
		"not json":        `{`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := ts.do(http.MethodPost, "/api/v1/pallets/"+palletID.String()+"/start", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "ValidationError", decodeError(t, rec).Kind)
		})
	}

	rec := ts.do(http.MethodPost, "/api/v1/pallets/not-a-uuid/start",
		`{"machineId":"`+kernel.NewUUID().String()+`","mode":"SUPERVISED"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "ValidationError", body.Kind)
	assert.Contains(t, body.Message, "palletId")

	ts.start.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestServer_MapsErrorKindsToStatus(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		kind      string
		rule      string
		retryable bool
	}{
		{
			name:   "not found",
			err:    errs.NewObjectNotFoundError("pallet", kernel.NewUUID()),
			status: http.StatusNotFound,
			kind:   "NotFound",
		},
		{
			name:   "invariant violation",
			err:    errs.NewRuleViolationError(machine.RuleNotAssigned, "pallet is not assigned"),
			status: http.StatusUnprocessableEntity,
			kind:   "InvariantViolation",
			rule:   machine.RuleNotAssigned,
		},
		{
			name:      "conflict",
			err:       errs.NewConflictError(machine.RuleMachineInactive, "machine is in maintenance"),
			status:    http.StatusConflict,
			kind:      "Conflict",
			rule:      machine.RuleMachineInactive,
			retryable: true,
		},
		{
			name:   "internal",
			err:    errors.New("connection reset"),
			status: http.StatusInternalServerError,
			kind:   "Internal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer()
			ts.start.On("Handle", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			rec := ts.do(http.MethodPost, "/api/v1/pallets/"+kernel.NewUUID().String()+"/start",
				`{"machineId":"`+kernel.NewUUID().String()+`","mode":"SUPERVISED"}`)

			require.Equal(t, tt.status, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.kind, body.Kind)
			assert.Equal(t, tt.rule, body.Rule)
			assert.Equal(t, tt.retryable, body.Retryable)
			if tt.kind == "Internal" {
				assert.Equal(t, "internal error", body.Message)
			}
			assert.InDelta(t, 1,
				testutil.ToFloat64(ts.metrics.OperationsFailed.WithLabelValues("startProcessing", tt.kind)), 0)
		})
	}
}

func TestServer_Redistribute(t *testing.T) {
	ts := newTestServer()
	sourceID, targetID := kernel.NewUUID(), kernel.NewUUID()
	partID := kernel.NewUUID()
	target, err := pallet.NewPallet(targetID, partID, 2, kernel.MustQuantity(70))
	require.NoError(t, err)
	created, err := pallet.NewPallet(kernel.NewUUID(), partID, 3, kernel.MustQuantity(40))
	require.NoError(t, err)

	ts.split.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.RedistributeCommand) bool {
		ds := cmd.Distributions()
		return cmd.SourcePalletID().IsEqual(sourceID) &&
			cmd.Mode() == machine.Supervised &&
			cmd.MachineID() == nil &&
			len(ds) == 2 &&
			ds[0].TargetPalletID() == nil &&
			ds[0].Quantity().Equal(kernel.MustQuantity(40)) &&
			ds[1].TargetPalletID().IsEqual(targetID)
	})).Return(commands.RedistributeResult{
		Targets:       []*pallet.Pallet{created, target},
		SourceDeleted: true,
	}, nil).Once()

	rec := ts.do(http.MethodPost, "/api/v1/pallets/"+sourceID.String()+"/redistribute", `{
		"mode": "SUPERVISED",
		"distributions": [
			{"quantity": "40"},
			{"targetPalletId": "`+targetID.String()+`", "quantity": 60}
		]
	}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body servers.Redistribution
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.SourceDeleted)
	require.Len(t, body.Targets, 2)
	assert.Equal(t, 3, body.Targets[0].Number)
	assert.True(t, decimal.NewFromInt(70).Equal(body.Targets[1].Quantity))
	ts.split.AssertExpectations(t)
}

func TestServer_RedistributeRejectsNegativeQuantity(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(http.MethodPost, "/api/v1/pallets/"+kernel.NewUUID().String()+"/redistribute",
		`{"mode":"SUPERVISED","distributions":[{"quantity":"-5"}]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	ts.split.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestServer_CompleteProcessing(t *testing.T) {
	ts := newTestServer()
	ts.complete.On("Handle", mock.Anything, mock.Anything).Return(nil).Once()

	rec := ts.do(http.MethodPost, "/api/v1/pallets/"+kernel.NewUUID().String()+"/complete",
		`{"machineId":"`+kernel.NewUUID().String()+`"}`)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	ts.complete.AssertExpectations(t)
}

func TestServer_GetBufferOccupancy(t *testing.T) {
	ts := newTestServer()
	cellID, palletID := kernel.NewUUID(), kernel.NewUUID()
	ts.buffer.On("Handle", mock.Anything, mock.Anything).Return([]queries.GetBufferOccupancyQueryResponse{
		{ID: cellID, Name: "A-1", Capacity: 1, Load: 1, Status: buffer.Occupied.String(), PalletIDs: []kernel.UUID{palletID}},
	}, nil).Once()

	rec := ts.do(http.MethodGet, "/api/v1/buffer", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body []servers.Cell
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "A-1", body[0].Name)
	assert.Equal(t, servers.OCCUPIED, body[0].Status)
	assert.Equal(t, []openapi_types.UUID{palletID.Bytes()}, body[0].PalletIds)

	assert.InDelta(t, 1,
		testutil.ToFloat64(ts.metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/buffer", "200")), 0)
}

func TestServer_HealthAndMetrics(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())

	rec = ts.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "production_http_requests_total")
}

func TestServer_UnknownRouteUsesErrorBody(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(http.MethodGet, "/api/v1/nowhere", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NotFound", decodeError(t, rec).Kind)
}

func TestServer_ServesOpenAPIDocument(t *testing.T) {
	ts := newTestServer()
	swagger, err := servers.GetSwagger()
	require.NoError(t, err)
	require.NoError(t, swagger.Validate(t.Context()))
	require.NoError(t, httpadapter.RegisterDocs(ts.echo, swagger))

	for _, path := range []string{"/api/openapi.json", "/swagger/doc.json"} {
		rec := ts.do(http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rec.Code, path)

		var doc struct {
			Paths map[string]map[string]struct {
				OperationID string `json:"operationId"`
			} `json:"paths"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc), path)
		assert.Equal(t, "StartProcessing", doc.Paths["/pallets/{palletId}/start"]["post"].OperationID)
		assert.Len(t, doc.Paths, 13)
	}

	rec := ts.do(http.MethodGet, "/swagger/index.html", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
