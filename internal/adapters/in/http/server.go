package http

import (
	"log/slog"
	"net/http"

	"production/internal/core/application/usecases/commands"
	"production/internal/core/application/usecases/queries"
	"production/internal/core/domain/model/kernel"
	"production/internal/core/domain/model/machine"
	"production/internal/generated/servers"
	"production/internal/pkg/errs"
	"production/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

// BaseURL prefixes every route of the OpenAPI contract.
const BaseURL = "/api/v1"

// Server maps HTTP requests onto routing commands and read models.
type Server struct {
	handlers Handlers
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewServer(handlers Handlers, m *metrics.Metrics, logger *slog.Logger) *Server {
	return &Server{
		handlers: handlers,
		metrics:  m,
		logger:   logger.With("component", "http"),
	}
}

var _ servers.ServerInterface = (*Server)(nil)

// Register installs the validator, the error handler, the metrics middleware
// and every route of the OpenAPI contract on e.
func (s *Server) Register(e *echo.Echo) {
	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = s.handleError

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	if s.metrics != nil {
		e.Use(MetricsMiddleware(s.metrics))
		e.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}

	servers.RegisterHandlersWithBaseURL(e, s, BaseURL)
}

// CreatePallet handles POST /api/v1/pallets.
func (s *Server) CreatePallet(c echo.Context) error {
	const op = "createPallet"
	var req servers.CreatePalletJSONRequestBody
	if err := s.bind(c, &req); err != nil {
		return s.badRequest(c, op, err)
	}

	quantity, err := quantityOf(req.Quantity)
	if err != nil {
		return s.problem(c, op, err)
	}
	cmd, err := commands.NewCreatePalletCommand(kernel.UUIDOf(req.PartId), quantity)
	if err != nil {
		return s.problem(c, op, err)
	}

	created, err := s.handlers.CreatePallet.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.problem(c, op, err)
	}
	return c.JSON(http.StatusCreated, palletFromDomain(created))
}

// AssignPallet handles POST /api/v1/pallets/{palletId}/assignment.
func (s *Server) AssignPallet(c echo.Context, palletID servers.PalletId) error {
	const op = "assignPallet"
	machineID, err := s.machineOf(c)
	if err != nil {
		return s.badRequest(c, op, err)
	}

	cmd, err := commands.NewAssignPalletCommand(kernel.UUIDOf(palletID), machineID)
	if err != nil {
		return s.problem(c, op, err)
	}
	a, err := s.handlers.AssignPallet.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.problem(c, op, err)
	}
	return c.JSON(http.StatusOK, assignmentFromDomain(a))
}

// StartProcessing handles POST /api/v1/pallets/{palletId}/start.
func (s *Server) StartProcessing(c echo.Context, palletID servers.PalletId) error {
	const op = "startProcessing"
	var req servers.StartProcessingJSONRequestBody
	if err := s.bind(c, &req); err != nil {
		return s.badRequest(c, op, err)
	}
	mode, err := machine.ParseStationMode(string(req.Mode))
	if err != nil {
		return s.problem(c, op, err)
	}

	cmd, err := commands.NewStartProcessingCommand(kernel.UUIDOf(palletID), kernel.UUIDOf(req.MachineId), mode)
	if err != nil {
		return s.problem(c, op, err)
	}
	a, err := s.handlers.StartProcessing.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.problem(c, op, err)
	}
	return c.JSON(http.StatusOK, assignmentFromDomain(a))
}

// CompleteProcessing handles POST /api/v1/pallets/{palletId}/complete.
func (s *Server) CompleteProcessing(c echo.Context, palletID servers.PalletId) error {
	const op = "completeProcessing"
	machineID, err := s.machineOf(c)
	if err != nil {
		return s.badRequest(c, op, err)
	}

	cmd, err := commands.NewCompleteProcessingCommand(kernel.UUIDOf(palletID), machineID)
	if err != nil {
		return s.problem(c, op, err)
	}
	if err = s.handlers.CompleteProcessing.Handle(c.Request().Context(), cmd); err != nil {
		return s.problem(c, op, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MoveToBuffer handles POST /api/v1/pallets/{palletId}/buffer.
func (s *Server) MoveToBuffer(c echo.Context, palletID servers.PalletId) error {
	const op = "moveToBuffer"
	var req servers.MoveToBufferJSONRequestBody
	if err := s.bind(c, &req); err != nil {
		return s.badRequest(c, op, err)
	}

	cmd, err := commands.NewMoveToBufferCommand(kernel.UUIDOf(palletID), kernel.UUIDOf(req.CellId))
	if err != nil {
		return s.problem(c, op, err)
	}
	placement, err := s.handlers.MoveToBuffer.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.problem(c, op, err)
	}
	return c.JSON(http.StatusOK, placementFromDomain(placement))
}

// MoveToMachine handles POST /api/v1/pallets/{palletId}/move.
func (s *Server) MoveToMachine(c echo.Context, palletID servers.PalletId) error {
	const op = "moveToMachine"
	machineID, err := s.machineOf(c)
	if err != nil {
		return s.badRequest(c, op, err)
	}

	cmd, err := commands.NewMoveToMachineCommand(kernel.UUIDOf(palletID), machineID)
	if err != nil {
		return s.problem(c, op, err)
	}
	a, err := s.handlers.MoveToMachine.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.problem(c, op, err)
	}
	return c.JSON(http.StatusOK, assignmentFromDomain(a))
}

// Redistribute handles POST /api/v1/pallets/{palletId}/redistribute.
func (s *Server) Redistribute(c echo.Context, palletID servers.PalletId) error {
	const op = "redistribute"
	var req servers.RedistributeJSONRequestBody
	if err := s.bind(c, &req); err != nil {
		return s.badRequest(c, op, err)
	}

	distributions := make([]commands.Distribution, 0, len(req.Distributions))
	for _, d := range req.Distributions {
		var target *kernel.UUID
		if d.TargetPalletId != nil {
			id := kernel.UUIDOf(*d.TargetPalletId)
			target = &id
		}
		quantity, err := quantityOf(d.Quantity)
		if err != nil {
			return s.problem(c, op, err)
		}
		distribution, err := commands.NewDistribution(target, quantity)
		if err != nil {
			return s.problem(c, op, err)
		}
		distributions = append(distributions, distribution)
	}

	mode, err := machine.ParseStationMode(string(req.Mode))
	if err != nil {
		return s.problem(c, op, err)
	}
	var machineID *kernel.UUID
	if req.MachineId != nil {
		id := kernel.UUIDOf(*req.MachineId)
		machineID = &id
	}

	cmd, err := commands.NewRedistributeCommand(kernel.UUIDOf(palletID), distributions, mode, machineID)
	if err != nil {
		return s.problem(c, op, err)
	}
	result, err := s.handlers.Redistribute.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.problem(c, op, err)
	}
	return c.JSON(http.StatusOK, redistributionFromResult(result))
}

// ReportDefect handles POST /api/v1/pallets/{palletId}/defects.
func (s *Server) ReportDefect(c echo.Context, palletID servers.PalletId) error {
	const op = "reportDefect"
	var req servers.ReportDefectJSONRequestBody
	if err := s.bind(c, &req); err != nil {
		return s.badRequest(c, op, err)
	}
	quantity, err := quantityOf(req.Quantity)
	if err != nil {
		return s.problem(c, op, err)
	}

	cmd, err := commands.NewReportDefectCommand(kernel.UUIDOf(palletID), quantity, kernel.UUIDOf(req.RouteStageId))
	if err != nil {
		return s.problem(c, op, err)
	}
	r, err := s.handlers.ReportDefect.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.problem(c, op, err)
	}
	return c.JSON(http.StatusCreated, reclamationFromDomain(r))
}

// SetCellReservation handles PUT /api/v1/cells/{cellId}/reservation.
func (s *Server) SetCellReservation(c echo.Context, cellID openapi_types.UUID) error {
	const op = "setCellReservation"
	var req servers.SetCellReservationJSONRequestBody
	if err := s.bind(c, &req); err != nil {
		return s.badRequest(c, op, err)
	}

	cmd, err := commands.NewSetCellReservationCommand(kernel.UUIDOf(cellID), *req.Reserved)
	if err != nil {
		return s.problem(c, op, err)
	}
	cell, err := s.handlers.SetCellReservation.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.problem(c, op, err)
	}
	return c.JSON(http.StatusOK, cellFromDomain(cell))
}

// ReconcileBuffer handles POST /api/v1/buffer/reconcile.
func (s *Server) ReconcileBuffer(c echo.Context) error {
	result, err := s.handlers.ReconcileBuffer.Handle(c.Request().Context(), commands.NewReconcileBufferCommand())
	if err != nil {
		return s.problem(c, "reconcileBuffer", err)
	}
	return c.JSON(http.StatusOK, servers.Reconciliation{Checked: result.Checked, Repaired: result.Repaired})
}

// GetBufferOccupancy handles GET /api/v1/buffer.
func (s *Server) GetBufferOccupancy(c echo.Context) error {
	cells, err := s.handlers.GetBufferOccupancy.Handle(c.Request().Context(), queries.NewGetBufferOccupancyQuery())
	if err != nil {
		return s.problem(c, "getBufferOccupancy", err)
	}

	response := make([]servers.Cell, 0, len(cells))
	for _, cell := range cells {
		response = append(response, cellFromQuery(cell))
	}
	return c.JSON(http.StatusOK, response)
}

// GetPalletsByPart handles GET /api/v1/parts/{partId}/pallets.
func (s *Server) GetPalletsByPart(c echo.Context, partID openapi_types.UUID) error {
	const op = "getPalletsByPart"
	query, err := queries.NewGetPalletsByPartQuery(kernel.UUIDOf(partID))
	if err != nil {
		return s.problem(c, op, err)
	}

	pallets, err := s.handlers.GetPalletsByPart.Handle(c.Request().Context(), query)
	if err != nil {
		return s.problem(c, op, err)
	}

	response := make([]servers.PalletLocation, 0, len(pallets))
	for _, p := range pallets {
		response = append(response, palletLocationFromQuery(p))
	}
	return c.JSON(http.StatusOK, response)
}

// GetOpenAssignmentsByMachine handles GET /api/v1/machines/{machineId}/assignments.
func (s *Server) GetOpenAssignmentsByMachine(c echo.Context, machineID openapi_types.UUID) error {
	const op = "getOpenAssignmentsByMachine"
	query, err := queries.NewGetOpenAssignmentsByMachineQuery(kernel.UUIDOf(machineID))
	if err != nil {
		return s.problem(c, op, err)
	}

	work, err := s.handlers.GetOpenAssignmentsByMachine.Handle(c.Request().Context(), query)
	if err != nil {
		return s.problem(c, op, err)
	}

	response := make([]servers.MachineWork, 0, len(work))
	for _, w := range work {
		response = append(response, machineWorkFromQuery(w))
	}
	return c.JSON(http.StatusOK, response)
}

func (s *Server) bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}

func (s *Server) machineOf(c echo.Context) (kernel.UUID, error) {
	var req servers.MachineRequest
	if err := s.bind(c, &req); err != nil {
		return kernel.UUID{}, err
	}
	return kernel.UUIDOf(req.MachineId), nil
}

func quantityOf(d decimal.Decimal) (kernel.Quantity, error) {
	q, err := kernel.QuantityFromDecimal(d)
	if err != nil {
		return kernel.Quantity{}, errs.NewValueIsInvalidErrorWithCause("quantity", err)
	}
	return q, nil
}
