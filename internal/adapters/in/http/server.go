// Package http exposes the delivery orchestration API over echo. The
// server translates between the JSON contract and the application's
// command and query handlers; every response carries a status code
// string plus a human-readable message.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"swiftlogistics/internal/core/application/usecases/commands"
	"swiftlogistics/internal/core/application/usecases/queries"
	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/core/domain/model/route"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	processOrderHandler     commands.ProcessOrderCommandHandler
	assignOrdersHandler     commands.AssignOrdersCommandHandler
	reportLocationHandler   commands.ReportLocationCommandHandler
	startRouteHandler       commands.StartRouteCommandHandler
	completeDeliveryHandler commands.CompleteDeliveryCommandHandler

	// Query handlers
	estimateArrivalHandler     queries.EstimateArrivalQueryHandler
	getActiveDeliveriesHandler queries.GetActiveDeliveriesQueryHandler

	logger *slog.Logger
}

// NewServer creates a new HTTP server with the required command and query
// handlers.
func NewServer(
	processOrderHandler commands.ProcessOrderCommandHandler,
	assignOrdersHandler commands.AssignOrdersCommandHandler,
	reportLocationHandler commands.ReportLocationCommandHandler,
	startRouteHandler commands.StartRouteCommandHandler,
	completeDeliveryHandler commands.CompleteDeliveryCommandHandler,
	estimateArrivalHandler queries.EstimateArrivalQueryHandler,
	getActiveDeliveriesHandler queries.GetActiveDeliveriesQueryHandler,
	logger *slog.Logger,
) *Server {
	return &Server{
		processOrderHandler:        processOrderHandler,
		assignOrdersHandler:        assignOrdersHandler,
		reportLocationHandler:      reportLocationHandler,
		startRouteHandler:          startRouteHandler,
		completeDeliveryHandler:    completeDeliveryHandler,
		estimateArrivalHandler:     estimateArrivalHandler,
		getActiveDeliveriesHandler: getActiveDeliveriesHandler,
		logger:                     logger.With("component", "http-server"),
	}
}

// RegisterRoutes mounts the API under /api/v1.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	v1 := e.Group("/api/v1")

	v1.POST("/orders/:id/process", s.ProcessOrder)
	v1.POST("/deliveries/assign", s.AssignDeliveries)
	v1.GET("/deliveries/active", s.GetActiveDeliveries)
	v1.POST("/drivers/:id/location", s.ReportLocation)
	v1.POST("/drivers/:id/routes/start", s.StartRoute)
	v1.POST("/drivers/:id/deliveries/:ref/complete", s.CompleteDelivery)
	v1.GET("/drivers/:id/eta", s.EstimateArrival)
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ProcessOrder handles POST /api/v1/orders/:id/process. The saga runs in
// the background; the request is acknowledged immediately.
func (s *Server) ProcessOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id: " + err.Error(),
		})
	}

	cmd, err := commands.NewProcessOrderCommand(orderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order data: " + err.Error(),
		})
	}

	go func() {
		sagaCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx.Request().Context()), 5*time.Minute)
		defer cancel()

		result, handleErr := s.processOrderHandler.Handle(sagaCtx, cmd)
		if handleErr != nil {
			s.logger.Error("order processing failed",
				"orderId", orderID.String(),
				"error", handleErr)
			return
		}
		s.logger.Info("order processing finished",
			"orderId", orderID.String(),
			"status", result.Status)
	}()

	return ctx.JSON(http.StatusAccepted, statusResponse{
		Status:  "ACCEPTED",
		Message: "Order processing started",
	})
}

type driverAssignmentResponse struct {
	DriverID         string   `json:"driverId"`
	DriverName       string   `json:"driverName"`
	VehicleNumber    string   `json:"vehicleNumber"`
	OrderCount       int      `json:"orderCount"`
	OrderNumbers     []string `json:"orderNumbers"`
	RouteID          string   `json:"routeId"`
	RouteKind        string   `json:"routeKind"`
	TotalDistanceKm  float64  `json:"totalDistanceKm"`
	EstimatedMinutes int      `json:"estimatedMinutes"`
}

type assignmentResponse struct {
	Status          string                     `json:"status"`
	Message         string                     `json:"message"`
	Assignments     []driverAssignmentResponse `json:"assignments"`
	AssignedOrders  int                        `json:"assignedOrders"`
	RemainingOrders int                        `json:"remainingOrders"`
	Localities      map[string]int             `json:"localities"`
}

// AssignDeliveries handles POST /api/v1/deliveries/assign - runs one
// assignment pass over the warehouse pool.
func (s *Server) AssignDeliveries(ctx echo.Context) error {
	cmd := commands.NewAssignOrdersCommand()

	result, err := s.assignOrdersHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Assignment failed",
		})
	}

	assignments := make([]driverAssignmentResponse, len(result.Assignments))
	for i, a := range result.Assignments {
		assignments[i] = driverAssignmentResponse{
			DriverID:         a.DriverID,
			DriverName:       a.DriverName,
			VehicleNumber:    a.VehicleNumber,
			OrderCount:       a.OrderCount,
			OrderNumbers:     a.OrderNumbers,
			RouteID:          a.RouteID,
			RouteKind:        a.RouteKind,
			TotalDistanceKm:  a.TotalDistanceKm,
			EstimatedMinutes: a.EstimatedMinutes,
		}
	}

	return ctx.JSON(http.StatusOK, assignmentResponse{
		Status:          result.Status,
		Message:         result.Message,
		Assignments:     assignments,
		AssignedOrders:  result.AssignedOrders,
		RemainingOrders: result.RemainingOrders,
		Localities:      result.Localities,
	})
}

type locationReport struct {
	Latitude   float64    `json:"latitude"`
	Longitude  float64    `json:"longitude"`
	SpeedKmh   float64    `json:"speedKmh"`
	HeadingDeg float64    `json:"headingDeg"`
	ReportedAt *time.Time `json:"reportedAt,omitempty"`
}

// ReportLocation handles POST /api/v1/drivers/:id/location - records a
// driver position report.
func (s *Server) ReportLocation(ctx echo.Context) error {
	driverID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid driver id: " + err.Error(),
		})
	}

	var report locationReport
	if err := ctx.Bind(&report); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	reportedAt := time.Time{}
	if report.ReportedAt != nil {
		reportedAt = *report.ReportedAt
	}

	cmd, err := commands.NewReportLocationCommand(
		driverID,
		report.Latitude,
		report.Longitude,
		report.SpeedKmh,
		report.HeadingDeg,
		reportedAt,
	)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid location report: " + err.Error(),
		})
	}

	if handleErr := s.reportLocationHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to record location",
		})
	}

	return ctx.JSON(http.StatusOK, statusResponse{
		Status:  "RECORDED",
		Message: "Location recorded",
	})
}

// StartRoute handles POST /api/v1/drivers/:id/routes/start - activates the
// driver's planned route and sends its orders out for delivery.
func (s *Server) StartRoute(ctx echo.Context) error {
	driverID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid driver id: " + err.Error(),
		})
	}

	cmd, err := commands.NewStartRouteCommand(driverID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request: " + err.Error(),
		})
	}

	if handleErr := s.startRouteHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		switch {
		case errors.Is(handleErr, commands.ErrNoPlannedRoute):
			return ctx.JSON(http.StatusNotFound, errorResponse{
				Code:    http.StatusNotFound,
				Message: "Driver has no planned route",
			})
		case errors.Is(handleErr, route.ErrRouteIsNotPlanned):
			return ctx.JSON(http.StatusConflict, errorResponse{
				Code:    http.StatusConflict,
				Message: "Route is not in planned status",
			})
		default:
			return ctx.JSON(http.StatusInternalServerError, errorResponse{
				Code:    http.StatusInternalServerError,
				Message: "Failed to start route",
			})
		}
	}

	return ctx.JSON(http.StatusOK, statusResponse{
		Status:  "ROUTE_STARTED",
		Message: "Route activated, orders are out for delivery",
	})
}

type completionResponse struct {
	Status         string  `json:"status"`
	Message        string  `json:"message"`
	DistanceKm     float64 `json:"distanceKm"`
	RouteCompleted bool    `json:"routeCompleted"`
}

// CompleteDelivery handles POST /api/v1/drivers/:id/deliveries/:ref/complete.
// Geofence rejections come back as 200 with a rejection status; the driver
// retries after moving closer.
func (s *Server) CompleteDelivery(ctx echo.Context) error {
	driverID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid driver id: " + err.Error(),
		})
	}

	cmd, err := commands.NewCompleteDeliveryCommand(driverID, ctx.Param("ref"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid completion request: " + err.Error(),
		})
	}

	result, handleErr := s.completeDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	if handleErr != nil {
		switch {
		case errors.Is(handleErr, commands.ErrNoActiveRoute):
			return ctx.JSON(http.StatusNotFound, errorResponse{
				Code:    http.StatusNotFound,
				Message: "Driver has no active route",
			})
		case errors.Is(handleErr, commands.ErrOrderNotOnRoute):
			return ctx.JSON(http.StatusNotFound, errorResponse{
				Code:    http.StatusNotFound,
				Message: "Order is not on the driver's active route",
			})
		case errors.Is(handleErr, route.ErrPointAlreadyCompleted):
			return ctx.JSON(http.StatusConflict, errorResponse{
				Code:    http.StatusConflict,
				Message: "Delivery was already completed",
			})
		default:
			return ctx.JSON(http.StatusInternalServerError, errorResponse{
				Code:    http.StatusInternalServerError,
				Message: "Failed to complete delivery",
			})
		}
	}

	return ctx.JSON(http.StatusOK, completionResponse{
		Status:         result.Status,
		Message:        result.Message,
		DistanceKm:     result.DistanceKm,
		RouteCompleted: result.RouteCompleted,
	})
}

type etaResponse struct {
	Status     string     `json:"status"`
	Message    string     `json:"message"`
	Minutes    int        `json:"minutes"`
	DistanceKm float64    `json:"distanceKm"`
	ArrivalAt  *time.Time `json:"arrivalAt,omitempty"`
}

// EstimateArrival handles GET /api/v1/drivers/:id/eta?address=… -
// estimates the driver's arrival at the given address.
func (s *Server) EstimateArrival(ctx echo.Context) error {
	driverID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid driver id: " + err.Error(),
		})
	}

	query, err := queries.NewEstimateArrivalQuery(driverID, ctx.QueryParam("address"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request: " + err.Error(),
		})
	}

	result, err := s.estimateArrivalHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to estimate arrival",
		})
	}

	response := etaResponse{
		Status:     result.Status,
		Message:    result.Message,
		Minutes:    result.Minutes,
		DistanceKm: result.DistanceKm,
	}
	if !result.ArrivalAt.IsZero() {
		arrival := result.ArrivalAt
		response.ArrivalAt = &arrival
	}

	return ctx.JSON(http.StatusOK, response)
}

type activeDeliveryResponse struct {
	RouteID             string   `json:"routeId"`
	DriverID            string   `json:"driverId"`
	DriverName          string   `json:"driverName"`
	VehicleNumber       string   `json:"vehicleNumber"`
	RouteStatus         string   `json:"routeStatus"`
	RouteKind           string   `json:"routeKind"`
	TotalDistanceKm     float64  `json:"totalDistanceKm"`
	EstimatedMinutes    int      `json:"estimatedMinutes"`
	TotalDeliveries     int      `json:"totalDeliveries"`
	CompletedDeliveries int      `json:"completedDeliveries"`
	RemainingDeliveries int      `json:"remainingDeliveries"`
	NextDeliveryAddress string   `json:"nextDeliveryAddress,omitempty"`
	NextOrderRef        string   `json:"nextOrderRef,omitempty"`
	Latitude            *float64 `json:"latitude,omitempty"`
	Longitude           *float64 `json:"longitude,omitempty"`
}

// GetActiveDeliveries handles GET /api/v1/deliveries/active - the live
// per-driver delivery view for fleet dashboards.
func (s *Server) GetActiveDeliveries(ctx echo.Context) error {
	query := queries.NewGetActiveDeliveriesQuery()

	deliveries, err := s.getActiveDeliveriesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve active deliveries",
		})
	}

	response := make([]activeDeliveryResponse, len(deliveries))
	for i, d := range deliveries {
		row := activeDeliveryResponse{
			RouteID:             d.RouteID,
			DriverID:            d.DriverID,
			DriverName:          d.DriverName,
			VehicleNumber:       d.VehicleNumber,
			RouteStatus:         d.RouteStatus,
			RouteKind:           d.RouteKind,
			TotalDistanceKm:     d.TotalDistanceKm,
			EstimatedMinutes:    d.EstimatedMinutes,
			TotalDeliveries:     d.TotalDeliveries,
			CompletedDeliveries: d.CompletedDeliveries,
			RemainingDeliveries: d.RemainingDeliveries,
			NextDeliveryAddress: d.NextDeliveryAddress,
			NextOrderRef:        d.NextOrderRef,
		}
		if d.HasLocation {
			lat, lon := d.Latitude, d.Longitude
			row.Latitude = &lat
			row.Longitude = &lon
		}
		response[i] = row
	}

	return ctx.JSON(http.StatusOK, response)
}
