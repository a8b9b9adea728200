package backoffice

import (
	"context"
	"net/http"

	"swiftlogistics/internal/core/domain/model/order"
	"swiftlogistics/internal/core/ports"
)

var _ ports.RoutePlanningClient = &ROSClient{}

// ROSClient talks to the route optimization system's REST facade.
type ROSClient struct {
	rest restClient
}

// NewROSClient creates a ROSClient. The http.Client is optional.
func NewROSClient(baseURL string, apiKey string, client *http.Client) (*ROSClient, error) {
	rest, err := newRESTClient(baseURL, apiKey, client)
	if err != nil {
		return nil, err
	}
	return &ROSClient{rest: rest}, nil
}

type rosPlanRequest struct {
	OrderID     string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
	Address     string `json:"deliveryAddress"`
}

// PlanRoute requests external planning for the order and returns the
// plan reference.
func (c *ROSClient) PlanRoute(ctx context.Context, aggregate *order.Order) (string, error) {
	if err := aggregate.Validate(); err != nil {
		return "", err
	}

	payload := rosPlanRequest{
		OrderID:     aggregate.ID().String(),
		OrderNumber: aggregate.OrderNumber(),
		Address:     aggregate.DeliveryAddress(),
	}

	return c.rest.postForReference(ctx, "/api/v1/plans", payload, "planRef")
}

// CancelRoute withdraws a previously planned route.
func (c *ROSClient) CancelRoute(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	return c.rest.delete(ctx, "/api/v1/plans/"+aggregate.OrderNumber())
}
