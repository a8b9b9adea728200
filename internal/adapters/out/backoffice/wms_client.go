package backoffice

import (
	"context"
	"net/http"

	"swiftlogistics/internal/core/domain/model/order"
	"swiftlogistics/internal/core/ports"
)

var _ ports.WarehouseClient = &WMSClient{}

// WMSClient talks to the warehouse management system's REST facade.
type WMSClient struct {
	rest restClient
}

// NewWMSClient creates a WMSClient. The http.Client is optional.
func NewWMSClient(baseURL string, apiKey string, client *http.Client) (*WMSClient, error) {
	rest, err := newRESTClient(baseURL, apiKey, client)
	if err != nil {
		return nil, err
	}
	return &WMSClient{rest: rest}, nil
}

type wmsPackage struct {
	OrderID     string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
	Address     string `json:"deliveryAddress"`
}

// AddPackage registers the order's package with WMS and returns the
// package reference.
func (c *WMSClient) AddPackage(ctx context.Context, aggregate *order.Order) (string, error) {
	if err := aggregate.Validate(); err != nil {
		return "", err
	}

	payload := wmsPackage{
		OrderID:     aggregate.ID().String(),
		OrderNumber: aggregate.OrderNumber(),
		Address:     aggregate.DeliveryAddress(),
	}

	return c.rest.postForReference(ctx, "/api/v1/packages", payload, "packageRef")
}

// RemovePackage withdraws a previously added package.
func (c *WMSClient) RemovePackage(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	return c.rest.delete(ctx, "/api/v1/packages/"+aggregate.OrderNumber())
}
