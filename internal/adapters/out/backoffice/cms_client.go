package backoffice

import (
	"context"
	"net/http"

	"swiftlogistics/internal/core/domain/model/order"
	"swiftlogistics/internal/core/ports"
)

var _ ports.ClientManagementClient = &CMSClient{}

// CMSClient talks to the client management system's REST facade.
type CMSClient struct {
	rest restClient
}

// NewCMSClient creates a CMSClient. The http.Client is optional.
func NewCMSClient(baseURL string, apiKey string, client *http.Client) (*CMSClient, error) {
	rest, err := newRESTClient(baseURL, apiKey, client)
	if err != nil {
		return nil, err
	}
	return &CMSClient{rest: rest}, nil
}

type cmsSubmission struct {
	OrderID        string `json:"orderId"`
	OrderNumber    string `json:"orderNumber"`
	RecipientName  string `json:"recipientName"`
	RecipientPhone string `json:"recipientPhone"`
	Address        string `json:"deliveryAddress"`
}

// Submit registers the order with CMS and returns the submission reference.
func (c *CMSClient) Submit(ctx context.Context, aggregate *order.Order) (string, error) {
	if err := aggregate.Validate(); err != nil {
		return "", err
	}

	payload := cmsSubmission{
		OrderID:        aggregate.ID().String(),
		OrderNumber:    aggregate.OrderNumber(),
		RecipientName:  aggregate.RecipientName(),
		RecipientPhone: aggregate.RecipientPhone(),
		Address:        aggregate.DeliveryAddress(),
	}

	return c.rest.postForReference(ctx, "/api/v1/submissions", payload, "submissionRef")
}

// CancelSubmission withdraws a previously submitted order.
func (c *CMSClient) CancelSubmission(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	return c.rest.delete(ctx, "/api/v1/submissions/"+aggregate.OrderNumber())
}
