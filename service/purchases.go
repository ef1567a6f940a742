package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cine-booking-cli/model"
)

// ErrNotCancellable is returned before calling the API when the purchase is
// already known not to be active.
var ErrNotCancellable = errors.New("purchase is not active")

// Purchases lists the user's purchases, newest first.
func (c *Client) Purchases(ctx context.Context) ([]model.Purchase, error) {
	var purchases []model.Purchase
	if err := c.getJSON(ctx, "/compras", &purchases); err != nil {
		return nil, err
	}
	return purchases, nil
}

func (c *Client) CreatePurchase(ctx context.Context, req model.PurchaseRequest) (model.PurchaseResponse, error) {
	if len(req.Poltronas) == 0 {
		return model.PurchaseResponse{}, errors.New("at least one seat is required")
	}
	var res model.PurchaseResponse
	if err := c.doJSON(ctx, http.MethodPost, "/compras", req, &res); err != nil {
		return model.PurchaseResponse{}, err
	}
	c.log.LogPurchaseCreated(ctx, res.Purchase.ID, req.FilmeID, req.Poltronas)
	return res, nil
}

// CancelPurchase cancels an active purchase. The API refuses anything that
// is not in the ativo status and that refusal comes back as an *APIError.
func (c *Client) CancelPurchase(ctx context.Context, purchaseID int) (model.PurchaseResponse, error) {
	if purchaseID <= 0 {
		return model.PurchaseResponse{}, errors.New("purchase id is required")
	}
	var res model.PurchaseResponse
	path := fmt.Sprintf("/compras/%d/cancelar", purchaseID)
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &res); err != nil {
		return model.PurchaseResponse{}, err
	}
	return res, nil
}

// CancelKnownPurchase refuses locally when the purchase is not active.
func (c *Client) CancelKnownPurchase(ctx context.Context, purchase model.Purchase) (model.PurchaseResponse, error) {
	if !purchase.Cancellable() {
		return model.PurchaseResponse{}, ErrNotCancellable
	}
	return c.CancelPurchase(ctx, purchase.ID)
}
