package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// ListProducts returns the catalog in server order. A 401 invalidates the
// session; a 403 is an authorization-scope error and leaves the session
// intact; any other failure leaves the caller's list state unchanged.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	token, err := c.bearerToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/products", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, c.expireSession(ctx)
	case resp.StatusCode == http.StatusForbidden:
		return nil, &ForbiddenError{Operation: "list products"}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &UnexpectedStatusError{
			StatusCode: resp.StatusCode,
			Message:    "failed to fetch products",
		}
	}

	var products []Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("failed to decode product list: %w", err)
	}
	return products, nil
}

// GetProduct fetches a single record by ID.
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	token, err := c.bearerToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, c.expireSession(ctx)
	case resp.StatusCode == http.StatusNotFound:
		return nil, &NotFoundError{Resource: "product", ID: id}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &UnexpectedStatusError{
			StatusCode: resp.StatusCode,
			Message:    "failed to fetch product",
		}
	}

	var product Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, fmt.Errorf("failed to decode product: %w", err)
	}
	return &product, nil
}

// CreateProduct submits a new record as a multipart payload and returns the
// created record. A rejected write surfaces the server's messages in order.
func (c *Client) CreateProduct(ctx context.Context, form *ProductForm) (*Product, error) {
	return c.submitProduct(ctx, http.MethodPost, "/products", form)
}

// UpdateProduct patches an existing record with the same multipart shape as
// create. Image semantics are replace-all: an empty image set keeps the
// existing images, a non-empty one replaces them wholesale.
func (c *Client) UpdateProduct(ctx context.Context, id string, form *ProductForm) (*Product, error) {
	return c.submitProduct(ctx, http.MethodPatch, "/products/"+url.PathEscape(id), form)
}

// submitProduct carries the shared write path for create and update. Their
// failure handling is identical by contract.
func (c *Client) submitProduct(ctx context.Context, method, path string, form *ProductForm) (*Product, error) {
	token, err := c.bearerToken(ctx)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	contentType, err := form.Encode(&body)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, method, path, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, c.expireSession(ctx)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &ValidationError{Messages: normalizeErrorMessages(readBody(resp))}
	}

	var product Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, fmt.Errorf("failed to decode product response: %w", err)
	}
	return &product, nil
}

// DeleteProduct removes a record. There is no optimistic removal: the caller
// refreshes its list only after a confirmed success.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	token, err := c.bearerToken(ctx)
	if err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return c.expireSession(ctx)
	case resp.StatusCode == http.StatusForbidden:
		return &ForbiddenError{Operation: "delete product"}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &UnexpectedStatusError{
			StatusCode: resp.StatusCode,
			Message:    "failed to delete product",
		}
	}
	return nil
}
