package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/dineview/backoffice/internal/backoffice/domain"
	"github.com/dineview/backoffice/internal/backoffice/ports"
)

// ProductForm is an operator product submission. The image may be supplied
// as raw file bytes, as a URL, or not at all.
type ProductForm struct {
	Name     string
	Price    float64
	Category string
	Priority domain.Priority

	ImageURL         string
	ImageData        []byte
	ImageName        string
	ImageContentType string
}

// LoadProducts fetches the full product set and applies the display
// ordering: priority rank ascending, then creation time descending.
func (c *Controller) LoadProducts(ctx context.Context) error {
	products, err := c.gw.Products.List(ctx)
	if err != nil {
		return &ports.GatewayError{Op: "load products", Err: err}
	}

	sort.SliceStable(products, func(i, j int) bool {
		ri, rj := products[i].Priority.Rank(), products[j].Priority.Rank()
		if ri != rj {
			return ri < rj
		}
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})

	c.mu.Lock()
	c.products = products
	view := c.viewLocked()
	c.mu.Unlock()

	c.render(view)
	return nil
}

// CreateProduct writes a new product through to the backend and, only on
// confirmed success, refreshes the cache via a full reload.
func (c *Controller) CreateProduct(ctx context.Context, form ProductForm) error {
	input, err := c.productInput(ctx, form)
	if err != nil {
		return err
	}
	if err := c.gw.Products.Insert(ctx, input); err != nil {
		return &ports.GatewayError{Op: "create product", Err: err}
	}
	c.logger.Info("product created", "name", form.Name)
	return c.LoadProducts(ctx)
}

// UpdateProduct writes changed fields through and reloads on success.
func (c *Controller) UpdateProduct(ctx context.Context, id int64, form ProductForm) error {
	input, err := c.productInput(ctx, form)
	if err != nil {
		return err
	}
	if err := c.gw.Products.Update(ctx, id, input); err != nil {
		return &ports.GatewayError{Op: "update product", Err: err}
	}
	c.logger.Info("product updated", "product_id", id)
	return c.LoadProducts(ctx)
}

// DeleteProduct removes a cached product from the backend and reloads.
func (c *Controller) DeleteProduct(ctx context.Context, id int64) error {
	c.mu.Lock()
	found := false
	for _, p := range c.products {
		if p.ID == id {
			found = true
			break
		}
	}
	c.mu.Unlock()
	if !found {
		return ports.ErrNotFound
	}

	if err := c.gw.Products.Delete(ctx, id); err != nil {
		return &ports.GatewayError{Op: "delete product", Err: err}
	}
	c.logger.Info("product deleted", "product_id", id)
	return c.LoadProducts(ctx)
}

func (c *Controller) productInput(ctx context.Context, form ProductForm) (ports.ProductInput, error) {
	imageURL, err := c.resolveImage(ctx, form)
	if err != nil {
		return ports.ProductInput{}, err
	}
	return ports.ProductInput{
		Name:     form.Name,
		Price:    form.Price,
		Category: form.Category,
		Priority: form.Priority,
		ImageURL: imageURL,
	}, nil
}

// resolveImage turns the submitted image into a stored address: uploaded
// file bytes win over a URL, and an upload failure falls back to embedding
// the bytes as an inline data URL. No image leaves the field empty; a
// placeholder is rendered at display time, never persisted.
func (c *Controller) resolveImage(ctx context.Context, form ProductForm) (string, error) {
	if len(form.ImageData) > 0 {
		name, err := blobName(form.ImageName)
		if err != nil {
			return "", err
		}
		url, err := c.gw.Blobs.Upload(ctx, "products/"+name, form.ImageData, form.ImageContentType)
		if err != nil {
			c.logger.Warn("image upload failed, embedding inline", "error", err)
			return dataURL(form.ImageData, form.ImageContentType), nil
		}
		return url, nil
	}
	return form.ImageURL, nil
}

// blobName builds a collision-resistant object name from the upload time,
// a random suffix and the original file extension.
func blobName(original string) (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate blob name: %w", err)
	}
	ext := strings.ToLower(path.Ext(original))
	return fmt.Sprintf("%d_%s%s", time.Now().UnixMilli(), hex.EncodeToString(buf), ext), nil
}

func dataURL(data []byte, contentType string) string {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
