package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
)

// ProductForm is the client-side input for create and update operations:
// scalar fields, the color tag set, and zero or more pending images.
//
// Image semantics on update are replace-all: a non-empty Images slice
// replaces every existing image server-side, while an empty slice means
// "keep existing images" and emits no images parts at all.
type ProductForm struct {
	Name        string
	Price       float64
	Description string
	Colors      *ColorTagSet
	Images      []ImageFile
}

// Encode writes the form as a multipart body and returns the content type
// (which carries the boundary). Part order is fixed: name, price,
// description, one colors part per tag in insertion order, then one images
// part per attachment in selection order.
//
// Colors use one-key-multiple-values encoding, a repeated `colors` field
// rather than a JSON array in a single field. Deduplication is the
// tag set's job; the builder is a pure structural transform.
func (f *ProductForm) Encode(w io.Writer) (string, error) {
	mw := multipart.NewWriter(w)

	if err := mw.WriteField("name", f.Name); err != nil {
		return "", fmt.Errorf("failed to encode name: %w", err)
	}
	if err := mw.WriteField("price", strconv.FormatFloat(f.Price, 'f', -1, 64)); err != nil {
		return "", fmt.Errorf("failed to encode price: %w", err)
	}
	if err := mw.WriteField("description", f.Description); err != nil {
		return "", fmt.Errorf("failed to encode description: %w", err)
	}

	if f.Colors != nil {
		for _, color := range f.Colors.Values() {
			if err := mw.WriteField("colors", color); err != nil {
				return "", fmt.Errorf("failed to encode color: %w", err)
			}
		}
	}

	for _, img := range f.Images {
		part, err := mw.CreateFormFile("images", img.Name)
		if err != nil {
			return "", fmt.Errorf("failed to create image part: %w", err)
		}
		if _, err := io.Copy(part, img.Data); err != nil {
			return "", fmt.Errorf("failed to write image %q: %w", img.Name, err)
		}
	}

	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}
	return mw.FormDataContentType(), nil
}
