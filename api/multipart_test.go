package api_test

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stockctl/stockctl/api"
)

type formPart struct {
	field    string
	filename string
	value    string
}

func decodeForm(t *testing.T, contentType string, body *bytes.Buffer) []formPart {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	require.Equal(t, "multipart/form-data", mediaType)

	reader := multipart.NewReader(body, params["boundary"])
	var parts []formPart
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		value, err := io.ReadAll(part)
		require.NoError(t, err)
		parts = append(parts, formPart{
			field:    part.FormName(),
			filename: part.FileName(),
			value:    string(value),
		})
	}
	return parts
}

func fieldValues(parts []formPart, field string) []string {
	var values []string
	for _, p := range parts {
		if p.field == field {
			values = append(values, p.value)
		}
	}
	return values
}

func TestProductFormEncode_RepeatsColorsField(t *testing.T) {
	form := &api.ProductForm{
		Name:        "Backpack",
		Price:       1290.5,
		Description: "roomy",
		Colors:      api.NewColorTagSet("red", "blue", "red"),
	}

	var body bytes.Buffer
	contentType, err := form.Encode(&body)
	require.NoError(t, err)

	parts := decodeForm(t, contentType, &body)
	require.Equal(t, []string{"Backpack"}, fieldValues(parts, "name"))
	require.Equal(t, []string{"1290.5"}, fieldValues(parts, "price"))
	require.Equal(t, []string{"roomy"}, fieldValues(parts, "description"))
	// The duplicate collapses in the tag set; each survivor is its own part.
	require.Equal(t, []string{"red", "blue"}, fieldValues(parts, "colors"))
}

func TestProductFormEncode_NoImagesMeansNoImagesField(t *testing.T) {
	form := &api.ProductForm{Name: "Bottle", Price: 3}

	var body bytes.Buffer
	contentType, err := form.Encode(&body)
	require.NoError(t, err)

	for _, part := range decodeForm(t, contentType, &body) {
		require.NotEqual(t, "images", part.field)
	}
}

func TestProductFormEncode_ImagesKeepOrderAndFilenames(t *testing.T) {
	form := &api.ProductForm{
		Name:  "Bottle",
		Price: 3,
		Images: []api.ImageFile{
			{Name: "front.jpg", Data: strings.NewReader("AAA")},
			{Name: "back.png", Data: strings.NewReader("BBB")},
		},
	}

	var body bytes.Buffer
	contentType, err := form.Encode(&body)
	require.NoError(t, err)

	var images []formPart
	for _, part := range decodeForm(t, contentType, &body) {
		if part.field == "images" {
			images = append(images, part)
		}
	}
	require.Len(t, images, 2)
	require.Equal(t, "front.jpg", images[0].filename)
	require.Equal(t, "AAA", images[0].value)
	require.Equal(t, "back.png", images[1].filename)
	require.Equal(t, "BBB", images[1].value)
}

func TestProductFormEncode_WholePriceHasNoTrailingZeros(t *testing.T) {
	form := &api.ProductForm{Name: "Bottle", Price: 1290}

	var body bytes.Buffer
	contentType, err := form.Encode(&body)
	require.NoError(t, err)

	parts := decodeForm(t, contentType, &body)
	require.Equal(t, []string{"1290"}, fieldValues(parts, "price"))
}
