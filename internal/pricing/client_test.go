package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricep/internal/models"
)

func TestClient_SearchText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/search-text/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req models.TextRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "milk price", req.Q)

		_ = json.NewEncoder(w).Encode(models.TextResponse{
			AnswerText:  "found",
			ProductInfo: []models.ProductInfo{{Name: "Milk", Price: "79 RUB", URL: "https://shop/milk"}},
			MainURL:     "https://shop",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api", time.Second, WithToken(func() (string, error) { return "secret", nil }))
	resp, err := c.SearchText(context.Background(), "milk price")
	require.NoError(t, err)
	assert.Equal(t, "found", resp.AnswerText)
	require.Len(t, resp.ProductInfo, 1)
	assert.Equal(t, "Milk", resp.ProductInfo[0].Name)
	assert.Equal(t, "https://shop", resp.MainURL)
}

func TestClient_ImageEndpointsSendMultipart(t *testing.T) {
	image := []byte{0xff, 0xd8, 0xff, 0xe0, 'j', 'p', 'g'}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "photo.jpg", header.Filename)
		assert.Equal(t, "image/jpeg", header.Header.Get("Content-Type"))
		data, _ := io.ReadAll(file)
		assert.Equal(t, image, data)

		switch r.URL.Path {
		case "/define-image/":
			_ = json.NewEncoder(w).Encode(models.DefineImageResponse{AnswerText: "a carton of milk"})
		case "/search-image/":
			_ = json.NewEncoder(w).Encode(models.TextResponse{AnswerText: "milk"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)

	def, err := c.DefineImage(context.Background(), image)
	require.NoError(t, err)
	assert.Equal(t, "a carton of milk", def.AnswerText)

	res, err := c.SearchImage(context.Background(), image)
	require.NoError(t, err)
	assert.Equal(t, "milk", res.AnswerText)
}

func TestClient_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).SearchText(context.Background(), "q")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "backend down", apiErr.Body)
}

func TestClient_EmptyImageRejected(t *testing.T) {
	_, err := NewClient("http://unused", time.Second).DefineImage(context.Background(), nil)
	assert.EqualError(t, err, "image is empty")
}

func TestClient_TokenError(t *testing.T) {
	c := NewClient("http://unused", time.Second, WithToken(func() (string, error) {
		return "", errors.New("keyring locked")
	}))
	_, err := c.SearchText(context.Background(), "q")
	assert.EqualError(t, err, "price api token: keyring locked")
}

func TestFormatResponse(t *testing.T) {
	text, links := FormatResponse(&models.TextResponse{
		ProductInfo: []models.ProductInfo{
			{Name: "Milk", Price: "79 RUB", URL: "https://shop/milk"},
			{Name: "Bread", Price: "45 RUB", URL: "https://shop/bread"},
		},
	})
	assert.Equal(t, "Milk\n79 RUB\n🔗\n\nBread\n45 RUB\n🔗\n\n", text)
	assert.Equal(t, map[string]string{
		"icon_0": "https://shop/milk",
		"icon_1": "https://shop/bread",
	}, links)

	text, links = FormatResponse(nil)
	assert.Empty(t, text)
	assert.Empty(t, links)
}
