package client

// http_client.go talks to the CampusMess REST API.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"campusmess/internal/microservices/http-api/dto"
	"campusmess/internal/microservices/http-api/models"
)

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// constructor for HTTP client
func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// do sends body as JSON and decodes a 2xx answer into out.
// Any other status is returned as *APIError carrying the server message.
func (c *HTTPClient) do(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	response, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cannot reach %s: %w", c.baseURL, err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		var failure dto.MessageResponse
		_ = json.Unmarshal(raw, &failure)
		return &APIError{StatusCode: response.StatusCode, Message: failure.Message}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) Register(req dto.RegisterRequest) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	if err := c.do(http.MethodPost, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Login(req dto.LoginRequest) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	if err := c.do(http.MethodPost, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Profile() (*models.User, error) {
	var resp dto.ProfileResponse
	if err := c.do(http.MethodGet, "/users/profile", nil, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *HTTPClient) Nearby(query NearbyParams) ([]models.Mess, error) {
	values := url.Values{}
	if query.Latitude != nil {
		values.Set("latitude", strconv.FormatFloat(*query.Latitude, 'f', -1, 64))
	}
	if query.Longitude != nil {
		values.Set("longitude", strconv.FormatFloat(*query.Longitude, 'f', -1, 64))
	}
	if query.Campus != "" {
		values.Set("campus", query.Campus)
	}
	if query.MaxDistance > 0 {
		values.Set("maxDistance", strconv.FormatFloat(query.MaxDistance, 'f', -1, 64))
	}

	path := "/mess/nearby"
	if encoded := values.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var resp dto.MessListResponse
	if err := c.do(http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *HTTPClient) Mess(id string) (*dto.MessDetail, error) {
	var resp dto.MessDetailResponse
	if err := c.do(http.MethodGet, "/mess/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *HTTPClient) AddReview(req dto.CreateReviewRequest) (*models.Review, error) {
	var resp dto.ReviewResponse
	if err := c.do(http.MethodPost, "/reviews", req, &resp); err != nil {
		return nil, err
	}
	return resp.Review, nil
}

func (c *HTTPClient) ToggleFavorite(messID string) (*dto.ToggleFavoriteResponse, error) {
	var resp dto.ToggleFavoriteResponse
	if err := c.do(http.MethodPost, "/users/favorites/toggle", dto.ToggleFavoriteRequest{MessID: messID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Favorites() ([]models.Mess, error) {
	var resp dto.FavoritesResponse
	if err := c.do(http.MethodGet, "/users/favorites", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Favorites, nil
}

func (c *HTTPClient) Offers() ([]models.ActiveOffer, error) {
	var resp dto.OffersResponse
	if err := c.do(http.MethodGet, "/offers", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Offers, nil
}

func (c *HTTPClient) ClaimOffer(req dto.ClaimOfferRequest) (string, error) {
	var resp dto.MessageResponse
	if err := c.do(http.MethodPost, "/offers/claim", req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}
