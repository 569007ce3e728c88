package client

// demo_client.go is an offline stand-in for the API. Only the two auth calls
// are simulated, with one fixed outcome each for accepted and rejected input.

import (
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"campusmess/internal/microservices/http-api/dto"
	"campusmess/internal/microservices/http-api/models"
)

const (
	DemoEmail    = "demo@campusmess.com"
	DemoPassword = "password123"
	demoToken    = "demo-token"
)

// ErrDemoUnsupported is returned by every call the demo client does not simulate.
var ErrDemoUnsupported = errors.New("not available in demo mode, run without --demo against a server")

type DemoClient struct {
	// Delay emulates network latency before each auth answer.
	Delay time.Duration
}

func NewDemoClient() *DemoClient {
	return &DemoClient{Delay: time.Second}
}

func (c *DemoClient) SetToken(string) {}

func (c *DemoClient) Register(req dto.RegisterRequest) (*dto.AuthResponse, error) {
	time.Sleep(c.Delay)
	if req.Email == DemoEmail {
		return nil, &APIError{StatusCode: http.StatusBadRequest, Message: "This email is already registered"}
	}
	return &dto.AuthResponse{
		Success: true,
		Token:   demoToken,
		User: &models.User{
			ID:      fmt.Sprintf("user%d", rand.Intn(1000)),
			Name:    req.Name,
			Email:   req.Email,
			College: req.College,
		},
	}, nil
}

func (c *DemoClient) Login(req dto.LoginRequest) (*dto.AuthResponse, error) {
	time.Sleep(c.Delay)
	if req.Email != DemoEmail || req.Password != DemoPassword {
		return nil, &APIError{StatusCode: http.StatusBadRequest, Message: "Invalid email or password"}
	}
	return &dto.AuthResponse{
		Success: true,
		Token:   demoToken,
		User: &models.User{
			ID:      "user123",
			Name:    "Demo User",
			Email:   DemoEmail,
			College: "Engineering College",
		},
	}, nil
}

func (c *DemoClient) Profile() (*models.User, error) { return nil, ErrDemoUnsupported }

func (c *DemoClient) Nearby(NearbyParams) ([]models.Mess, error) { return nil, ErrDemoUnsupported }

func (c *DemoClient) Mess(string) (*dto.MessDetail, error) { return nil, ErrDemoUnsupported }

func (c *DemoClient) AddReview(dto.CreateReviewRequest) (*models.Review, error) {
	return nil, ErrDemoUnsupported
}

func (c *DemoClient) ToggleFavorite(string) (*dto.ToggleFavoriteResponse, error) {
	return nil, ErrDemoUnsupported
}

func (c *DemoClient) Favorites() ([]models.Mess, error) { return nil, ErrDemoUnsupported }

func (c *DemoClient) Offers() ([]models.ActiveOffer, error) { return nil, ErrDemoUnsupported }

func (c *DemoClient) ClaimOffer(dto.ClaimOfferRequest) (string, error) {
	return "", ErrDemoUnsupported
}
