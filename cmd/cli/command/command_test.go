package command

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"campusmess/cmd/cli/authentication"
	"campusmess/cmd/cli/command/client"
	"campusmess/internal/middleware/auth"
	"campusmess/internal/microservices/http-api/dto"
	"campusmess/internal/microservices/http-api/handler"
	"campusmess/internal/microservices/http-api/models"
	"campusmess/internal/microservices/http-api/repository"
	"campusmess/internal/microservices/http-api/repository/memstore"
	"campusmess/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
	"golang.org/x/crypto/bcrypt"
)

func startServer(t *testing.T) (*httptest.Server, *repository.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	keyring.MockInit()

	store := memstore.NewStore()
	tokens := auth.NewTokenService("cli-test-secret", time.Hour)
	router := handler.NewRouter(handler.Services{
		Auth:   service.NewAuthService(store.Users, auth.NewPasswordHasher(bcrypt.MinCost), tokens),
		Users:  service.NewUserService(store.Users, store.Messes),
		Messes: service.NewMessService(store.Messes, store.Reviews),
		Review: service.NewReviewService(store.Reviews, store.Messes, store.Users),
		Offers: service.NewOfferService(store.Messes),
	}, handler.RouterConfig{Tokens: tokens, Ping: store.Ping})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, store
}

// run executes one CLI invocation and returns its output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&options{newClient: defaultClient})
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAuthFlow(t *testing.T) {
	srv, _ := startServer(t)
	api := "--api=" + srv.URL + "/api"

	out, err := run(t, api, "auth", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in.")

	out, err = run(t, api, "auth", "register", "-n", "Asha", "-e", "asha@x.com", "-p", "pw123456", "-c", "engineering")
	require.NoError(t, err)
	assert.Contains(t, out, "Registration successful")

	session, err := authentication.LoadSession()
	require.NoError(t, err)
	assert.Equal(t, "asha@x.com", session.Email)
	assert.NotEmpty(t, session.Token)

	out, err = run(t, api, "auth", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Asha <asha@x.com>")

	_, err = run(t, api, "auth", "register", "-n", "Asha", "-e", "asha@x.com", "-p", "pw123456", "-c", "engineering")
	assert.ErrorContains(t, err, "This email is already registered")

	out, err = run(t, api, "auth", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "logged out")
	_, err = authentication.LoadSession()
	assert.ErrorIs(t, err, authentication.ErrNoSession)

	_, err = run(t, api, "auth", "login", "-e", "asha@x.com", "-p", "wrong-password")
	assert.ErrorContains(t, err, "Invalid email or password")

	out, err = run(t, api, "auth", "login", "-e", "asha@x.com", "-p", "pw123456")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as Asha")
}

func TestRejectedTokenClearsSession(t *testing.T) {
	srv, _ := startServer(t)
	require.NoError(t, authentication.SaveSession(&authentication.Session{ID: "x", Name: "X", Token: "forged"}))

	_, err := run(t, "--api="+srv.URL+"/api", "fav", "list")
	assert.ErrorContains(t, err, "session cleared")

	_, err = authentication.LoadSession()
	assert.ErrorIs(t, err, authentication.ErrNoSession)
}

func TestMessReviewFavoriteOffers(t *testing.T) {
	srv, store := startServer(t)
	api := "--api=" + srv.URL + "/api"

	mess := &models.Mess{
		Name:               "Annapurna",
		Location:           models.NewPoint(77.2090, 28.6139),
		Campus:             "engineering",
		DistanceFromCampus: 350,
		SpecialOffers:      []models.Offer{{Title: "Student Thali", ValidUntil: time.Now().Add(24 * time.Hour)}},
	}
	require.NoError(t, store.Messes.Create(context.Background(), mess))

	_, err := run(t, api, "review", "add", mess.ID, "4")
	assert.ErrorContains(t, err, "not logged in")

	_, err = run(t, api, "auth", "register", "-n", "Asha", "-e", "asha@x.com", "-p", "pw123456", "-c", "engineering")
	require.NoError(t, err)

	out, err := run(t, api, "mess", "nearby", "--lat", "28.6139", "--lng", "77.2090", "--max-distance", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Annapurna")

	_, err = run(t, api, "mess", "nearby", "--lat", "28.6139")
	assert.ErrorContains(t, err, "--lat and --lng")

	_, err = run(t, api, "review", "add", mess.ID, "9")
	assert.ErrorContains(t, err, "rating must be between 1 and 5")

	out, err = run(t, api, "review", "add", mess.ID, "4", "-m", "great thali")
	require.NoError(t, err)
	assert.Contains(t, out, "Your Rating: 4/5")

	out, err = run(t, api, "mess", "show", mess.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Rating: 4.0 from 1 reviews")
	assert.Contains(t, out, "great thali")

	out, err = run(t, api, "fav", "toggle", mess.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Added to favorites")

	out, err = run(t, api, "fav", "list")
	require.NoError(t, err)
	assert.Contains(t, out, mess.ID)

	out, err = run(t, api, "offers", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Student Thali at Annapurna")

	out, err = run(t, api, "offers", "claim", mess.ID, mess.SpecialOffers[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Offer claimed successfully")
}

func TestDemoClient(t *testing.T) {
	keyring.MockInit()
	demo := &client.DemoClient{}

	_, err := demo.Login(dto.LoginRequest{Email: "someone@x.com", Password: client.DemoPassword})
	assert.ErrorContains(t, err, "Invalid email or password")

	resp, err := demo.Login(dto.LoginRequest{Email: client.DemoEmail, Password: client.DemoPassword})
	require.NoError(t, err)
	assert.Equal(t, "Demo User", resp.User.Name)

	_, err = demo.Register(dto.RegisterRequest{Name: "Demo", Email: client.DemoEmail, Password: "pw123456"})
	assert.ErrorContains(t, err, "This email is already registered")

	resp, err = demo.Register(dto.RegisterRequest{Name: "New", Email: "new@x.com", Password: "pw123456"})
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", resp.User.Email)

	_, err = demo.Offers()
	assert.ErrorIs(t, err, client.ErrDemoUnsupported)
}

func TestDemoFlagUsesDemoClient(t *testing.T) {
	keyring.MockInit()
	opts := &options{demo: true}
	_, isDemo := defaultClient(opts).(*client.DemoClient)
	assert.True(t, isDemo)

	opts.demo = false
	_, isHTTP := defaultClient(opts).(*client.HTTPClient)
	assert.True(t, isHTTP)
}
