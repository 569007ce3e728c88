package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"campusmess/internal/middleware/auth"
	"campusmess/internal/microservices/http-api/dto"
	"campusmess/internal/microservices/http-api/middleware"
	"campusmess/internal/microservices/http-api/models"
	"campusmess/internal/microservices/http-api/repository"
	"campusmess/internal/microservices/http-api/repository/memstore"
	"campusmess/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

// RouterSuite drives the full router against the in-memory store.
type RouterSuite struct {
	suite.Suite
	store  *repository.Store
	tokens *auth.TokenService
	router *gin.Engine
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.store = memstore.NewStore()
	s.tokens = auth.NewTokenService("router-test-secret", 7*24*time.Hour)
	s.router = s.newRouter(nil, nil)
}

func (s *RouterSuite) newRouter(limiter *middleware.RateLimiter, ping func(context.Context) error) *gin.Engine {
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	if ping == nil {
		ping = s.store.Ping
	}
	return NewRouter(Services{
		Auth:   service.NewAuthService(s.store.Users, hasher, s.tokens),
		Users:  service.NewUserService(s.store.Users, s.store.Messes),
		Messes: service.NewMessService(s.store.Messes, s.store.Reviews),
		Review: service.NewReviewService(s.store.Reviews, s.store.Messes, s.store.Users),
		Offers: service.NewOfferService(s.store.Messes),
	}, RouterConfig{
		Tokens:         s.tokens,
		AuthLimiter:    limiter,
		Ping:           ping,
		Static:         fstest.MapFS{"index.html": {Data: []byte("<html>shell</html>")}, "app.js": {Data: []byte("// app")}},
		CORSOrigins:    []string{"*"},
		RequestTimeout: time.Second,
		EnableMetrics:  true,
	})
}

func (s *RouterSuite) request(method, path, token string, body any) *httptest.ResponseRecorder {
	var payload string
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		payload = string(raw)
	}
	req := httptest.NewRequest(method, path, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *RouterSuite) decode(w *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (s *RouterSuite) register(email string) (string, *models.User) {
	w := s.request(http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Name: "A", Email: email, Password: "pw123456", College: "engineering",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.AuthResponse
	s.decode(w, &resp)
	return resp.Token, resp.User
}

func (s *RouterSuite) seedMess(name string, lng, lat float64, campus string, fromCampus float64) *models.Mess {
	mess := &models.Mess{
		Name:               name,
		Location:           models.NewPoint(lng, lat),
		Campus:             campus,
		DistanceFromCampus: fromCampus,
	}
	s.Require().NoError(s.store.Messes.Create(context.Background(), mess))
	return mess
}

func (s *RouterSuite) TestRegisterThenDuplicate() {
	token, user := s.register("a@x.com")
	s.NotEmpty(token)
	s.Equal("a@x.com", user.Email)

	w := s.request(http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Name: "A", Email: "a@x.com", Password: "pw123456", College: "engineering",
	})
	s.Equal(http.StatusBadRequest, w.Code)
	var resp dto.MessageResponse
	s.decode(w, &resp)
	s.False(resp.Success)
	s.Equal("This email is already registered", resp.Message)
}

func (s *RouterSuite) TestTokenSubjectMatchesUser() {
	token, user := s.register("a@x.com")
	subject, err := s.tokens.Verify(token)
	s.Require().NoError(err)
	s.Equal(user.ID, subject)

	w := s.request(http.MethodGet, "/api/users/profile", token, nil)
	s.Equal(http.StatusOK, w.Code)
	var resp dto.ProfileResponse
	s.decode(w, &resp)
	s.Equal(user.ID, resp.User.ID)
	s.NotContains(w.Body.String(), "$2a$")
}

func (s *RouterSuite) TestLoginDoesNotLeakWhichFieldFailed() {
	s.register("a@x.com")

	wrongPassword := s.request(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "a@x.com", Password: "nope-nope"})
	unknownEmail := s.request(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "b@x.com", Password: "pw123456"})

	s.Equal(http.StatusBadRequest, wrongPassword.Code)
	s.Equal(wrongPassword.Code, unknownEmail.Code)
	s.JSONEq(wrongPassword.Body.String(), unknownEmail.Body.String())

	ok := s.request(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "A@X.com", Password: "pw123456"})
	s.Equal(http.StatusOK, ok.Code)
}

func (s *RouterSuite) TestAuthenticationStatuses() {
	w := s.request(http.MethodGet, "/api/users/profile", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.request(http.MethodGet, "/api/users/profile", "not-a-jwt", nil)
	s.Equal(http.StatusForbidden, w.Code)

	other := auth.NewTokenService("another-secret", time.Hour)
	forged, err := other.Issue("someone")
	s.Require().NoError(err)
	w = s.request(http.MethodGet, "/api/users/profile", forged, nil)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.request(http.MethodPost, "/api/reviews", "", dto.CreateReviewRequest{MessID: "x", Rating: 3})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *RouterSuite) TestProfileOfDeletedUserIsNotFound() {
	token, err := s.tokens.Issue("ghost")
	s.Require().NoError(err)
	w := s.request(http.MethodGet, "/api/users/profile", token, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *RouterSuite) TestReviewsKeepAggregateConsistent() {
	token, user := s.register("a@x.com")
	mess := s.seedMess("North", 77.2, 28.5, "north", 100)

	for _, rating := range []int{5, 4, 3} {
		w := s.request(http.MethodPost, "/api/reviews", token, dto.CreateReviewRequest{MessID: mess.ID, Rating: rating, Comment: "ok"})
		s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	}

	w := s.request(http.MethodGet, "/api/mess/"+mess.ID, "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var resp dto.MessDetailResponse
	s.decode(w, &resp)
	s.Equal(3, resp.Data.Mess.ReviewCount)
	s.InDelta(4.0, resp.Data.Mess.Rating, 1e-9)
	s.Require().Len(resp.Data.Reviews, 3)
	s.Equal("A", resp.Data.Reviews[0].User.Name)
	s.Equal(3, resp.Data.Reviews[0].Rating, "newest review first")

	stored, err := s.store.Users.FindByID(context.Background(), user.ID)
	s.Require().NoError(err)
	s.Len(stored.Reviews, 3)
}

func (s *RouterSuite) TestReviewUnknownMess() {
	token, _ := s.register("a@x.com")
	w := s.request(http.MethodPost, "/api/reviews", token, dto.CreateReviewRequest{MessID: "missing", Rating: 3})
	s.Equal(http.StatusNotFound, w.Code)
	var resp dto.MessageResponse
	s.decode(w, &resp)
	s.Equal("Mess not found", resp.Message)
}

func (s *RouterSuite) TestDetailCapsReviewsAtTen() {
	token, _ := s.register("a@x.com")
	mess := s.seedMess("North", 77.2, 28.5, "north", 100)
	for i := 0; i < 12; i++ {
		w := s.request(http.MethodPost, "/api/reviews", token, dto.CreateReviewRequest{MessID: mess.ID, Rating: 1 + i%5})
		s.Require().Equal(http.StatusCreated, w.Code)
	}

	var resp dto.MessDetailResponse
	s.decode(s.request(http.MethodGet, "/api/mess/"+mess.ID, "", nil), &resp)
	s.Len(resp.Data.Reviews, service.DetailReviewLimit)
	s.Equal(12, resp.Data.Mess.ReviewCount)
}

func (s *RouterSuite) TestFavoriteToggleIsAnInvolution() {
	token, _ := s.register("a@x.com")
	first := s.seedMess("First", 77.2, 28.5, "north", 100)
	second := s.seedMess("Second", 77.2, 28.51, "north", 200)

	toggle := func(id string) dto.ToggleFavoriteResponse {
		w := s.request(http.MethodPost, "/api/users/favorites/toggle", token, dto.ToggleFavoriteRequest{MessID: id})
		s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
		var resp dto.ToggleFavoriteResponse
		s.decode(w, &resp)
		return resp
	}

	s.True(toggle(second.ID).IsFavorite)
	s.True(toggle(first.ID).IsFavorite)

	var list dto.FavoritesResponse
	s.decode(s.request(http.MethodGet, "/api/users/favorites", token, nil), &list)
	s.Require().Len(list.Favorites, 2)
	s.Equal(second.ID, list.Favorites[0].ID)
	s.Equal(first.ID, list.Favorites[1].ID)

	removed := toggle(second.ID)
	s.False(removed.IsFavorite)
	s.Equal("Removed from favorites", removed.Message)

	s.decode(s.request(http.MethodGet, "/api/users/favorites", token, nil), &list)
	s.Require().Len(list.Favorites, 1)
	s.Equal(first.ID, list.Favorites[0].ID)

	w := s.request(http.MethodPost, "/api/users/favorites/toggle", token, dto.ToggleFavoriteRequest{MessID: "missing"})
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *RouterSuite) TestNearbyWithinRadiusNearestFirst() {
	// ~1.1 km per 0.01 degree of latitude
	far := s.seedMess("Far", 77.2, 28.53, "north", 10)
	mid := s.seedMess("Mid", 77.2, 28.51, "north", 20)
	near := s.seedMess("Near", 77.2, 28.505, "north", 30)

	var resp dto.MessListResponse
	w := s.request(http.MethodGet, "/api/mess/nearby?latitude=28.5&longitude=77.2&maxDistance=2", "", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.decode(w, &resp)
	s.Require().Len(resp.Data, 2)
	s.Equal(near.ID, resp.Data[0].ID)
	s.Equal(mid.ID, resp.Data[1].ID)

	s.decode(s.request(http.MethodGet, "/api/mess/nearby?campus=north", "", nil), &resp)
	s.Require().Len(resp.Data, 3)
	s.Equal(far.ID, resp.Data[0].ID, "campus listing orders by distanceFromCampus")

	w = s.request(http.MethodGet, "/api/mess/nearby?latitude=28.5", "", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RouterSuite) TestNearbyBlankCoordinatesFallBackToCampus() {
	mess := s.seedMess("Eng Mess", 77.2, 28.5, "eng", 100)

	var resp dto.MessListResponse
	w := s.request(http.MethodGet, "/api/mess/nearby?latitude=&longitude=&maxDistance=&campus=eng", "", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.decode(w, &resp)
	s.Require().Len(resp.Data, 1)
	s.Equal(mess.ID, resp.Data[0].ID)

	w = s.request(http.MethodGet, "/api/mess/nearby?latitude=28.5&longitude=", "", nil)
	s.Equal(http.StatusBadRequest, w.Code, "a single coordinate is still rejected")
}

func (s *RouterSuite) TestNearbyCapsAtTwenty() {
	for i := 0; i < 25; i++ {
		s.seedMess(fmt.Sprintf("Mess %d", i), 77.2, 28.5+float64(i)*0.0001, "north", float64(i))
	}
	var resp dto.MessListResponse
	s.decode(s.request(http.MethodGet, "/api/mess/nearby?latitude=28.5&longitude=77.2", "", nil), &resp)
	s.Len(resp.Data, 20)
}

func (s *RouterSuite) TestOffersExcludeExpired() {
	now := time.Now().UTC()
	mess := &models.Mess{
		Name: "North",
		SpecialOffers: []models.Offer{
			{Title: "expired", ValidUntil: now.Add(-time.Hour)},
			{Title: "later", ValidUntil: now.Add(48 * time.Hour)},
			{Title: "soon", ValidUntil: now.Add(time.Hour)},
		},
	}
	s.Require().NoError(s.store.Messes.Create(context.Background(), mess))

	var resp dto.OffersResponse
	s.decode(s.request(http.MethodGet, "/api/offers", "", nil), &resp)
	s.Require().Len(resp.Offers, 2)
	s.Equal("soon", resp.Offers[0].Title)
	s.Equal("later", resp.Offers[1].Title)
	s.Equal(mess.ID, resp.Offers[0].MessID)
	s.Equal("North", resp.Offers[0].MessName)

	token, _ := s.register("a@x.com")
	w := s.request(http.MethodPost, "/api/offers/claim", token, dto.ClaimOfferRequest{MessID: mess.ID, OfferID: resp.Offers[0].ID})
	s.Equal(http.StatusOK, w.Code)
	w = s.request(http.MethodPost, "/api/offers/claim", "", dto.ClaimOfferRequest{MessID: mess.ID, OfferID: resp.Offers[0].ID})
	s.Equal(http.StatusUnauthorized, w.Code)

	// claims are acknowledged without a lookup
	w = s.request(http.MethodPost, "/api/offers/claim", token, dto.ClaimOfferRequest{MessID: "unknown-mess", OfferID: "unknown-offer"})
	s.Equal(http.StatusOK, w.Code)
}

func (s *RouterSuite) TestFallbackRoutes() {
	w := s.request(http.MethodGet, "/api/nope", "", nil)
	s.Equal(http.StatusNotFound, w.Code)
	var resp dto.MessageResponse
	s.decode(w, &resp)
	s.Equal(MsgRouteNotFound, resp.Message)

	w = s.request(http.MethodGet, "/some/client/route", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "shell")

	w = s.request(http.MethodGet, "/app.js", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "// app")
}

func (s *RouterSuite) TestHealthAndMetrics() {
	w := s.request(http.MethodGet, "/healthz", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"success":true}`, w.Body.String())

	s.router = s.newRouter(nil, func(context.Context) error { return errors.New("down") })
	w = s.request(http.MethodGet, "/healthz", "", nil)
	s.Equal(http.StatusInternalServerError, w.Code)

	w = s.request(http.MethodGet, "/metrics", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "campusmess_http_requests_total")
}

func (s *RouterSuite) TestAuthRoutesAreRateLimited() {
	s.router = s.newRouter(middleware.NewRateLimiter(1, 2), nil)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := s.request(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "a@x.com", Password: "pw123456"})
		codes = append(codes, w.Code)
	}
	s.Equal([]int{http.StatusBadRequest, http.StatusBadRequest, http.StatusTooManyRequests}, codes)

	// other routes are not limited
	w := s.request(http.MethodGet, "/api/offers", "", nil)
	s.Equal(http.StatusOK, w.Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	router := NewRouter(Services{}, RouterConfig{Tokens: auth.NewTokenService("x", time.Hour)})
	req := httptest.NewRequest(http.MethodGet, "/api/missing", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "req-123", w.Header().Get(middleware.RequestIDHeader))
}
