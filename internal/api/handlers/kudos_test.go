package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hugh/kudosboard/internal/api/dto"
	"github.com/hugh/kudosboard/internal/api/handlers"
	"github.com/hugh/kudosboard/internal/api/middleware"
	"github.com/hugh/kudosboard/internal/database/models"
	"github.com/hugh/kudosboard/internal/kudos"
	"github.com/hugh/kudosboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupKudosTestRouter(t *testing.T) (*chi.Mux, *testutil.TestSetup) {
	tc := testutil.NewTestContext(t)

	r := chi.NewRouter()
	r.Use(middleware.Auth(tc.JWTService))

	handler := handlers.NewKudosHandler(kudos.NewService(tc.DB))
	r.Route("/api/v1/kudos", func(r chi.Router) {
		r.Post("/give", handler.Give)
		r.Get("/history", handler.History)
		r.Get("/received", handler.Received)
		r.Get("/leaderboard", handler.Leaderboard)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleOwner))
			r.Delete("/{id}", handler.Deactivate)
			r.Post("/{id}/restore", handler.Restore)
		})
	})

	return r, tc
}

func TestKudosHandler_Give(t *testing.T) {
	t.Run("gives kudos to a teammate", func(t *testing.T) {
		router, tc := setupKudosTestRouter(t)
		defer tc.Cleanup()

		receiver := testutil.CreateTestUser(t, tc.DB, tc.Org)

		req := testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/kudos/give", map[string]interface{}{
			"receiver_id": receiver.ID.String(),
			"message":     "shipped the migration flawlessly",
		}, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		testutil.AssertStatus(t, rr, http.StatusCreated)

		var env dto.Envelope
		testutil.ParseJSONResponse(t, rr, &env)
		assert.Equal(t, "created", env.Action)

		data := env.Data.(map[string]interface{})
		assert.Equal(t, "shipped the migration flawlessly", data["message"])
		sender := data["sender"].(map[string]interface{})
		assert.Equal(t, tc.User.ID.String(), sender["id"])
	})

	t.Run("requires authentication", func(t *testing.T) {
		router, tc := setupKudosTestRouter(t)
		defer tc.Cleanup()

		req := testutil.UnauthenticatedRequest(t, http.MethodPost, "/api/v1/kudos/give", map[string]interface{}{
			"receiver_id": uuid.NewString(),
			"message":     "hi",
		})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})

	t.Run("empty message fails validation", func(t *testing.T) {
		router, tc := setupKudosTestRouter(t)
		defer tc.Cleanup()

		receiver := testutil.CreateTestUser(t, tc.DB, tc.Org)

		req := testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/kudos/give", map[string]interface{}{
			"receiver_id": receiver.ID.String(),
			"message":     "   ",
		}, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})

	t.Run("self kudos is rejected with its own action", func(t *testing.T) {
		router, tc := setupKudosTestRouter(t)
		defer tc.Cleanup()

		req := testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/kudos/give", map[string]interface{}{
			"receiver_id": tc.User.ID.String(),
			"message":     "good job me",
		}, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		testutil.AssertStatus(t, rr, http.StatusBadRequest)

		var env dto.Envelope
		testutil.ParseJSONResponse(t, rr, &env)
		assert.Equal(t, "self_kudos_forbidden", env.Action)
	})

	t.Run("exhausted balance reports insufficient_balance", func(t *testing.T) {
		router, tc := setupKudosTestRouter(t)
		defer tc.Cleanup()

		receiver := testutil.CreateTestUser(t, tc.DB, tc.Org)

		give := func() *httptest.ResponseRecorder {
			req := testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/kudos/give", map[string]interface{}{
				"receiver_id": receiver.ID.String(),
				"message":     "thanks",
			}, tc.Token)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			return rr
		}

		for i := 0; i < models.DefaultKudosAllowance; i++ {
			require.Equal(t, http.StatusCreated, give().Code)
		}

		rr := give()
		testutil.AssertStatus(t, rr, http.StatusBadRequest)

		var env dto.Envelope
		testutil.ParseJSONResponse(t, rr, &env)
		assert.Equal(t, "insufficient_balance", env.Action)
	})

	t.Run("unknown receiver is not found", func(t *testing.T) {
		router, tc := setupKudosTestRouter(t)
		defer tc.Cleanup()

		req := testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/kudos/give", map[string]interface{}{
			"receiver_id": uuid.NewString(),
			"message":     "hello",
		}, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		testutil.AssertStatus(t, rr, http.StatusNotFound)
	})
}

func TestKudosHandler_History(t *testing.T) {
	t.Run("paginates sent kudos", func(t *testing.T) {
		router, tc := setupKudosTestRouter(t)
		defer tc.Cleanup()

		receiver := testutil.CreateTestUser(t, tc.DB, tc.Org)
		for i := 0; i < 3; i++ {
			testutil.CreateTestKudos(t, tc.DB, tc.User, receiver, fmt.Sprintf("msg %d", i))
		}

		req := testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/kudos/history?page=1&page_size=2", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		testutil.AssertStatus(t, rr, http.StatusOK)

		var env dto.PaginatedEnvelope
		testutil.ParseJSONResponse(t, rr, &env)
		assert.EqualValues(t, 3, env.Count)
		assert.Equal(t, 1, env.CurrentPage)
		assert.Equal(t, 2, env.TotalPages)
		assert.Equal(t, 2, env.PageSize)
		require.NotNil(t, env.Next)
		assert.Contains(t, *env.Next, "page=2")
		assert.Nil(t, env.Previous)
		assert.Len(t, env.Data.([]interface{}), 2)
	})

	t.Run("received lists only incoming kudos", func(t *testing.T) {
		router, tc := setupKudosTestRouter(t)
		defer tc.Cleanup()

		other := testutil.CreateTestUser(t, tc.DB, tc.Org)
		testutil.CreateTestKudos(t, tc.DB, other, tc.User, "for you")
		testutil.CreateTestKudos(t, tc.DB, tc.User, other, "for them")

		req := testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/kudos/received", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		testutil.AssertStatus(t, rr, http.StatusOK)

		var env dto.PaginatedEnvelope
		testutil.ParseJSONResponse(t, rr, &env)
		assert.EqualValues(t, 1, env.Count)
		entry := env.Data.([]interface{})[0].(map[string]interface{})
		assert.Equal(t, "for you", entry["message"])
	})

	t.Run("invalid date filter fails validation", func(t *testing.T) {
		router, tc := setupKudosTestRouter(t)
		defer tc.Cleanup()

		req := testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/kudos/history?start_date=03-01-2026", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})
}

func TestKudosHandler_Leaderboard(t *testing.T) {
	router, tc := setupKudosTestRouter(t)
	defer tc.Cleanup()

	star := testutil.CreateTestUser(t, tc.DB, tc.Org)
	testutil.CreateTestKudos(t, tc.DB, tc.User, star, "one")

	req := testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/kudos/leaderboard", nil, tc.Token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	testutil.AssertStatus(t, rr, http.StatusOK)

	var env dto.PaginatedEnvelope
	testutil.ParseJSONResponse(t, rr, &env)
	assert.EqualValues(t, 2, env.Count)

	entries := env.Data.([]interface{})
	top := entries[0].(map[string]interface{})
	assert.Equal(t, star.ID.String(), top["id"])
	assert.EqualValues(t, 1, top["kudos_received_count"])
}

func TestKudosHandler_DeactivateRestore(t *testing.T) {
	t.Run("members cannot moderate", func(t *testing.T) {
		router, tc := setupKudosTestRouter(t)
		defer tc.Cleanup()

		other := testutil.CreateTestUser(t, tc.DB, tc.Org)
		entry := testutil.CreateTestKudos(t, tc.DB, tc.User, other, "hide me")

		req := testutil.AuthenticatedRequest(t, http.MethodDelete, "/api/v1/kudos/"+entry.ID.String(), nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		testutil.AssertStatus(t, rr, http.StatusForbidden)
	})

	t.Run("owner hides and restores a transfer", func(t *testing.T) {
		router, tc := setupKudosTestRouter(t)
		defer tc.Cleanup()

		owner := testutil.CreateTestOwner(t, tc.DB, tc.Org)
		ownerToken := testutil.GenerateTestToken(t, tc.JWTService, owner)
		other := testutil.CreateTestUser(t, tc.DB, tc.Org)
		entry := testutil.CreateTestKudos(t, tc.DB, tc.User, other, "hide me")

		req := testutil.AuthenticatedRequest(t, http.MethodDelete, "/api/v1/kudos/"+entry.ID.String(), nil, ownerToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, http.StatusOK)

		var stored models.Kudos
		require.NoError(t, tc.DB.First(&stored, "id = ?", entry.ID).Error)
		assert.False(t, stored.IsActive)

		req = testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/kudos/"+entry.ID.String()+"/restore", nil, ownerToken)
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, http.StatusOK)

		require.NoError(t, tc.DB.First(&stored, "id = ?", entry.ID).Error)
		assert.True(t, stored.IsActive)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		router, tc := setupKudosTestRouter(t)
		defer tc.Cleanup()

		owner := testutil.CreateTestOwner(t, tc.DB, tc.Org)
		ownerToken := testutil.GenerateTestToken(t, tc.JWTService, owner)

		req := testutil.AuthenticatedRequest(t, http.MethodDelete, "/api/v1/kudos/"+uuid.NewString(), nil, ownerToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		testutil.AssertStatus(t, rr, http.StatusNotFound)
	})
}
