package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/smartfit/smartfit-backend/config"
	"github.com/smartfit/smartfit-backend/storage"
	"github.com/smartfit/smartfit-backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *http.ServeMux {
	config.JWTSecret = "test-secret"
	mux := http.NewServeMux()
	NewHandler(storage.NewMemStore()).RegisterRoutes(mux)
	return mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func signupUser(t *testing.T, mux *http.ServeMux, username, email string) string {
	t.Helper()
	rec := doJSON(t, mux, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"username": username,
		"email":    email,
		"password": "password1",
		"fullName": "Test User",
	})
	require.Equal(t, http.StatusOK, rec.Code, "signup failed: %s", rec.Body.String())
	token, _ := decodeBody(t, rec)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestSignup_DuplicateRejected(t *testing.T) {
	mux := newTestServer()

	signupUser(t, mux, "alice", "a@x.com")

	rec := doJSON(t, mux, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"username": "alice2",
		"email":    "a@x.com",
		"password": "password1",
		"fullName": "Alice A",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already exists", decodeBody(t, rec)["error"])
}

func TestSignup_ValidationFailures(t *testing.T) {
	mux := newTestServer()

	tests := []struct {
		name    string
		payload map[string]string
	}{
		{"short password", map[string]string{"username": "u", "email": "u@x.com", "password": "short", "fullName": "U"}},
		{"bad email", map[string]string{"username": "u", "email": "not-an-email", "password": "password1", "fullName": "U"}},
		{"missing username", map[string]string{"email": "u@x.com", "password": "password1", "fullName": "U"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, mux, http.MethodPost, "/api/auth/signup", "", tt.payload)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLogin_GenericUnauthorized(t *testing.T) {
	mux := newTestServer()
	signupUser(t, mux, "bob", "b@x.com")

	// Unknown email and wrong password must be indistinguishable.
	unknown := doJSON(t, mux, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "nobody@x.com", "password": "password1",
	})
	wrongPass := doJSON(t, mux, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "b@x.com", "password": "wrongpassword",
	})

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.Equal(t, decodeBody(t, unknown)["error"], decodeBody(t, wrongPass)["error"])
}

func TestLoginAndMe(t *testing.T) {
	mux := newTestServer()
	signupUser(t, mux, "carol", "c@x.com")

	login := doJSON(t, mux, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "c@x.com", "password": "password1",
	})
	require.Equal(t, http.StatusOK, login.Code)
	token, _ := decodeBody(t, login)["token"].(string)
	require.NotEmpty(t, token)

	me := doJSON(t, mux, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, me.Code)
	body := decodeBody(t, me)
	assert.Equal(t, "carol", body["username"])
	assert.Equal(t, "c@x.com", body["email"])
	assert.NotContains(t, me.Body.String(), "password")
}

func TestAuth_MissingVersusInvalidToken(t *testing.T) {
	mux := newTestServer()

	// Missing header is 401; a presented but unusable token is 403.
	missing := doJSON(t, mux, http.MethodGet, "/api/measurements", "", nil)
	assert.Equal(t, http.StatusUnauthorized, missing.Code)

	invalid := doJSON(t, mux, http.MethodGet, "/api/measurements", "not-a-valid-token", nil)
	assert.Equal(t, http.StatusForbidden, invalid.Code)
}

func TestAuth_NonBearerSchemeRejected(t *testing.T) {
	mux := newTestServer()
	token := signupUser(t, mux, "mary", "m@x.com")

	// Only the Bearer scheme is honored; anything else is an unusable
	// credential, even when the embedded token would verify.
	for _, header := range []string{"Basic " + token, token, "bearer " + token} {
		req := httptest.NewRequest(http.MethodGet, "/api/measurements", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code, "header %q", header)
	}
}

func TestMeasurements_GetNullThenUpsert(t *testing.T) {
	mux := newTestServer()
	token := signupUser(t, mux, "dave", "d@x.com")

	empty := doJSON(t, mux, http.MethodGet, "/api/measurements", token, nil)
	require.Equal(t, http.StatusOK, empty.Code)
	assert.Equal(t, "null", strings.TrimSpace(empty.Body.String()), "no record yet responds with null, not 404")

	first := doJSON(t, mux, http.MethodPost, "/api/measurements", token, map[string]any{
		"chest": 100.0, "shoulders": 45.0, "confidence": map[string]float64{"chest": 0.9},
	})
	require.Equal(t, http.StatusOK, first.Code)
	firstBody := decodeBody(t, first)

	second := doJSON(t, mux, http.MethodPost, "/api/measurements", token, map[string]any{
		"chest": 102.0, "shoulders": 45.0,
	})
	require.Equal(t, http.StatusOK, second.Code)
	secondBody := decodeBody(t, second)

	assert.Equal(t, firstBody["id"], secondBody["id"], "upsert keeps the record identity")
	assert.Equal(t, firstBody["createdAt"], secondBody["createdAt"])
	assert.Equal(t, 102.0, secondBody["chest"])
}

func TestProducts_CreateGetAndCrossUserRead(t *testing.T) {
	mux := newTestServer()
	owner := signupUser(t, mux, "erin", "e@x.com")
	other := signupUser(t, mux, "frank", "f@x.com")

	created := doJSON(t, mux, http.MethodPost, "/api/products", owner, map[string]any{
		"name":         "Oxford Shirt",
		"brand":        "Arrow",
		"size":         "M",
		"measurements": map[string]float64{"chest": 102},
	})
	require.Equal(t, http.StatusCreated, created.Code)
	productID, _ := decodeBody(t, created)["id"].(string)
	require.NotEmpty(t, productID)

	// Products are a shared catalog: any authenticated user can read any id.
	fetched := doJSON(t, mux, http.MethodGet, "/api/products/"+productID, other, nil)
	require.Equal(t, http.StatusOK, fetched.Code)
	assert.Equal(t, "Oxford Shirt", decodeBody(t, fetched)["name"])

	missing := doJSON(t, mux, http.MethodGet, "/api/products/does-not-exist", owner, nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)

	list := doJSON(t, mux, http.MethodGet, "/api/products", owner, nil)
	require.Equal(t, http.StatusOK, list.Code)
	var products []map[string]any
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &products))
	assert.Len(t, products, 1)
}

func TestImportProduct_FromPageMetadata(t *testing.T) {
	mux := newTestServer()
	token := signupUser(t, mux, "nina", "n@x.com")

	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head>
			<meta property="og:title" content="Denim Jacket">
			<meta property="og:site_name" content="Clothier">
			<meta property="og:image" content="https://cdn.example.com/jacket.jpg">
			<meta property="og:description" content="A classic denim jacket.">
			</head><body></body></html>`)
	}))
	defer page.Close()

	rec := doJSON(t, mux, http.MethodPost, "/api/products/import", token, map[string]string{"url": page.URL})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "Denim Jacket", body["name"])
	assert.Equal(t, "Clothier", body["brand"])
	assert.Equal(t, "https://cdn.example.com/jacket.jpg", body["imageUrl"])
	assert.Equal(t, "A classic denim jacket.", body["description"])

	list := doJSON(t, mux, http.MethodGet, "/api/products", token, nil)
	require.Equal(t, http.StatusOK, list.Code)
	var products []map[string]any
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &products))
	assert.Len(t, products, 1, "imported products land in the caller's catalog")
}

func TestImportProduct_BadSourcesAre400(t *testing.T) {
	mux := newTestServer()
	token := signupUser(t, mux, "oscar", "o@x.com")

	// Non-HTML payload with nothing resembling a title.
	blank := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"not": "a product page"}`)
	}))
	defer blank.Close()
	rec := doJSON(t, mux, http.MethodPost, "/api/products/import", token, map[string]string{"url": blank.URL})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Upstream error status.
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusInternalServerError)
	}))
	defer failing.Close()
	rec = doJSON(t, mux, http.MethodPost, "/api/products/import", token, map[string]string{"url": failing.URL})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unreachable host.
	gone := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	goneURL := gone.URL
	gone.Close()
	rec = doJSON(t, mux, http.MethodPost, "/api/products/import", token, map[string]string{"url": goneURL})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Not a URL at all fails validation before any fetch.
	rec = doJSON(t, mux, http.MethodPost, "/api/products/import", token, map[string]string{"url": "not a url"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFitPredict_EndToEnd(t *testing.T) {
	mux := newTestServer()
	token := signupUser(t, mux, "grace", "g@x.com")

	save := doJSON(t, mux, http.MethodPost, "/api/measurements", token, map[string]any{"chest": 100.0})
	require.Equal(t, http.StatusOK, save.Code)

	tests := []struct {
		name         string
		productChest float64
		fitStatus    string
		prediction   string
	}{
		{"exact match", 100, "perfect", "perfect"},
		{"snug", 103, "acceptable", "tight"},
		{"way too large", 106, "poor", "too_large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created := doJSON(t, mux, http.MethodPost, "/api/products", token, map[string]any{
				"name":         fmt.Sprintf("Shirt %v", tt.productChest),
				"measurements": map[string]float64{"chest": tt.productChest},
			})
			require.Equal(t, http.StatusCreated, created.Code)
			productID, _ := decodeBody(t, created)["id"].(string)

			rec := doJSON(t, mux, http.MethodPost, "/api/fit-predict", token, map[string]string{"productId": productID})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			body := decodeBody(t, rec)
			assert.Equal(t, tt.fitStatus, body["fitStatus"])
			assert.NotEmpty(t, body["id"])

			analysis, _ := body["analysis"].(map[string]any)
			require.NotNil(t, analysis)
			predictions, _ := analysis["predictions"].(map[string]any)
			assert.Equal(t, tt.prediction, predictions["chest"])
		})
	}

	analyses := doJSON(t, mux, http.MethodGet, "/api/fit-analyses", token, nil)
	require.Equal(t, http.StatusOK, analyses.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(analyses.Body.Bytes(), &list))
	assert.Len(t, list, 3, "every prediction is persisted")
}

func TestFitPredict_MissingInputsAre400(t *testing.T) {
	mux := newTestServer()
	token := signupUser(t, mux, "heidi", "h@x.com")

	noProduct := doJSON(t, mux, http.MethodPost, "/api/fit-predict", token, map[string]string{"productId": "missing"})
	assert.Equal(t, http.StatusBadRequest, noProduct.Code)

	created := doJSON(t, mux, http.MethodPost, "/api/products", token, map[string]any{"name": "Shirt"})
	require.Equal(t, http.StatusCreated, created.Code)
	productID, _ := decodeBody(t, created)["id"].(string)

	// No measurements captured yet.
	noMeasurement := doJSON(t, mux, http.MethodPost, "/api/fit-predict", token, map[string]string{"productId": productID})
	assert.Equal(t, http.StatusBadRequest, noMeasurement.Code)
}

func TestFitPredict_ProductWithoutMeasurementsIsOptimistic(t *testing.T) {
	mux := newTestServer()
	token := signupUser(t, mux, "ivan", "i@x.com")

	save := doJSON(t, mux, http.MethodPost, "/api/measurements", token, map[string]any{"chest": 100.0})
	require.Equal(t, http.StatusOK, save.Code)

	created := doJSON(t, mux, http.MethodPost, "/api/products", token, map[string]any{"name": "Mystery Jacket"})
	require.Equal(t, http.StatusCreated, created.Code)
	productID, _ := decodeBody(t, created)["id"].(string)

	rec := doJSON(t, mux, http.MethodPost, "/api/fit-predict", token, map[string]string{"productId": productID})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)

	// Documented optimistic default: no data means a perfect fit.
	assert.Equal(t, "perfect", body["fitStatus"])
	analysis, _ := body["analysis"].(map[string]any)
	predictions, _ := analysis["predictions"].(map[string]any)
	assert.Empty(t, predictions)
}

func TestFavorites_Flow(t *testing.T) {
	mux := newTestServer()
	token := signupUser(t, mux, "judy", "j@x.com")

	created := doJSON(t, mux, http.MethodPost, "/api/products", token, map[string]any{"name": "Jacket"})
	require.Equal(t, http.StatusCreated, created.Code)
	productID, _ := decodeBody(t, created)["id"].(string)

	add := doJSON(t, mux, http.MethodPost, "/api/favorites", token, map[string]string{"productId": productID})
	require.Equal(t, http.StatusCreated, add.Code)

	list := doJSON(t, mux, http.MethodGet, "/api/favorites", token, nil)
	require.Equal(t, http.StatusOK, list.Code)
	var favorites []map[string]any
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &favorites))
	require.Len(t, favorites, 1)
	product, _ := favorites[0]["product"].(map[string]any)
	require.NotNil(t, product, "favorites are joined to their product")
	assert.Equal(t, "Jacket", product["name"])

	remove := doJSON(t, mux, http.MethodDelete, "/api/favorites/"+productID, token, nil)
	require.Equal(t, http.StatusOK, remove.Code)

	// Deleting again is still a success.
	removeAgain := doJSON(t, mux, http.MethodDelete, "/api/favorites/"+productID, token, nil)
	assert.Equal(t, http.StatusOK, removeAgain.Code)

	empty := doJSON(t, mux, http.MethodGet, "/api/favorites", token, nil)
	require.Equal(t, http.StatusOK, empty.Code)
	require.NoError(t, json.Unmarshal(empty.Body.Bytes(), &favorites))
	assert.Empty(t, favorites)
}

func TestRecommendations_SeedIsIdempotent(t *testing.T) {
	mux := newTestServer()
	token := signupUser(t, mux, "kim", "k@x.com")

	first := doJSON(t, mux, http.MethodPost, "/api/recommendations/seed", token, nil)
	require.Equal(t, http.StatusCreated, first.Code)
	var seeded []map[string]any
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &seeded))
	require.NotEmpty(t, seeded)

	second := doJSON(t, mux, http.MethodPost, "/api/recommendations/seed", token, nil)
	require.Equal(t, http.StatusOK, second.Code)
	var again []map[string]any
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &again))
	assert.Len(t, again, len(seeded), "re-seeding must not duplicate the feed")
}

func TestNotificationsAndHistory_WrittenServerSide(t *testing.T) {
	mux := newTestServer()
	token := signupUser(t, mux, "leo", "l@x.com")

	notifications := doJSON(t, mux, http.MethodGet, "/api/notifications", token, nil)
	require.Equal(t, http.StatusOK, notifications.Code)
	var notifs []map[string]any
	require.NoError(t, json.Unmarshal(notifications.Body.Bytes(), &notifs))
	require.NotEmpty(t, notifs, "signup creates a welcome notification")
	assert.Equal(t, false, notifs[0]["isRead"])

	id, _ := notifs[0]["id"].(string)
	marked := doJSON(t, mux, http.MethodPut, "/api/notifications/"+id+"/read", token, nil)
	require.Equal(t, http.StatusOK, marked.Code)

	after := doJSON(t, mux, http.MethodGet, "/api/notifications", token, nil)
	require.NoError(t, json.Unmarshal(after.Body.Bytes(), &notifs))
	assert.Equal(t, true, notifs[0]["isRead"])

	history := doJSON(t, mux, http.MethodGet, "/api/history", token, nil)
	require.Equal(t, http.StatusOK, history.Code)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal(history.Body.Bytes(), &entries))
	require.NotEmpty(t, entries, "signup is recorded in history")

	posted := doJSON(t, mux, http.MethodPost, "/api/history", token, map[string]any{
		"action":  "viewed_tryon",
		"details": "AR overlay opened",
	})
	assert.Equal(t, http.StatusCreated, posted.Code)
}

func TestMe_GoneSubjectIs404(t *testing.T) {
	mux := newTestServer()

	// A structurally valid token whose subject was never created.
	ghost, err := utils.GenerateToken("ghost-user-id")
	require.NoError(t, err)

	rec := doJSON(t, mux, http.MethodGet, "/api/auth/me", ghost, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
