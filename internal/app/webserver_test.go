package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorilla/mux"

	"github.com/specialistvlad/nodecanvas/internal/fieldref"
)

// newTestRouter builds an app with one blank_image node and returns its
// inspection router.
func newTestRouter(t *testing.T) (*App, *mux.Router) {
	t.Helper()

	cfg := &Config{ManifestsPath: writeManifests(t)}
	testApp, _ := SetupAppTest(t, cfg)

	_, err := testApp.Session().Canvas().AddNode(context.Background(), "blank_image", "bg")
	require.NoError(t, err)

	return testApp, testApp.router()
}

func TestHealthEndpoint(t *testing.T) {
	_, router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK\n", rec.Body.String())
}

func TestListNodes(t *testing.T) {
	_, router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/nodes", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id": "bg", "type": "blank_image", "fields": ["width", "color"]}]`, rec.Body.String())
}

func TestGetField(t *testing.T) {
	_, router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/nodes/bg/fields/width", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"control": "slider", "value": 512, "min": 64, "max": 2048, "step": 8}`, rec.Body.String())
}

func TestGetFieldNotFound(t *testing.T) {
	_, router := newTestRouter(t)

	for _, path := range []string{
		"/api/nodes/ghost/fields/width",
		"/api/nodes/bg/fields/dpi",
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestPutField(t *testing.T) {
	ctx := context.Background()
	testApp, router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/api/nodes/bg/fields/width", strings.NewReader(`2100`))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	// Overshoot normalized onto the constraint grid before landing.
	assert.JSONEq(t, `{"control": "slider", "value": 2048, "min": 64, "max": 2048, "step": 8}`, rec.Body.String())

	val, err := testApp.Session().Store().Get(ctx, fieldref.New("bg", "width"))
	require.NoError(t, err)
	assert.Equal(t, int64(2048), val.AsInt())
}

func TestPutFieldRejected(t *testing.T) {
	ctx := context.Background()
	testApp, router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/api/nodes/bg/fields/width", strings.NewReader(`"wide"`))
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	val, err := testApp.Session().Store().Get(ctx, fieldref.New("bg", "width"))
	require.NoError(t, err)
	assert.Equal(t, int64(512), val.AsInt(), "rejected input leaves the slot untouched")
}

func TestPutFieldUnknownRef(t *testing.T) {
	_, router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/api/nodes/ghost/fields/width", strings.NewReader(`640`))
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
