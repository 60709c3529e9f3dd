package listings

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	imagesvc "dreamstay-backend/internal/application/images"
	lesvc "dreamstay-backend/internal/application/listingevents"
	listsvc "dreamstay-backend/internal/application/listings"
	"dreamstay-backend/internal/domain"
	"dreamstay-backend/internal/infrastructure/database"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContent struct {
	err error
}

func (f *fakeContent) Generate(ctx context.Context) (*domain.Listing, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Listing{
		Title: "Sky Loft", Location: "Cloud City", Description: "desc", PropertyType: "Loft",
		KeyFeatures: []string{"A", "B"}, PricePerNight: 250, IdealFor: "Nomads",
	}, nil
}

type fakeImages struct {
	result imagesvc.Result
}

func (f *fakeImages) Synthesize(ctx context.Context, l *domain.Listing) imagesvc.Result {
	return f.result
}

type brokenStore struct {
	listsvc.Store
}

func (brokenStore) Insert(ctx context.Context, l *domain.Listing) error {
	return &domain.PersistenceError{Err: errors.New("database is locked")}
}

func setupListingsTest(t *testing.T, content listsvc.ContentGenerator, img imagesvc.Result) (*fiber.App, *listsvc.Service) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	events := &lesvc.Service{DB: db}
	svc := &listsvc.Service{
		Content: content,
		Store:   &listsvc.GormStore{DB: db},
		Images:  &fakeImages{result: img},
		Events:  events,
	}
	h := &Handlers{Service: svc, Events: events}
	app := fiber.New()
	app.Post("/api/listings/generate", h.Generate)
	app.Get("/api/listings", h.List)
	app.Get("/api/listings/:id", h.Get)
	app.Get("/api/listings/:id/events", h.ListEvents)
	return app, svc
}

func decode(t *testing.T, r io.Reader) map[string]interface{} {
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(r).Decode(&out))
	return out
}

func TestGenerate_ImageFailureStillSucceeds(t *testing.T) {
	app, _ := setupListingsTest(t, &fakeContent{}, imagesvc.Result{Status: imagesvc.StatusFailed, Err: domain.ErrMissingAssetURL})

	resp, err := app.Test(httptest.NewRequest("POST", "/api/listings/generate", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decode(t, resp.Body)
	assert.NotEmpty(t, out["id"])
	assert.Equal(t, "failed", out["imageStatus"])
	assert.Equal(t, domain.ErrMissingAssetURL.Error(), out["imageError"])
}

func TestGenerate_StoredOmitsImageError(t *testing.T) {
	app, _ := setupListingsTest(t, &fakeContent{}, imagesvc.Result{Status: imagesvc.StatusStored, Key: "x.png"})

	resp, err := app.Test(httptest.NewRequest("POST", "/api/listings/generate", nil))
	require.NoError(t, err)
	out := decode(t, resp.Body)
	assert.Equal(t, "stored", out["imageStatus"])
	assert.NotContains(t, out, "imageError")
	assert.Equal(t, 0.0, out["rating"])
}

func TestGenerate_GenerationErrors(t *testing.T) {
	cases := map[string]error{
		"empty":      domain.ErrEmptyResponse,
		"parse":      &domain.ParseError{Err: errors.New("unexpected end of JSON input")},
		"validation": &domain.ValidationError{Field: "idealFor"},
		"upstream":   &domain.UpstreamError{Service: "text", Err: errors.New("timeout")},
	}
	for name, genErr := range cases {
		t.Run(name, func(t *testing.T) {
			app, _ := setupListingsTest(t, &fakeContent{err: genErr}, imagesvc.Result{})
			resp, err := app.Test(httptest.NewRequest("POST", "/api/listings/generate", nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
			out := decode(t, resp.Body)
			assert.Equal(t, "error", out["status"])
			errBody := out["error"].(map[string]interface{})
			assert.Equal(t, "Failed to generate listing", errBody["message"])
			assert.Equal(t, genErr.Error(), errBody["details"].(map[string]interface{})["reason"])
		})
	}
}

func TestGenerate_PersistenceErrorIs500(t *testing.T) {
	app, svc := setupListingsTest(t, &fakeContent{}, imagesvc.Result{})
	svc.Store = brokenStore{}

	resp, err := app.Test(httptest.NewRequest("POST", "/api/listings/generate", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	out := decode(t, resp.Body)
	assert.Equal(t, "Error inserting listing", out["error"].(map[string]interface{})["message"])
}

func TestList_EmptyIsArray(t *testing.T) {
	app, _ := setupListingsTest(t, &fakeContent{}, imagesvc.Result{})
	resp, err := app.Test(httptest.NewRequest("GET", "/api/listings", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var arr []interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&arr))
	assert.NotNil(t, arr)
	assert.Empty(t, arr)
}

func TestGetAndEvents(t *testing.T) {
	app, svc := setupListingsTest(t, &fakeContent{}, imagesvc.Result{Status: imagesvc.StatusStored, Key: "x.png"})
	res, err := svc.Generate(context.Background())
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/listings/"+res.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decode(t, resp.Body)
	assert.Equal(t, res.ID, out["id"])
	assert.NotContains(t, out, "imageStatus")

	resp, err = app.Test(httptest.NewRequest("GET", "/api/listings/"+res.ID+"/events", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	out = decode(t, resp.Body)
	assert.Equal(t, "success", out["status"])
	assert.Len(t, out["data"], 2)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/listings/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/listings/missing/events", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
