package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meal-plan-engine/internal/logger"
	"meal-plan-engine/internal/models"
	"meal-plan-engine/internal/planner"
	"meal-plan-engine/internal/services"
)

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newTestHandler(t *testing.T) (*echo.Echo, *PlanHandler) {
	t.Helper()
	dir := t.TempDir()
	ulPath := filepath.Join(dir, "ul.json")
	ulData := `{"source": "test", "demographics": {"adult_male": {"sodium_mg": 2300}}}`
	require.NoError(t, os.WriteFile(ulPath, []byte(ulData), 0600))

	log := logger.New()
	log.SetOutput(io.Discard)
	svc := services.NewPlannerService(services.NewUpperLimitsLoader(ulPath), &planner.ScalableCarbSources{
		RiceVariants:   []string{"white rice"},
		PotatoVariants: []string{"potato"},
	}, log)

	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	return e, NewPlanHandler(svc)
}

func testRequestBody(days, poolSize int) map[string]interface{} {
	schedule := make([][]map[string]interface{}, days)
	for d := range schedule {
		schedule[d] = []map[string]interface{}{
			{"time": "08:00", "busyness_level": 2, "meal_type": "breakfast"},
			{"time": "13:00", "busyness_level": 2, "meal_type": "lunch"},
		}
	}
	pool := make([]map[string]interface{}, 0, poolSize)
	for i := 0; i < poolSize; i++ {
		pool = append(pool, map[string]interface{}{
			"id":                   fmt.Sprintf("r%02d", i),
			"cooking_time_minutes": 10,
			"nutrition": map[string]interface{}{
				"calories": 1000, "protein_g": 50, "fat_g": 32, "carbs_g": 125,
			},
		})
	}
	return map[string]interface{}{
		"days": days,
		"profile": map[string]interface{}{
			"daily_calories":  2000,
			"daily_protein_g": 100,
			"daily_fat_g":     map[string]interface{}{"min": 50, "max": 80},
			"daily_carbs_g":   250,
			"demographic":     "adult_male",
			"schedule":        schedule,
		},
		"recipe_pool": pool,
	}
}

func doSearch(t *testing.T, e *echo.Echo, h *PlanHandler, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/meal-plans/search", bytes.NewReader(raw))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.Search(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestPlanHandler_SearchSuccess(t *testing.T) {
	e, h := newTestHandler(t)
	rec := doSearch(t, e, h, testRequestBody(1, 2))

	assert.Equal(t, http.StatusOK, rec.Code)

	var result models.MealPlanResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, models.TerminationSingleDay, result.TerminationCode)
	assert.Len(t, result.Plan, 2)
}

func TestPlanHandler_SearchFailureIsStillHTTP200(t *testing.T) {
	e, h := newTestHandler(t)
	rec := doSearch(t, e, h, testRequestBody(1, 1)) // one recipe for two slots

	assert.Equal(t, http.StatusOK, rec.Code)

	var result models.MealPlanResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Equal(t, models.FailureUnfillableSlot, result.FailureMode)
	assert.Equal(t, models.TerminationInfeasible, result.TerminationCode)
}

func TestPlanHandler_InvalidBody(t *testing.T) {
	e, h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/meal-plans/search", bytes.NewReader([]byte("{not json")))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := h.Search(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestPlanHandler_MissingPoolFailsValidation(t *testing.T) {
	e, h := newTestHandler(t)
	body := testRequestBody(1, 2)
	delete(body, "recipe_pool")

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/meal-plans/search", bytes.NewReader(raw))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	handlerErr := h.Search(c)
	require.Error(t, handlerErr)
	he, ok := handlerErr.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, he.Code)
}

func TestPlanHandler_BadHorizon(t *testing.T) {
	e, h := newTestHandler(t)
	body := testRequestBody(1, 2)
	body["days"] = 9

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/meal-plans/search", bytes.NewReader(raw))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	handlerErr := h.Search(c)
	require.Error(t, handlerErr)
	he, ok := handlerErr.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, he.Code)
}

func TestPlanHandler_ExportPDF(t *testing.T) {
	e, h := newTestHandler(t)

	// Produce a successful result first.
	rec := doSearch(t, e, h, testRequestBody(1, 2))
	require.Equal(t, http.StatusOK, rec.Code)
	var result models.MealPlanResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.True(t, result.Success)

	raw, err := json.Marshal(map[string]interface{}{"result": result})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/meal-plans/export.pdf", bytes.NewReader(raw))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	pdfRec := httptest.NewRecorder()
	c := e.NewContext(req, pdfRec)
	require.NoError(t, h.ExportPDF(c))

	assert.Equal(t, http.StatusOK, pdfRec.Code)
	assert.Equal(t, "application/pdf", pdfRec.Header().Get(echo.HeaderContentType))
	assert.True(t, bytes.HasPrefix(pdfRec.Body.Bytes(), []byte("%PDF")))
}

func TestPlanHandler_ExportPDFRejectsFailures(t *testing.T) {
	e, h := newTestHandler(t)

	failure := &models.MealPlanResult{Success: false, TerminationCode: models.TerminationInfeasible}
	raw, err := json.Marshal(map[string]interface{}{"result": failure})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/meal-plans/export.pdf", bytes.NewReader(raw))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	handlerErr := h.ExportPDF(c)
	require.Error(t, handlerErr)
	he, ok := handlerErr.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}
