package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/terraincognita07/lunacycle/internal/advisor"
	"github.com/terraincognita07/lunacycle/internal/cycle"
	"github.com/terraincognita07/lunacycle/internal/db"
	"github.com/terraincognita07/lunacycle/internal/i18n"
	"github.com/terraincognita07/lunacycle/internal/metrics"
	"github.com/terraincognita07/lunacycle/internal/services"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type testApp struct {
	app   *fiber.App
	repos *db.Repositories
}

func newTestApp(t *testing.T) testApp {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "luna.db"), zap.NewNop())
	require.NoError(t, err)
	sqlDB, err := database.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	repos := db.NewRepositories(database)
	translations, err := i18n.NewManager("en")
	require.NoError(t, err)
	recorder := metrics.New()

	overview := services.NewOverviewService(cycle.DefaultEngine, repos.Periods, repos.Symptoms, repos.Settings,
		services.WithOverviewMetrics(recorder))
	lock, err := services.NewLockService(repos.Settings, []byte(testSecret), time.Hour, nil)
	require.NoError(t, err)
	share, err := services.NewShareService(overview, []byte(testSecret), time.Hour, nil)
	require.NoError(t, err)
	exporter := services.NewExportService(cycle.DefaultEngine, repos.Periods, repos.Symptoms, repos.Settings, nil, time.UTC)

	handler, err := NewHandler(Dependencies{
		Journal:  services.NewJournalService(repos.Periods, repos.Symptoms),
		Settings: services.NewSettingsService(repos.Settings),
		Overview: overview,
		Lock:     lock,
		Share:    share,
		Advice:   services.NewAdviceService(advisor.New(nil), translations, overview, recorder, nil),
		Export:   exporter,
		Import:   services.NewImportService(exporter, repos, repos.Settings),
		I18n:     translations,
		Metrics:  recorder,
	})
	require.NoError(t, err)

	app := fiber.New()
	RegisterRoutes(app, handler)
	return testApp{app: app, repos: repos}
}

func (ta testApp) do(t *testing.T, method string, path string, body any, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	var reader io.Reader
	switch value := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(value)
	default:
		payload, err := json.Marshal(value)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}

	response, err := ta.app.Test(request, -1)
	require.NoError(t, err)
	return response
}

func decodeJSON(t *testing.T, response *http.Response, dest any) {
	t.Helper()
	defer response.Body.Close()
	require.NoError(t, json.NewDecoder(response.Body).Decode(dest))
}

func readAPIError(t *testing.T, response *http.Response) string {
	t.Helper()
	payload := map[string]any{}
	decodeJSON(t, response, &payload)
	message, _ := payload["error"].(string)
	return message
}

func responseCookie(response *http.Response, name string) *http.Cookie {
	for _, cookie := range response.Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}
