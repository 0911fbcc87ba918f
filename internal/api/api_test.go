package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lsmc/candidature/internal/api"
	"github.com/lsmc/candidature/internal/application"
	"github.com/lsmc/candidature/internal/audit"
	"github.com/lsmc/candidature/internal/export"
	"github.com/lsmc/candidature/internal/intake"
	"github.com/lsmc/candidature/internal/session"
	"github.com/lsmc/candidature/internal/surface"
	"github.com/lsmc/candidature/pkg/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testServer struct {
	router   *gin.Engine
	webhooks *atomic.Int32
}

type serverOption func(*api.RouterConfig)

func withAPIKey(key string) serverOption {
	return func(c *api.RouterConfig) { c.APIKey = key }
}

func withRateLimiter(rl *api.RateLimiter) serverOption {
	return func(c *api.RouterConfig) { c.RateLimiter = rl }
}

func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()

	var webhooks atomic.Int32
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		webhooks.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(hook.Close)

	dir := t.TempDir()
	rec, err := audit.OpenSQLite(context.Background(), filepath.Join(dir, "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { rec.Close() })

	svc := intake.NewService(scoring.NewDefaultEngine(),
		intake.WithPublisher(surface.NewWebhookPublisher(hook.URL, surface.WithRateLimit(0, 0))),
		intake.WithStore(export.NewLocalStore(dir)),
		intake.WithRecorder(rec),
	)

	cfg := api.RouterConfig{
		Handler:     api.NewHandler(svc, session.NewRegistry(8, session.DefaultTTL), nil),
		ServiceName: "candidature-test",
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &testServer{router: api.NewRouter(cfg), webhooks: &webhooks}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type errorBody struct {
	Error struct {
		Message string              `json:"message"`
		Code    string              `json:"code"`
		Report  []string            `json:"report"`
		Fields  []map[string]string `json:"fields"`
	} `json:"error"`
}

func validApplication() application.Application {
	return application.Application{
		Nom:         "Ada Moreau",
		Age:         "29",
		ExpMed:      "non",
		Poste:       "Interne",
		Motivation1: "Je veux rejoindre une équipe soudée.",
		Motivation2: "Mon calme en intervention.",
		Motivation3: "Je garde mes distances et j'appelle la police.",
		Motivation4: "J'exécute puis je discute en privé.",
		Med1:        "Le coma RP laisse une chance de réanimation.",
		Med2:        "Sécuriser, évaluer, stabiliser, transporter.",
		Med3:        "Je trie et je traite le critique en premier.",
		Med4:        "Messages courts avec code et position.",
		Reg1:        "Respect, ponctualité et tenue.",
		Reg2:        "C'est une faute, je le signale.",
		Reg3:        "Je joue les blessures de façon crédible.",
		Disp1:       "Soirs de semaine",
		Certif:      "oui",
		AutoConfirm: "oui",
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestScreen(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name       string
		lang       string
		text       string
		wantScore  int
		wantReason string
	}{
		{"clean", "", "Je veux aider les gens.", 0, ""},
		{"english reasons", "", "As an AI, I cannot provide that.", 100, "Self-referential AI phrasing"},
		{"french reasons", "fr-FR,fr;q=0.9", "En tant qu'IA je ne peux pas.", 50, "Formulation de type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/v1/screen", map[string]string{"text": tt.text}, "Accept-Language", tt.lang)
			require.Equal(t, http.StatusOK, w.Code)

			report := decode[scoring.ScoreReport](t, w)
			assert.Equal(t, tt.wantScore, report.Score)
			assert.Equal(t, tt.wantScore >= 40, report.Flagged)
			if tt.wantReason != "" {
				require.NotEmpty(t, report.Reasons)
				assert.Contains(t, report.Reasons[0], tt.wantReason)
			}
		})
	}
}

func TestScreenBadRequest(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/api/v1/screen", map[string]int{"txt": 1})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "bad_request", decode[errorBody](t, w).Error.Code)
}

func TestScreenForm(t *testing.T) {
	s := newTestServer(t)
	body := map[string]any{"fields": []map[string]string{
		{"id": "motivation_1", "label": "Pourquoi LSMC ?", "text": "Pour soigner."},
		{"id": "med_2", "text": "I am an AI."},
	}}

	w := s.do(t, http.MethodPost, "/api/v1/screen/form", body)
	require.Equal(t, http.StatusOK, w.Code)

	var state struct {
		AnyFlagged bool     `json:"any_flagged"`
		Report     []string `json:"report"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.True(t, state.AnyFlagged)
	require.Len(t, state.Report, 1)
	assert.True(t, strings.HasPrefix(state.Report[0], "med_2: "))
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[map[string]string](t, w)["session_id"]
	require.NotEmpty(t, id)

	path := "/api/v1/sessions/" + id + "/fields/motivation_1"

	type update struct {
		Field struct {
			Flagged bool `json:"flagged"`
		} `json:"field"`
		Transitions []struct {
			From string `json:"from"`
			To   string `json:"to"`
		} `json:"transitions"`
		UI struct {
			SubmitEnabled bool `json:"submit_enabled"`
		} `json:"ui"`
	}

	w = s.do(t, http.MethodPut, path, map[string]string{"label": "Pourquoi LSMC ?", "text": "As an AI I like it."})
	require.Equal(t, http.StatusOK, w.Code)
	u := decode[update](t, w)
	assert.True(t, u.Field.Flagged)
	assert.False(t, u.UI.SubmitEnabled)
	require.Len(t, u.Transitions, 1)
	assert.Equal(t, "clean", u.Transitions[0].From)
	assert.Equal(t, "flagged", u.Transitions[0].To)

	w = s.do(t, http.MethodPut, path, map[string]string{"label": "Pourquoi LSMC ?", "text": "Pour soigner."})
	require.Equal(t, http.StatusOK, w.Code)
	u = decode[update](t, w)
	assert.False(t, u.Field.Flagged)
	assert.True(t, u.UI.SubmitEnabled)
	require.Len(t, u.Transitions, 1)
	assert.Equal(t, "clean", u.Transitions[0].To)

	w = s.do(t, http.MethodDelete, "/api/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodPut, path, map[string]string{"text": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(t, http.MethodDelete, "/api/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitAndDownload(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/applications", validApplication())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	receipt := decode[intake.Receipt](t, w)
	assert.True(t, receipt.Delivered)
	assert.True(t, receipt.Exported)
	assert.Equal(t, int32(2), s.webhooks.Load())

	w = s.do(t, http.MethodGet, "/api/v1/exports/"+receipt.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, application.CSVContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `"Ada Moreau"`)

	w = s.do(t, http.MethodGet, "/api/v1/decisions?limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decisions := decode[map[string][]audit.Decision](t, w)["decisions"]
	require.Len(t, decisions, 1)
	assert.Equal(t, audit.OutcomeDelivered, decisions[0].Outcome)
}

func TestSubmitBlocked(t *testing.T) {
	s := newTestServer(t)
	app := validApplication()
	app.Reg2 = "En tant qu'IA, je ne peux pas fournir de réponse."

	w := s.do(t, http.MethodPost, "/api/v1/applications", app, "Accept-Language", "fr")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	body := decode[errorBody](t, w)
	assert.Equal(t, "blocked", body.Error.Code)
	assert.Equal(t, "Texte suspect.", body.Error.Message)
	require.Len(t, body.Error.Report, 1)
	assert.True(t, strings.HasPrefix(body.Error.Report[0], application.Labels["reg_2"]+": "))
	assert.Zero(t, s.webhooks.Load())
}

func TestSubmitInvalid(t *testing.T) {
	s := newTestServer(t)
	app := validApplication()
	app.Nom = "   "

	w := s.do(t, http.MethodPost, "/api/v1/applications", app)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode[errorBody](t, w)
	assert.Equal(t, "invalid", body.Error.Code)
	require.NotEmpty(t, body.Error.Fields)
	assert.Equal(t, "nom", body.Error.Fields[0]["field"])
}

func TestAPIKeyProtectsWriteRoutes(t *testing.T) {
	s := newTestServer(t, withAPIKey("secret"))

	w := s.do(t, http.MethodPost, "/api/v1/applications", validApplication())
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/applications", validApplication(), "X-API-Key", "secret")
	assert.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/screen", map[string]string{"text": "ok"})
	assert.Equal(t, http.StatusOK, w.Code, "screening stays open to the form")
}

func TestExportCSV(t *testing.T) {
	s := newTestServer(t)
	app := validApplication()
	app.Motivation1 = "Ligne 1\nLigne \"2\""

	w := s.do(t, http.MethodPost, "/api/v1/applications/export", app)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="candidature_lsmc.csv"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), `"Ligne 1 Ligne ""2"""`)
	assert.Zero(t, s.webhooks.Load())
}

func TestDownloadErrors(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/exports/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/exports/1b4e28ba-2fa1-11d2-883f-0016d3cca427", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRateLimiter(t *testing.T) {
	s := newTestServer(t, withRateLimiter(api.NewRateLimiter(0.001, 1)))

	w := s.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limited", decode[errorBody](t, w).Error.Code)
}
