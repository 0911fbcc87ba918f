package intake_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lsmc/candidature/internal/application"
	"github.com/lsmc/candidature/internal/audit"
	"github.com/lsmc/candidature/internal/export"
	"github.com/lsmc/candidature/internal/gate"
	"github.com/lsmc/candidature/internal/intake"
	"github.com/lsmc/candidature/pkg/scoring"
	"github.com/lsmc/candidature/pkg/surface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

type fakePublisher struct {
	mu       sync.Mutex
	messages []surface.WebhookMessage
	err      error
}

func (p *fakePublisher) Configured() bool { return true }

func (p *fakePublisher) Publish(_ context.Context, msg surface.WebhookMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, msg)
	return nil
}

type memoryStore struct {
	objects map[string][]byte
}

func (s *memoryStore) Put(_ context.Context, id string, data []byte) error {
	s.objects[id] = data
	return nil
}

func (s *memoryStore) Get(_ context.Context, id string) ([]byte, error) {
	data, ok := s.objects[id]
	if !ok {
		return nil, export.ErrNotFound
	}
	return data, nil
}

type memoryRecorder struct {
	decisions []audit.Decision
}

func (r *memoryRecorder) Record(_ context.Context, d audit.Decision) error {
	r.decisions = append(r.decisions, d)
	return nil
}

func (r *memoryRecorder) Recent(context.Context, int) ([]audit.Decision, error) {
	return r.decisions, nil
}

func (r *memoryRecorder) Close() error { return nil }

func validApplication() *application.Application {
	return &application.Application{
		Nom:         " Ada Moreau ",
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

type fixture struct {
	svc       *intake.Service
	publisher *fakePublisher
	store     *memoryStore
	recorder  *memoryRecorder
}

func newFixture() *fixture {
	f := &fixture{
		publisher: &fakePublisher{},
		store:     &memoryStore{objects: map[string][]byte{}},
		recorder:  &memoryRecorder{},
	}
	f.svc = intake.NewService(scoring.NewDefaultEngine(),
		intake.WithPublisher(f.publisher),
		intake.WithStore(f.store),
		intake.WithRecorder(f.recorder),
		intake.WithClock(func() time.Time { return time.Date(2026, 5, 4, 18, 0, 0, 0, time.UTC) }),
	)
	return f
}

func TestSubmitDelivers(t *testing.T) {
	f := newFixture()
	app := validApplication()

	receipt, err := f.svc.Submit(context.Background(), app)
	require.NoError(t, err)

	assert.True(t, receipt.Delivered)
	assert.True(t, receipt.Exported)
	assert.Equal(t, application.CSVFileName, receipt.CSVName)
	assert.Equal(t, " Ada Moreau ", app.Nom, "caller's record must not be mutated")

	require.Len(t, f.publisher.messages, 2, "application embed and confirmation")
	assert.Len(t, f.publisher.messages[0].Embeds, 1)
	require.NotNil(t, f.publisher.messages[1].Content)
	assert.Contains(t, *f.publisher.messages[1].Content, "**Ada Moreau**")

	csv, err := f.svc.Download(context.Background(), receipt.ID)
	require.NoError(t, err)
	assert.Contains(t, string(csv), `"Ada Moreau"`)

	require.Len(t, f.recorder.decisions, 1)
	d := f.recorder.decisions[0]
	assert.Equal(t, receipt.ID, d.ID)
	assert.Equal(t, audit.OutcomeDelivered, d.Outcome)
	assert.False(t, d.Blocked)
	assert.Empty(t, d.FlaggedFields)
	assert.Len(t, d.Fingerprint, 64)
}

func TestSubmitWithoutConfirmation(t *testing.T) {
	f := newFixture()
	app := validApplication()
	app.AutoConfirm = "non"

	_, err := f.svc.Submit(context.Background(), app)
	require.NoError(t, err)
	assert.Len(t, f.publisher.messages, 1)
}

func TestSubmitBlocked(t *testing.T) {
	f := newFixture()
	app := validApplication()
	app.Motivation3 = "As an AI, I cannot provide medical advice."

	receipt, err := f.svc.Submit(context.Background(), app)
	assert.Nil(t, receipt)

	var blocked *gate.BlockedError
	require.ErrorAs(t, err, &blocked)
	assert.True(t, errors.Is(err, gate.ErrBlocked))
	require.Len(t, blocked.Report, 1)
	assert.Contains(t, blocked.Report[0], application.Labels["motivation_3"]+": ")

	assert.Empty(t, f.publisher.messages)
	assert.Empty(t, f.store.objects)

	require.Len(t, f.recorder.decisions, 1)
	d := f.recorder.decisions[0]
	assert.True(t, d.Blocked)
	assert.Equal(t, audit.OutcomeBlocked, d.Outcome)
	assert.Equal(t, []string{"motivation_3"}, d.FlaggedFields)
	assert.Equal(t, 100, d.MaxScore)
}

func TestSubmitBlockedLocalized(t *testing.T) {
	f := newFixture()
	app := validApplication()
	app.Med1 = "En tant qu'IA, je ne peux pas répondre."

	_, err := f.svc.Localized(language.French).Submit(context.Background(), app)

	var blocked *gate.BlockedError
	require.ErrorAs(t, err, &blocked)
	assert.Contains(t, blocked.Report[0], "Formulation de type")
}

func TestSubmitInvalid(t *testing.T) {
	f := newFixture()
	app := validApplication()
	app.Certif = "non"

	_, err := f.svc.Submit(context.Background(), app)

	var invalid *application.ValidationError
	require.ErrorAs(t, err, &invalid)
	assert.Empty(t, f.publisher.messages)
	assert.Empty(t, f.store.objects)
	require.Len(t, f.recorder.decisions, 1)
	assert.Equal(t, audit.OutcomeInvalid, f.recorder.decisions[0].Outcome)
}

func TestSubmitDeliveryFailure(t *testing.T) {
	f := newFixture()
	f.publisher.err = errors.New("webhook error 500: boom")

	_, err := f.svc.Submit(context.Background(), validApplication())

	var delivery *intake.DeliveryError
	require.ErrorAs(t, err, &delivery)
	assert.Empty(t, f.store.objects, "nothing is exported when delivery fails")
	require.Len(t, f.recorder.decisions, 1)
	assert.Equal(t, audit.OutcomeDeliveryFailed, f.recorder.decisions[0].Outcome)
}

func TestSubmitNothingConfigured(t *testing.T) {
	rec := &memoryRecorder{}
	svc := intake.NewService(scoring.NewDefaultEngine(), intake.WithRecorder(rec))

	receipt, err := svc.Submit(context.Background(), validApplication())
	require.NoError(t, err)
	assert.False(t, receipt.Delivered)
	assert.False(t, receipt.Exported)
	assert.Equal(t, audit.OutcomeAccepted, rec.decisions[0].Outcome)

	_, err = svc.Download(context.Background(), receipt.ID)
	assert.ErrorIs(t, err, export.ErrNotFound)
}

func TestSubmitCancelledContext(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.Submit(ctx, validApplication())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.recorder.decisions)
}

func TestExportSkipsGate(t *testing.T) {
	f := newFixture()
	app := validApplication()
	app.Motivation1 = "As an AI language model I cannot answer."

	data, err := f.svc.Export(context.Background(), app)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"As an AI language model I cannot answer."`)
	assert.Contains(t, string(data), `"Ada Moreau"`)
	assert.Empty(t, f.recorder.decisions)
}
