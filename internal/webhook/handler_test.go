package webhook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"leadgate_backend/internal/contacts"
	"leadgate_backend/internal/events"
	"leadgate_backend/internal/leads/transport"
	"leadgate_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type fakeDirectory struct {
	contactID uuid.UUID
	resolved  []string
}

func (f *fakeDirectory) ResolveOrCreate(_ context.Context, phoneRaw string) (contacts.Contact, error) {
	f.resolved = append(f.resolved, phoneRaw)
	return contacts.Contact{ID: f.contactID, Name: "WhatsApp User " + phoneRaw}, nil
}

type fakeCreator struct {
	requests []transport.CreateLeadRequest
}

func (f *fakeCreator) Create(_ context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	f.requests = append(f.requests, req)
	return transport.LeadResponse{ID: uuid.New(), Title: req.Title, ContactID: req.ContactID}, nil
}

type fakeTokens struct {
	token string
}

func (f *fakeTokens) VerifyToken(context.Context) (string, error) {
	return f.token, nil
}

type fakeDeduper struct {
	seen map[string]bool
}

func (f *fakeDeduper) Seen(_ context.Context, messageID string) (bool, error) {
	if f.seen[messageID] {
		return true, nil
	}
	f.seen[messageID] = true
	return false, nil
}

type noopBus struct{}

func (noopBus) Publish(context.Context, events.Event)           {}
func (noopBus) PublishSync(context.Context, events.Event) error { return nil }
func (noopBus) Subscribe(string, events.Handler)                {}

type webhookTestEnv struct {
	router    *gin.Engine
	directory *fakeDirectory
	creator   *fakeCreator
}

func newWebhookTestEnv(t *testing.T, verifyToken string, dedupe Deduper) *webhookTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.New("development")
	env := &webhookTestEnv{
		directory: &fakeDirectory{contactID: uuid.New()},
		creator:   &fakeCreator{},
	}

	service := NewService(env.directory, env.creator, dedupe, noopBus{}, log)
	handler := NewHandler(service, &fakeTokens{token: verifyToken}, log)

	env.router = gin.New()
	env.router.GET("/api/v1/webhook/whatsapp", handler.HandleVerify)
	env.router.POST("/api/v1/webhook/whatsapp", handler.HandleReceive)
	return env
}

func (env *webhookTestEnv) get(query string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/webhook/whatsapp?"+query, nil)
	env.router.ServeHTTP(w, req)
	return w
}

func (env *webhookTestEnv) post(body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook/whatsapp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	env.router.ServeHTTP(w, req)
	return w
}

func messagePayload(messageID, from, body string) string {
	text := `"text":{"body":"` + body + `"}`
	if body == "" {
		text = `"image":{"id":"media-1"}`
	}
	return `{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "entry-1",
			"changes": [{
				"field": "messages",
				"value": {
					"messaging_product": "whatsapp",
					"metadata": {"display_phone_number": "5215599999999", "phone_number_id": "106540352242922"},
					"contacts": [{"wa_id": "` + from + `", "profile": {"name": "Cliente"}}],
					"messages": [{"from": "` + from + `", "id": "` + messageID + `", "timestamp": "1700000000", "type": "text", ` + text + `}]
				}
			}]
		}]
	}`
}

func TestVerifyReturnsChallenge(t *testing.T) {
	env := newWebhookTestEnv(t, "secret-token", nil)

	w := env.get("hub.mode=subscribe&hub.verify_token=secret-token&hub.challenge=12345")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Body.String(); got != "12345" {
		t.Fatalf("body = %q, want challenge echoed", got)
	}
}

func TestVerifyRejectsWrongToken(t *testing.T) {
	env := newWebhookTestEnv(t, "secret-token", nil)

	w := env.get("hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345")
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestVerifyRejectsWhenNoTokenConfigured(t *testing.T) {
	env := newWebhookTestEnv(t, "", nil)

	w := env.get("hub.mode=subscribe&hub.verify_token=&hub.challenge=12345")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty token param: status = %d, want 400", w.Code)
	}

	w = env.get("hub.mode=subscribe&hub.verify_token=anything&hub.challenge=12345")
	if w.Code != http.StatusForbidden {
		t.Fatalf("unconfigured token: status = %d, want 403", w.Code)
	}
}

func TestVerifyMissingParams(t *testing.T) {
	env := newWebhookTestEnv(t, "secret-token", nil)

	w := env.get("hub.challenge=12345")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestReceiveMalformedPayload(t *testing.T) {
	env := newWebhookTestEnv(t, "secret-token", nil)

	w := env.post(`{"entry": [{"changes": "not-an-array"`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if len(env.creator.requests) != 0 {
		t.Fatalf("leads created from malformed payload: %d", len(env.creator.requests))
	}
}

func TestReceiveCreatesLeadFromTextMessage(t *testing.T) {
	env := newWebhookTestEnv(t, "secret-token", nil)

	w := env.post(messagePayload("wamid.1", "5215512345678", "Hola quiero información sobre precios"))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Body.String(); got != "EVENT_RECEIVED" {
		t.Fatalf("body = %q, want EVENT_RECEIVED", got)
	}

	if len(env.directory.resolved) != 1 || env.directory.resolved[0] != "5215512345678" {
		t.Fatalf("resolved phones = %v, want one resolve of sender", env.directory.resolved)
	}
	if len(env.creator.requests) != 1 {
		t.Fatalf("leads created = %d, want 1", len(env.creator.requests))
	}

	req := env.creator.requests[0]
	if !strings.HasPrefix(req.Title, "WhatsApp: Hola quiero informac") || !strings.HasSuffix(req.Title, "...") {
		t.Fatalf("title = %q, want truncated WhatsApp prefix title", req.Title)
	}
	if req.ContactID != env.directory.contactID {
		t.Fatalf("contactID = %v, want resolved contact %v", req.ContactID, env.directory.contactID)
	}
	if req.Source != "whatsapp" {
		t.Fatalf("source = %q, want whatsapp", req.Source)
	}
	if !strings.Contains(req.Description, "Hola quiero información sobre precios") ||
		!strings.Contains(req.Description, "5215512345678") {
		t.Fatalf("description = %q, want body and phone", req.Description)
	}
}

func TestReceiveShortBodyKeepsEllipsis(t *testing.T) {
	env := newWebhookTestEnv(t, "secret-token", nil)

	env.post(messagePayload("wamid.2", "5215512345678", "Hola"))
	if len(env.creator.requests) != 1 {
		t.Fatalf("leads created = %d, want 1", len(env.creator.requests))
	}
	if got := env.creator.requests[0].Title; got != "WhatsApp: Hola..." {
		t.Fatalf("title = %q, want %q", got, "WhatsApp: Hola...")
	}
}

func TestReceiveMediaMessageUsesFallbackTitle(t *testing.T) {
	env := newWebhookTestEnv(t, "secret-token", nil)

	env.post(messagePayload("wamid.3", "5215512345678", ""))
	if len(env.creator.requests) != 1 {
		t.Fatalf("leads created = %d, want 1", len(env.creator.requests))
	}
	if got := env.creator.requests[0].Title; got != "New WhatsApp Message" {
		t.Fatalf("title = %q, want fallback title", got)
	}
}

func TestReceiveStatusOnlyPayloadCreatesNothing(t *testing.T) {
	env := newWebhookTestEnv(t, "secret-token", nil)

	w := env.post(`{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "entry-1",
			"changes": [{
				"field": "messages",
				"value": {
					"messaging_product": "whatsapp",
					"statuses": [{"id": "wamid.9", "status": "delivered"}]
				}
			}]
		}]
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if len(env.creator.requests) != 0 {
		t.Fatalf("leads created from statuses = %d, want 0", len(env.creator.requests))
	}
}

func TestReceiveMissingSenderSkipped(t *testing.T) {
	env := newWebhookTestEnv(t, "secret-token", nil)

	w := env.post(messagePayload("wamid.4", "", "Hola"))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if len(env.creator.requests) != 0 {
		t.Fatalf("leads created without sender = %d, want 0", len(env.creator.requests))
	}
}

func TestReceiveRedeliveryDeduplicated(t *testing.T) {
	env := newWebhookTestEnv(t, "secret-token", &fakeDeduper{seen: make(map[string]bool)})

	payload := messagePayload("wamid.5", "5215512345678", "Hola")
	env.post(payload)
	env.post(payload)

	if len(env.creator.requests) != 1 {
		t.Fatalf("leads created across redelivery = %d, want 1", len(env.creator.requests))
	}
}
