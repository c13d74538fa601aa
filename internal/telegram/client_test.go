package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiMock struct {
	mu       sync.Mutex
	paths    []string
	payloads []map[string]any

	statusCode int
	ok         bool
}

func newAPIMock() *apiMock {
	return &apiMock{statusCode: http.StatusOK, ok: true}
}

func (m *apiMock) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	_ = json.NewDecoder(r.Body).Decode(&payload)

	m.mu.Lock()
	m.paths = append(m.paths, r.URL.Path)
	m.payloads = append(m.payloads, payload)
	status := m.statusCode
	ok := m.ok
	m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": ok, "description": "mock"})
}

func (m *apiMock) lastPayload() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.payloads) == 0 {
		return nil
	}
	return m.payloads[len(m.payloads)-1]
}

func newTestClient(t *testing.T, m *apiMock) *Client {
	t.Helper()
	srv := httptest.NewServer(m)
	t.Cleanup(srv.Close)
	return NewClientWithBaseURL("test-token", srv.URL)
}

func TestSendText(t *testing.T) {
	mock := newAPIMock()
	c := newTestClient(t, mock)

	require.NoError(t, c.SendText(context.Background(), 42, "hello"))

	assert.Equal(t, []string{"/bottest-token/sendMessage"}, mock.paths)
	payload := mock.lastPayload()
	assert.Equal(t, float64(42), payload["chat_id"])
	assert.Equal(t, "hello", payload["text"])
	assert.NotContains(t, payload, "reply_markup")
}

func TestSendTextWithButtons(t *testing.T) {
	mock := newAPIMock()
	c := newTestClient(t, mock)

	err := c.SendTextWithButtons(context.Background(), 42, "pick one", []string{"English", "Русский"})
	require.NoError(t, err)

	payload := mock.lastPayload()
	markup, ok := payload["reply_markup"].(map[string]any)
	require.True(t, ok)
	rows, ok := markup["inline_keyboard"].([]any)
	require.True(t, ok)
	require.Len(t, rows, 2)

	first := rows[0].([]any)[0].(map[string]any)
	assert.Equal(t, "English", first["text"])
	// Callback payload is the display string itself.
	assert.Equal(t, "English", first["callback_data"])
}

func TestSendTextWithButtons_EmptyOptionsIsPlainText(t *testing.T) {
	mock := newAPIMock()
	c := newTestClient(t, mock)

	require.NoError(t, c.SendTextWithButtons(context.Background(), 42, "no choice", nil))

	payload := mock.lastPayload()
	assert.NotContains(t, payload, "reply_markup")
}

func TestSendContactRequest(t *testing.T) {
	mock := newAPIMock()
	c := newTestClient(t, mock)

	require.NoError(t, c.SendContactRequest(context.Background(), 42, "share your phone"))

	payload := mock.lastPayload()
	markup := payload["reply_markup"].(map[string]any)
	assert.Equal(t, true, markup["one_time_keyboard"])

	rows := markup["keyboard"].([]any)
	require.Len(t, rows, 1)
	button := rows[0].([]any)[0].(map[string]any)
	assert.Equal(t, true, button["request_contact"])
}

func TestClearKeyboard(t *testing.T) {
	mock := newAPIMock()
	c := newTestClient(t, mock)

	require.NoError(t, c.ClearKeyboard(context.Background(), 42, "Okay"))

	payload := mock.lastPayload()
	markup := payload["reply_markup"].(map[string]any)
	assert.Equal(t, true, markup["remove_keyboard"])
	assert.Equal(t, "Okay", payload["text"])
}

func TestAnswerCallback(t *testing.T) {
	mock := newAPIMock()
	c := newTestClient(t, mock)

	require.NoError(t, c.AnswerCallback(context.Background(), "cb-9"))

	assert.Equal(t, []string{"/bottest-token/answerCallbackQuery"}, mock.paths)
	assert.Equal(t, "cb-9", mock.lastPayload()["callback_query_id"])
}

func TestSetWebhook(t *testing.T) {
	mock := newAPIMock()
	c := newTestClient(t, mock)

	require.NoError(t, c.SetWebhook(context.Background(), "https://bot.example/telegram/webhook"))

	payload := mock.lastPayload()
	assert.Equal(t, "https://bot.example/telegram/webhook", payload["url"])
	assert.Equal(t, true, payload["drop_pending_updates"])
}

func TestCall_HTTPErrorStatus(t *testing.T) {
	mock := newAPIMock()
	mock.statusCode = http.StatusBadGateway
	c := newTestClient(t, mock)

	err := c.SendText(context.Background(), 42, "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestCall_APILevelFailure(t *testing.T) {
	mock := newAPIMock()
	mock.ok = false
	c := newTestClient(t, mock)

	err := c.SendText(context.Background(), 42, "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mock")
}
