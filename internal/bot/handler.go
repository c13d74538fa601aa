package bot

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tural-travel/tural-bot/internal/telegram"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// HandleWebhook — one Telegram update per request. Telegram only needs an
// ACK; the reply to the user goes out through the gateway client.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	var update telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	ev, ok := eventFromUpdate(update)
	if !ok {
		// Update kinds the bot does not handle (edits, channel posts, ...).
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.svc.HandleEvent(r.Context(), ev); err != nil {
		http.Error(w, "processing error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func eventFromUpdate(update telegram.Update) (Event, bool) {
	if cq := update.CallbackQuery; cq != nil {
		if cq.Message == nil {
			return Event{}, false
		}
		return Event{
			ChatID:     cq.Message.Chat.ID,
			Kind:       EventButton,
			Text:       cq.Data,
			CallbackID: cq.ID,
		}, true
	}

	msg := update.Message
	if msg == nil {
		return Event{}, false
	}

	if msg.Contact != nil {
		return Event{
			ChatID: msg.Chat.ID,
			Kind:   EventContact,
			Contact: &Contact{
				PhoneNumber: msg.Contact.PhoneNumber,
				FirstName:   msg.Contact.FirstName,
				LastName:    msg.Contact.LastName,
			},
		}, true
	}

	if cmd, ok := commandOf(msg.Text); ok {
		return Event{ChatID: msg.Chat.ID, Kind: EventCommand, Text: cmd}, true
	}

	if msg.Text == "" {
		return Event{}, false
	}
	return Event{ChatID: msg.Chat.ID, Kind: EventText, Text: msg.Text}, true
}

// commandOf extracts a bot command from message text, accepting the
// "/start@BotName" addressing form.
func commandOf(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "/") {
		return "", false
	}
	token := strings.ToLower(strings.Fields(trimmed)[0])
	if at := strings.Index(token, "@"); at > 0 {
		token = token[:at]
	}
	return token, true
}
