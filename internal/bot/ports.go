package bot

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tural-travel/tural-bot/internal/i18n"
)

// EventKind discriminates inbound chat events.
type EventKind string

const (
	EventCommand EventKind = "command"
	EventContact EventKind = "contact"
	EventText    EventKind = "text"
	EventButton  EventKind = "button"
)

// Event is one inbound chat-platform event, already stripped of transport
// detail. Text carries the command, the message text, or the display string
// of the pressed button, depending on Kind.
type Event struct {
	ChatID     int64
	Kind       EventKind
	Text       string
	Contact    *Contact
	CallbackID string
}

type Contact struct {
	PhoneNumber string
	FirstName   string
	LastName    string
}

// Client is the durable record created on first contact share.
type Client struct {
	ID          int64
	ChatID      int64
	FullName    string
	PhoneNumber string
}

// Session is the durable "awaiting offers" record created when a
// conversation completes.
type Session struct {
	ID           uuid.UUID
	ClientID     int64
	RegisteredAt time.Time
	Active       bool
}

// Answer is one collected answer. The key is the question the answer led
// to, so the slice order is the order questions were asked.
type Answer struct {
	Key   string
	Value string
}

// ChatSession is the ephemeral state of one in-progress conversation. It is
// the only thing carried between inbound events for a chat.
type ChatSession struct {
	ChatID       int64
	Language     i18n.Language // empty until the first option selection
	LastAskedKey string
	Answers      []Answer
	Active       bool
}

// Answered records an answer, overwriting an earlier value for the same key.
func (s *ChatSession) Answered(key, value string) {
	for i := range s.Answers {
		if s.Answers[i].Key == key {
			s.Answers[i].Value = value
			return
		}
	}
	s.Answers = append(s.Answers, Answer{Key: key, Value: value})
}

// Repo — durable client/session persistence. Find methods return (nil, nil)
// when no record matches.
type Repo interface {
	CreateClient(ctx context.Context, client *Client) error
	FindClientByChatID(ctx context.Context, chatID int64) (*Client, error)
	DeleteClient(ctx context.Context, clientID int64) error
	CreateSession(ctx context.Context, session *Session) error
	FindActiveSessionByClientID(ctx context.Context, clientID int64) (*Session, error)
}

// SessionCache — ephemeral per-chat conversation state. At most one entry
// per chat id; no durability guarantee.
type SessionCache interface {
	Get(chatID int64) (*ChatSession, bool)
	Put(session *ChatSession)
	Remove(chatID int64)
}

// Outbound — the chat platform's send surface.
type Outbound interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendTextWithButtons(ctx context.Context, chatID int64, text string, options []string) error
	SendContactRequest(ctx context.Context, chatID int64, text string) error
	ClearKeyboard(ctx context.Context, chatID int64, text string) error
	AnswerCallback(ctx context.Context, callbackQueryID string) error
}

// Service — the conversation engine.
type Service interface {
	HandleEvent(ctx context.Context, ev Event) error
}
