package bot_test

import (
	"context"

	"github.com/tural-travel/tural-bot/internal/bot"
	"github.com/tural-travel/tural-bot/internal/graph"
	"github.com/tural-travel/tural-bot/internal/i18n"
)

// fakeGraph serves a fixed question graph from memory.
type fakeGraph struct {
	byID map[int64]graph.Question
}

func (g fakeGraph) QuestionByID(_ context.Context, id int64) (graph.Question, error) {
	q, ok := g.byID[id]
	if !ok {
		return graph.Question{}, graph.ErrNotFound
	}
	return q, nil
}

func (g fakeGraph) QuestionByKey(_ context.Context, key string) (graph.Question, error) {
	for _, q := range g.byID {
		if q.Key == key {
			return q, nil
		}
	}
	return graph.Question{}, graph.ErrNotFound
}

func (g fakeGraph) OptionsOf(_ context.Context, questionID int64) ([]graph.Option, error) {
	q, ok := g.byID[questionID]
	if !ok {
		return nil, graph.ErrNotFound
	}
	return q.Options, nil
}

func (g fakeGraph) OptionByKey(_ context.Context, key string) (graph.Option, error) {
	for _, q := range g.byID {
		for _, opt := range q.Options {
			if opt.Key == key {
				return opt, nil
			}
		}
	}
	return graph.Option{}, graph.ErrNotFound
}

// mapTranslator is an i18n.Translator over a literal table.
type mapTranslator map[string]map[i18n.Language]string

func (m mapTranslator) Translate(_ context.Context, key string, lang i18n.Language) (string, error) {
	byLang, ok := m[key]
	if !ok {
		return "", i18n.ErrMissingTranslation
	}
	text, ok := byLang[lang]
	if !ok {
		return "", i18n.ErrMissingTranslation
	}
	return text, nil
}

func (m mapTranslator) ReverseLookup(_ context.Context, text string) (string, error) {
	for key, byLang := range m {
		for _, t := range byLang {
			if t == text {
				return key, nil
			}
		}
	}
	return "", i18n.ErrUnknownText
}

// memRepo is an in-memory bot.Repo.
type memRepo struct {
	nextClientID int64
	clients      map[int64]*bot.Client // keyed by client id
	sessions     []*bot.Session
}

func newMemRepo() *memRepo {
	return &memRepo{clients: make(map[int64]*bot.Client)}
}

func (r *memRepo) seedClient(client *bot.Client) {
	copied := *client
	r.nextClientID++
	copied.ID = r.nextClientID
	r.clients[copied.ID] = &copied
}

func (r *memRepo) clientCount() int { return len(r.clients) }

func (r *memRepo) sessionCount() int { return len(r.sessions) }

func (r *memRepo) CreateClient(_ context.Context, client *bot.Client) error {
	r.nextClientID++
	client.ID = r.nextClientID
	copied := *client
	r.clients[copied.ID] = &copied
	return nil
}

func (r *memRepo) FindClientByChatID(_ context.Context, chatID int64) (*bot.Client, error) {
	for _, c := range r.clients {
		if c.ChatID == chatID {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memRepo) DeleteClient(_ context.Context, clientID int64) error {
	delete(r.clients, clientID)
	return nil
}

func (r *memRepo) CreateSession(_ context.Context, session *bot.Session) error {
	copied := *session
	r.sessions = append(r.sessions, &copied)
	return nil
}

func (r *memRepo) FindActiveSessionByClientID(_ context.Context, clientID int64) (*bot.Session, error) {
	for _, s := range r.sessions {
		if s.ClientID == clientID && s.Active {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

// spyOutbound records every outbound call instead of hitting the platform.
type outboundCall struct {
	method  string
	chatID  int64
	text    string
	options []string
}

type spyOutbound struct {
	calls    []outboundCall
	answered []string
}

func (s *spyOutbound) SendText(_ context.Context, chatID int64, text string) error {
	s.calls = append(s.calls, outboundCall{method: "sendText", chatID: chatID, text: text})
	return nil
}

func (s *spyOutbound) SendTextWithButtons(_ context.Context, chatID int64, text string, options []string) error {
	method := "sendButtons"
	if len(options) == 0 {
		method = "sendText"
	}
	s.calls = append(s.calls, outboundCall{method: method, chatID: chatID, text: text, options: options})
	return nil
}

func (s *spyOutbound) SendContactRequest(_ context.Context, chatID int64, text string) error {
	s.calls = append(s.calls, outboundCall{method: "contactRequest", chatID: chatID, text: text})
	return nil
}

func (s *spyOutbound) ClearKeyboard(_ context.Context, chatID int64, text string) error {
	s.calls = append(s.calls, outboundCall{method: "clearKeyboard", chatID: chatID, text: text})
	return nil
}

func (s *spyOutbound) AnswerCallback(_ context.Context, callbackQueryID string) error {
	s.answered = append(s.answered, callbackQueryID)
	return nil
}

func (s *spyOutbound) last() *outboundCall {
	if len(s.calls) == 0 {
		return nil
	}
	return &s.calls[len(s.calls)-1]
}

func (s *spyOutbound) texts() []string {
	out := make([]string, 0, len(s.calls))
	for _, c := range s.calls {
		out = append(out, c.text)
	}
	return out
}
