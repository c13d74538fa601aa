package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tural-travel/tural-bot/internal/graph"
	"github.com/tural-travel/tural-bot/internal/i18n"
)

type service struct {
	repo       Repo
	cache      SessionCache
	graph      graph.Store
	translator i18n.Translator
	messages   i18n.Translator
	outbound   Outbound
	locks      *chatLocks
}

func NewService(repo Repo, cache SessionCache, graphStore graph.Store, translator i18n.Translator, outbound Outbound) Service {
	return &service{
		repo:       repo,
		cache:      cache,
		graph:      graphStore,
		translator: translator,
		messages:   i18n.NewMessages(),
		outbound:   outbound,
		locks:      newChatLocks(),
	}
}

// HandleEvent runs one event through the state machine. Events of the same
// chat are serialized; the lock covers every cache read, graph lookup,
// durable write and outbound send of the cycle.
func (s *service) HandleEvent(ctx context.Context, ev Event) error {
	unlock := s.locks.lock(ev.ChatID)
	defer unlock()

	switch ev.Kind {
	case EventCommand:
		switch strings.ToLower(strings.TrimSpace(ev.Text)) {
		case "/start":
			return s.handleStart(ctx, ev.ChatID)
		case "/stop":
			return s.handleStop(ctx, ev.ChatID)
		default:
			return s.rejectWithoutSession(ctx, ev.ChatID)
		}
	case EventContact:
		return s.handleContact(ctx, ev)
	case EventButton:
		return s.handleButton(ctx, ev)
	case EventText:
		return s.handleText(ctx, ev)
	default:
		return fmt.Errorf("bot: unknown event kind %q", ev.Kind)
	}
}

func (s *service) handleStart(ctx context.Context, chatID int64) error {
	if _, ok := s.cache.Get(chatID); ok {
		// Conversation already running; /start is not a reset.
		return nil
	}

	client, err := s.repo.FindClientByChatID(ctx, chatID)
	if err != nil {
		return err
	}

	sess := &ChatSession{ChatID: chatID, Active: true}

	if client == nil {
		s.cache.Put(sess)
		text, err := s.messages.Translate(ctx, i18n.MsgPhoneRequest, i18n.Default)
		if err != nil {
			return err
		}
		if err := s.outbound.SendContactRequest(ctx, chatID, text); err != nil {
			log.Printf("[bot] contact request send failed chatId=%d: %v", chatID, err)
		}
		return nil
	}

	// Known client: skip the phone step and ask the first question.
	first, err := s.graph.QuestionByID(ctx, graph.FirstQuestionID)
	if err != nil {
		return s.failStep(ctx, chatID, i18n.Default, err)
	}
	return s.ask(ctx, sess, first)
}

func (s *service) handleStop(ctx context.Context, chatID int64) error {
	sess, ok := s.cache.Get(chatID)
	if !ok {
		return s.rejectWithoutSession(ctx, chatID)
	}

	s.cache.Remove(chatID)

	client, err := s.repo.FindClientByChatID(ctx, chatID)
	if err != nil {
		return err
	}
	if client != nil {
		if err := s.repo.DeleteClient(ctx, client.ID); err != nil {
			return err
		}
	}

	text, err := s.messages.Translate(ctx, i18n.MsgStopped, s.language(sess))
	if err != nil {
		return err
	}
	if err := s.outbound.ClearKeyboard(ctx, chatID, text); err != nil {
		log.Printf("[bot] stop confirmation send failed chatId=%d: %v", chatID, err)
	}
	return nil
}

func (s *service) handleContact(ctx context.Context, ev Event) error {
	if ev.Contact == nil {
		return nil
	}

	sess, ok := s.cache.Get(ev.ChatID)
	if !ok {
		return s.rejectWithoutSession(ctx, ev.ChatID)
	}
	if sess.LastAskedKey != "" {
		// Contact shared mid-questionnaire; not what was asked.
		return s.rejectInput(ctx, ev.ChatID, s.language(sess))
	}

	client, err := s.repo.FindClientByChatID(ctx, ev.ChatID)
	if err != nil {
		return err
	}

	cleared, err := s.messages.Translate(ctx, i18n.MsgKeyboardCleared, s.language(sess))
	if err != nil {
		return err
	}
	if err := s.outbound.ClearKeyboard(ctx, ev.ChatID, cleared); err != nil {
		log.Printf("[bot] keyboard clear failed chatId=%d: %v", ev.ChatID, err)
	}

	if client == nil {
		fullName := strings.TrimSpace(ev.Contact.FirstName + " " + ev.Contact.LastName)
		client = &Client{
			ChatID:      ev.ChatID,
			FullName:    fullName,
			PhoneNumber: ev.Contact.PhoneNumber,
		}
		if err := s.repo.CreateClient(ctx, client); err != nil {
			return err
		}
		log.Printf("[bot] client created chatId=%d clientId=%d", ev.ChatID, client.ID)

		thanks, err := s.messages.Translate(ctx, i18n.MsgThanks, s.language(sess))
		if err != nil {
			return err
		}
		if err := s.outbound.SendText(ctx, ev.ChatID, fmt.Sprintf(thanks, client.FullName)); err != nil {
			log.Printf("[bot] thank-you send failed chatId=%d: %v", ev.ChatID, err)
		}
	}

	first, err := s.graph.QuestionByID(ctx, graph.FirstQuestionID)
	if err != nil {
		return s.failStep(ctx, ev.ChatID, s.language(sess), err)
	}
	sess.Answered(first.Key, ev.Contact.PhoneNumber)
	return s.ask(ctx, sess, first)
}

func (s *service) handleButton(ctx context.Context, ev Event) error {
	if ev.CallbackID != "" {
		if err := s.outbound.AnswerCallback(ctx, ev.CallbackID); err != nil {
			log.Printf("[bot] callback ack failed chatId=%d: %v", ev.ChatID, err)
		}
	}

	sess, ok := s.cache.Get(ev.ChatID)
	if !ok {
		return s.rejectWithoutSession(ctx, ev.ChatID)
	}

	key, err := s.translator.ReverseLookup(ctx, ev.Text)
	if errors.Is(err, i18n.ErrUnknownText) {
		return s.rejectInput(ctx, ev.ChatID, s.language(sess))
	}
	if err != nil {
		return err
	}

	asked, err := s.graph.QuestionByKey(ctx, sess.LastAskedKey)
	if err != nil {
		return s.failStep(ctx, ev.ChatID, s.language(sess), err)
	}

	var chosen *graph.Option
	for i := range asked.Options {
		if asked.Options[i].Key == key {
			chosen = &asked.Options[i]
			break
		}
	}
	if chosen == nil {
		// Pressed a button from some other (stale) question.
		return s.rejectInput(ctx, ev.ChatID, s.language(sess))
	}

	// The very first selection of a conversation picks the language.
	if sess.Language == "" {
		lang, ok := i18n.Parse(chosen.Key)
		if !ok {
			log.Printf("[bot] chatId=%d chose unavailable language %q", ev.ChatID, chosen.Key)
			text, terr := s.messages.Translate(ctx, i18n.MsgUnknownLanguage, i18n.Default)
			if terr != nil {
				return terr
			}
			if serr := s.outbound.SendText(ctx, ev.ChatID, text); serr != nil {
				log.Printf("[bot] send failed chatId=%d: %v", ev.ChatID, serr)
			}
			return nil
		}
		sess.Language = lang
	}

	return s.advance(ctx, sess, *chosen, chosen.Key)
}

func (s *service) handleText(ctx context.Context, ev Event) error {
	sess, ok := s.cache.Get(ev.ChatID)
	if !ok {
		return s.rejectWithoutSession(ctx, ev.ChatID)
	}
	if sess.LastAskedKey == "" {
		// Still waiting for the contact share.
		return s.rejectInput(ctx, ev.ChatID, s.language(sess))
	}

	asked, err := s.graph.QuestionByKey(ctx, sess.LastAskedKey)
	if err != nil {
		return s.failStep(ctx, ev.ChatID, s.language(sess), err)
	}
	if !asked.FreeText() {
		return s.rejectInput(ctx, ev.ChatID, s.language(sess))
	}

	// The single option is a pass-through marker; the literal message text
	// is the collected answer.
	return s.advance(ctx, sess, asked.Options[0], ev.Text)
}

// advance follows the taken option: either asks the next question, recording
// answer as the input that led there, or runs the completion handoff.
func (s *service) advance(ctx context.Context, sess *ChatSession, chosen graph.Option, answer string) error {
	nextID, ok := chosen.Next.QuestionID()
	if !ok {
		return s.complete(ctx, sess)
	}

	next, err := s.graph.QuestionByID(ctx, nextID)
	if err != nil {
		return s.failStep(ctx, sess.ChatID, s.language(sess), err)
	}

	sess.Answered(next.Key, answer)
	return s.ask(ctx, sess, next)
}

// ask renders a question in the session's language and sends it. The cache
// is updated before the send: a delivery failure never rolls back the
// transition.
func (s *service) ask(ctx context.Context, sess *ChatSession, q graph.Question) error {
	lang := s.language(sess)

	text, err := s.translator.Translate(ctx, q.Key, lang)
	if err != nil {
		return s.failStep(ctx, sess.ChatID, lang, err)
	}

	var options []string
	if !q.FreeText() {
		options = make([]string, 0, len(q.Options))
		for _, opt := range q.Options {
			display, err := s.translator.Translate(ctx, opt.Key, lang)
			if err != nil {
				return s.failStep(ctx, sess.ChatID, lang, err)
			}
			options = append(options, display)
		}
	}

	sess.LastAskedKey = q.Key
	sess.Active = true
	s.cache.Put(sess)

	if err := s.outbound.SendTextWithButtons(ctx, sess.ChatID, text, options); err != nil {
		log.Printf("[bot] question send failed chatId=%d key=%s: %v", sess.ChatID, q.Key, err)
	}
	return nil
}

// complete is the terminal handoff: durable session first, then cache
// removal, then confirmation. A crash between the first two steps is
// replayed safely because completion checks for an existing active session.
func (s *service) complete(ctx context.Context, sess *ChatSession) error {
	client, err := s.repo.FindClientByChatID(ctx, sess.ChatID)
	if err != nil {
		return err
	}
	if client == nil {
		log.Printf("[bot] terminal reached without client chatId=%d", sess.ChatID)
		return nil
	}

	existing, err := s.repo.FindActiveSessionByClientID(ctx, client.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		record := &Session{
			ID:           uuid.New(),
			ClientID:     client.ID,
			RegisteredAt: time.Now(),
			Active:       true,
		}
		if err := s.repo.CreateSession(ctx, record); err != nil {
			return err
		}
		log.Printf("[bot] session %s is now active clientId=%d", record.ID, client.ID)
	}

	s.cache.Remove(sess.ChatID)

	text, err := s.messages.Translate(ctx, i18n.MsgWaiting, s.language(sess))
	if err != nil {
		return err
	}
	if err := s.outbound.SendText(ctx, sess.ChatID, text); err != nil {
		log.Printf("[bot] confirmation send failed chatId=%d: %v", sess.ChatID, err)
	}
	return nil
}

// rejectWithoutSession handles any event arriving for a chat with no live
// conversation. A redelivered terminal press lands here: when the chat
// already has a client with an active session the confirmation is resent
// instead of asking the user to /start again.
func (s *service) rejectWithoutSession(ctx context.Context, chatID int64) error {
	client, err := s.repo.FindClientByChatID(ctx, chatID)
	if err != nil {
		return err
	}
	if client != nil {
		existing, err := s.repo.FindActiveSessionByClientID(ctx, client.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			text, terr := s.messages.Translate(ctx, i18n.MsgWaiting, i18n.Default)
			if terr != nil {
				return terr
			}
			if serr := s.outbound.SendText(ctx, chatID, text); serr != nil {
				log.Printf("[bot] send failed chatId=%d: %v", chatID, serr)
			}
			return nil
		}
	}

	text, err := s.messages.Translate(ctx, i18n.MsgStartHint, i18n.Default)
	if err != nil {
		return err
	}
	if err := s.outbound.SendText(ctx, chatID, text); err != nil {
		log.Printf("[bot] send failed chatId=%d: %v", chatID, err)
	}
	return nil
}

func (s *service) rejectInput(ctx context.Context, chatID int64, lang i18n.Language) error {
	text, err := s.messages.Translate(ctx, i18n.MsgInvalidOption, lang)
	if err != nil {
		return err
	}
	if err := s.outbound.SendText(ctx, chatID, text); err != nil {
		log.Printf("[bot] send failed chatId=%d: %v", chatID, err)
	}
	return nil
}

// failStep classifies a step error. Authoring defects (a dangling graph
// reference, a missing translation) are reported to the user and leave the
// conversation state untouched so the step can be retried once the content
// is fixed. Infrastructure errors propagate.
func (s *service) failStep(ctx context.Context, chatID int64, lang i18n.Language, err error) error {
	if errors.Is(err, graph.ErrNotFound) || errors.Is(err, i18n.ErrMissingTranslation) {
		return s.reportStepFailure(ctx, chatID, lang, err)
	}
	return err
}

func (s *service) reportStepFailure(ctx context.Context, chatID int64, lang i18n.Language, cause error) error {
	log.Printf("[bot] step failed chatId=%d: %v", chatID, cause)

	text, err := s.messages.Translate(ctx, i18n.MsgStepFailed, lang)
	if err != nil {
		return err
	}
	if err := s.outbound.SendText(ctx, chatID, text); err != nil {
		log.Printf("[bot] send failed chatId=%d: %v", chatID, err)
	}
	return nil
}

func (s *service) language(sess *ChatSession) i18n.Language {
	if sess.Language == "" {
		return i18n.Default
	}
	return sess.Language
}
