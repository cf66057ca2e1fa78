package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"mindease-chat/internal/ai"
	"mindease-chat/internal/model"
	"mindease-chat/internal/repository"
	"mindease-chat/internal/session"
	"mindease-chat/internal/transcript"
)

var (
	ErrLoginRequired = errors.New("please login first")
	ErrMessageEmpty  = errors.New("message content is empty")
	ErrLLMConfig     = errors.New("llm config is invalid")
)

const historyTimeFormat = "2006-01-02 15:04:05"

type AsyncMessagePublisher interface {
	Publish(ctx context.Context, msg model.Message) error
}

type HistoryCache interface {
	GetHistory(ctx context.Context, uid string) ([]model.Message, bool, error)
	SetHistory(ctx context.Context, uid string, messages []model.Message) error
	DeleteHistory(ctx context.Context, uid string) error
	MarkDirty(ctx context.Context, uid string) error
	IsDirty(ctx context.Context, uid string) (bool, error)
}

// ChatService is the send-message orchestrator: gate on the session, generate
// a reply, record the turn, persist the two messages.
type ChatService struct {
	messageRepo  *repository.MessageRepository
	publisher    AsyncMessagePublisher
	transcripts  *transcript.Store
	historyCache HistoryCache
	llmClient    *ai.CompletionClient
	llmCfg       ai.ChatConfig
}

func NewChatService(
	messageRepo *repository.MessageRepository,
	publisher AsyncMessagePublisher,
	transcripts *transcript.Store,
	historyCache HistoryCache,
	llmCfg ai.ChatConfig,
) *ChatService {
	return &ChatService{
		messageRepo:  messageRepo,
		publisher:    publisher,
		transcripts:  transcripts,
		historyCache: historyCache,
		llmClient:    ai.NewCompletionClient(),
		llmCfg:       llmCfg,
	}
}

// Send runs one chat turn and returns the updated transcript. A completion
// failure is appended to the transcript instead of failing the call: the
// conversation stays continuable. Nothing is persisted on the failure path.
func (s *ChatService) Send(ctx context.Context, sess session.Session, sid, content string) ([]transcript.Turn, error) {
	if !sess.LoggedIn {
		return nil, ErrLoginRequired
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrMessageEmpty
	}
	if err := s.validateLLM(); err != nil {
		return nil, err
	}

	// Only the latest user message is forwarded; the provider sees each call
	// as a fresh single-turn conversation.
	reply, err := s.llmClient.Complete(ctx, s.llmCfg, []ai.ChatMessage{
		{Role: "user", Content: content},
	})
	if err != nil {
		errTurn := transcript.Turn{
			Prompt: transcript.SystemSpeaker,
			Reply:  fmt.Sprintf("chat error: %v", err),
		}
		if appendErr := s.transcripts.Append(ctx, sid, errTurn); appendErr != nil {
			return nil, appendErr
		}
		return s.transcripts.List(ctx, sid)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		reply = "The model returned an empty response."
	}

	if err := s.transcripts.Append(ctx, sid, transcript.Turn{Prompt: content, Reply: reply}); err != nil {
		return nil, err
	}

	s.persistTurn(ctx, sess.UID, content, reply)

	return s.transcripts.List(ctx, sid)
}

// SendStream is the streaming variant of Send: chunks go to onChunk as they
// arrive, and the turn is recorded once the stream completes.
func (s *ChatService) SendStream(
	ctx context.Context,
	sess session.Session,
	sid, content string,
	onChunk func(string) error,
) (string, error) {
	if !sess.LoggedIn {
		return "", ErrLoginRequired
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrMessageEmpty
	}
	if err := s.validateLLM(); err != nil {
		return "", err
	}

	reply, err := s.llmClient.StreamComplete(ctx, s.llmCfg, []ai.ChatMessage{
		{Role: "user", Content: content},
	}, onChunk)
	if err != nil {
		return "", err
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		reply = "The model returned an empty response."
	}

	if err := s.transcripts.Append(ctx, sid, transcript.Turn{Prompt: content, Reply: reply}); err != nil {
		return "", err
	}

	s.persistTurn(ctx, sess.UID, content, reply)

	return reply, nil
}

// Transcript returns the session's displayed conversation so far.
func (s *ChatService) Transcript(ctx context.Context, sess session.Session, sid string) ([]transcript.Turn, error) {
	if !sess.LoggedIn {
		return nil, ErrLoginRequired
	}
	return s.transcripts.List(ctx, sid)
}

// History renders the user's persisted chat log, oldest first, one line per
// message. Reading twice without intervening writes yields identical output.
func (s *ChatService) History(ctx context.Context, sess session.Session) (string, error) {
	if !sess.LoggedIn {
		return "", ErrLoginRequired
	}

	messages, err := s.loadHistory(ctx, sess.UID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, msg := range messages {
		b.WriteString(fmt.Sprintf("[%s] (%s) %s\n", msg.Role, msg.CreatedAt.Format(historyTimeFormat), msg.Text))
	}
	return b.String(), nil
}

// persistTurn enqueues the user message and the reply, in that order, for the
// persistence worker. Best effort: a full queue or dead broker costs the log
// entry, not the chat turn.
func (s *ChatService) persistTurn(ctx context.Context, uid, content, reply string) {
	if s.historyCache != nil {
		_ = s.historyCache.MarkDirty(ctx, uid)
		_ = s.historyCache.DeleteHistory(ctx, uid)
	}

	now := time.Now()
	userMsg := model.Message{UID: uid, Role: model.RoleUser, Text: content, CreatedAt: now}
	botMsg := model.Message{UID: uid, Role: model.RoleBot, Text: reply, CreatedAt: now.Add(time.Millisecond)}

	if err := s.publisher.Publish(ctx, userMsg); err != nil {
		log.Printf("enqueue user message failed: %v", err)
		return
	}
	if err := s.publisher.Publish(ctx, botMsg); err != nil {
		log.Printf("enqueue bot message failed: %v", err)
	}
}

func (s *ChatService) loadHistory(ctx context.Context, uid string) ([]model.Message, error) {
	if s.historyCache != nil {
		dirty, err := s.historyCache.IsDirty(ctx, uid)
		if err == nil && !dirty {
			if cached, hit, cacheErr := s.historyCache.GetHistory(ctx, uid); cacheErr == nil && hit {
				return cached, nil
			}
		}
	}

	messages, err := s.messageRepo.ListByUID(uid, 0)
	if err != nil {
		return nil, err
	}
	if s.historyCache != nil {
		if dirty, dirtyErr := s.historyCache.IsDirty(ctx, uid); dirtyErr == nil && !dirty {
			_ = s.historyCache.SetHistory(ctx, uid, messages)
		}
	}
	return messages, nil
}

func (s *ChatService) validateLLM() error {
	if s.llmCfg.BaseURL == "" || s.llmCfg.APIKey == "" || s.llmCfg.Model == "" {
		return ErrLLMConfig
	}
	return nil
}
