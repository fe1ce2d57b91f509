package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ajramos/inboxchat/internal/backend"
	"github.com/ajramos/inboxchat/internal/chat"
	"go.uber.org/zap"
)

// DefaultHistoryLimit is how many persisted messages are restored on bootstrap
const DefaultHistoryLimit = 50

// StoreProvider opens the persistence services for a signed-in account
type StoreProvider func(ctx context.Context, accountEmail string) (ReplyCacheService, HistoryService, error)

type pendingDelete struct {
	index int
	id    string
}

// AssistantServiceImpl implements AssistantService
type AssistantServiceImpl struct {
	client  EmailBackend
	replies ReplyCacheService // optional
	history HistoryService    // optional
	logger  *zap.Logger

	mu            sync.RWMutex
	profile       *backend.Profile
	emails        []backend.Email
	replyTexts    map[string]string
	transcript    []chat.Message
	loading       bool
	pendingDelete *pendingDelete
	pendingReply  int
	onChange      func()
	historyLimit  int
	storeProvider StoreProvider
}

// NewAssistantService creates a new assistant session. replies and history may be nil.
func NewAssistantService(client EmailBackend, replies ReplyCacheService, history HistoryService, logger *zap.Logger) *AssistantServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssistantServiceImpl{
		client:       client,
		replies:      replies,
		history:      history,
		logger:       logger,
		replyTexts:   make(map[string]string),
		pendingReply: -1,
		historyLimit: DefaultHistoryLimit,
	}
}

// SetHistoryLimit changes how many messages Bootstrap restores
func (s *AssistantServiceImpl) SetHistoryLimit(limit int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit > 0 {
		s.historyLimit = limit
	}
}

// SetStoreProvider makes Bootstrap swap in per-account reply cache and
// history services once the profile is known
func (s *AssistantServiceImpl) SetStoreProvider(p StoreProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storeProvider = p
}

// OnChange registers a callback invoked after every state change. The
// callback runs on the goroutine that performed the change.
func (s *AssistantServiceImpl) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Bootstrap checks the session and greets the user
func (s *AssistantServiceImpl) Bootstrap(ctx context.Context) (*backend.Profile, error) {
	if s.client == nil {
		return nil, fmt.Errorf("backend client not available: %w", ErrNotAuthenticated)
	}

	profile, err := s.client.Me(ctx)
	if err != nil {
		s.logger.Warn("session check failed", zap.Error(err))
		return nil, fmt.Errorf("session check failed: %w", err)
	}

	s.attachStores(ctx, profile.Email)
	restored := s.loadHistory(ctx, profile.Email)

	s.mu.Lock()
	s.profile = profile
	s.transcript = restored
	s.mu.Unlock()

	s.logger.Info("session ready", zap.String("account", profile.Email))
	s.say(ctx, chat.NewAssistantMessage(chat.Greeting(profile.DisplayName())))
	return profile, nil
}

func (s *AssistantServiceImpl) attachStores(ctx context.Context, account string) {
	s.mu.RLock()
	provider := s.storeProvider
	s.mu.RUnlock()
	if provider == nil {
		return
	}

	replies, history, err := provider(ctx, account)
	if err != nil {
		s.logger.Warn("local history unavailable", zap.String("account", account), zap.Error(err))
		return
	}

	s.mu.Lock()
	s.replies = replies
	s.history = history
	s.mu.Unlock()
}

func (s *AssistantServiceImpl) stores() (ReplyCacheService, HistoryService) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.replies, s.history
}

func (s *AssistantServiceImpl) loadHistory(ctx context.Context, account string) []chat.Message {
	_, history := s.stores()
	if history == nil || account == "" {
		return nil
	}
	s.mu.RLock()
	limit := s.historyLimit
	s.mu.RUnlock()

	msgs, err := history.Recent(ctx, account, limit)
	if err != nil {
		s.logger.Warn("failed to restore chat history", zap.Error(err))
		return nil
	}
	return msgs
}

// HandleInput interprets a line typed in the chat
func (s *AssistantServiceImpl) HandleInput(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	s.say(ctx, chat.NewUserMessage(text))

	s.mu.RLock()
	pending := s.pendingDelete != nil
	count := len(s.emails)
	s.mu.RUnlock()

	if pending {
		switch chat.ParseConfirmation(text) {
		case chat.KindConfirm:
			return s.ConfirmDelete(ctx)
		case chat.KindCancel:
			s.CancelDelete()
			return nil
		default:
			s.say(ctx, chat.NewAssistantMessage(chat.ConfirmPromptText))
			return nil
		}
	}

	cmd := chat.Parse(text, count)
	s.logger.Debug("chat command", zap.String("kind", cmd.Kind.String()), zap.Int("index", cmd.Index))

	switch cmd.Kind {
	case chat.KindShowLatest:
		return s.showLatest(ctx)
	case chat.KindGenerateReply:
		return s.generateReply(ctx, cmd.Index)
	case chat.KindSendReply:
		return s.sendReply(ctx, cmd.Index)
	case chat.KindDelete:
		return s.RequestDelete(cmd.Index)
	default:
		s.say(ctx, chat.NewAssistantMessage(chat.HelpText()))
		return nil
	}
}

// ShowLatest fetches the latest emails on behalf of a UI action
func (s *AssistantServiceImpl) ShowLatest(ctx context.Context) error {
	if s.deletePending() {
		return ErrDeletePending
	}
	s.say(ctx, chat.NewUserMessage(chat.ShowLatestRequest))
	return s.showLatest(ctx)
}

func (s *AssistantServiceImpl) showLatest(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	emails, err := s.client.LatestEmails(ctx)
	if err != nil {
		s.logger.Error("failed to fetch latest emails", zap.Error(err))
		s.say(ctx, chat.NewAssistantMessage(chat.FetchFailedText))
		return fmt.Errorf("failed to fetch emails: %w", err)
	}

	cached := s.hydrateReplies(ctx, emails)

	s.mu.Lock()
	s.emails = emails
	if s.pendingDelete != nil {
		s.pendingDelete = rebasePendingDelete(s.pendingDelete, emails)
	}
	for id, reply := range cached {
		s.replyTexts[id] = reply
	}
	if s.pendingReply >= len(emails) {
		s.pendingReply = -1
	}
	s.mu.Unlock()

	s.logger.Info("fetched latest emails", zap.Int("count", len(emails)))
	if len(emails) == 0 {
		s.say(ctx, chat.NewAssistantMessage(chat.EmptyInboxText))
		return nil
	}
	s.say(ctx, chat.NewAssistantMessage(chat.FormatEmailList(emails)))
	return nil
}

// rebasePendingDelete points a pending delete at the email's position in a
// new list, or drops it when the email is gone
func rebasePendingDelete(p *pendingDelete, emails []backend.Email) *pendingDelete {
	for i, e := range emails {
		if e.ID == p.id {
			return &pendingDelete{index: i, id: p.id}
		}
	}
	return nil
}

// hydrateReplies loads replies generated in earlier sessions
func (s *AssistantServiceImpl) hydrateReplies(ctx context.Context, emails []backend.Email) map[string]string {
	replies, _ := s.stores()
	account := s.account()
	if replies == nil || account == "" {
		return nil
	}
	out := make(map[string]string)
	for _, e := range emails {
		reply, found, err := replies.GetReply(ctx, account, e.ID)
		if err != nil {
			s.logger.Debug("reply cache lookup failed", zap.String("message_id", e.ID), zap.Error(err))
			continue
		}
		if found {
			out[e.ID] = reply
		}
	}
	return out
}

// GenerateReply asks the backend for a reply to email index (0-based) on
// behalf of a UI action
func (s *AssistantServiceImpl) GenerateReply(ctx context.Context, index int) error {
	if s.deletePending() {
		return ErrDeletePending
	}
	if _, ok := s.emailAt(index); !ok {
		return ErrInvalidIndex
	}
	s.say(ctx, chat.NewUserMessage(chat.GenerateRequestText(index)))
	return s.generateReply(ctx, index)
}

func (s *AssistantServiceImpl) generateReply(ctx context.Context, index int) error {
	email, ok := s.emailAt(index)
	if !ok {
		return ErrInvalidIndex
	}

	s.setLoading(true)
	defer s.setLoading(false)

	res, err := s.client.GenerateReply(ctx, email.ID)
	if err != nil {
		s.logger.Error("reply generation failed", zap.String("message_id", email.ID), zap.Error(err))
		if errors.Is(err, backend.ErrQuotaExceeded) {
			s.say(ctx, chat.NewAssistantMessage(chat.ReplyQuotaText))
		} else {
			s.say(ctx, chat.NewAssistantMessage(chat.ReplyFailedText))
		}
		return fmt.Errorf("failed to generate reply: %w", err)
	}

	s.mu.Lock()
	s.replyTexts[email.ID] = res.Reply
	s.pendingReply = index
	s.mu.Unlock()

	if replies, _ := s.stores(); replies != nil {
		if err := replies.SaveReply(ctx, s.account(), email.ID, res.Reply); err != nil {
			s.logger.Warn("failed to cache generated reply", zap.String("message_id", email.ID), zap.Error(err))
		}
	}

	s.say(ctx, chat.NewAssistantMessage(chat.SuggestedReplyText(index, res.Reply)))
	return nil
}

// SendReply sends the generated reply for email index (0-based) on behalf
// of a UI action
func (s *AssistantServiceImpl) SendReply(ctx context.Context, index int) error {
	if s.deletePending() {
		return ErrDeletePending
	}
	if _, ok := s.emailAt(index); !ok {
		return ErrInvalidIndex
	}
	if _, ok := s.Reply(index); ok {
		s.say(ctx, chat.NewUserMessage(chat.SendRequestText(index)))
	}
	return s.sendReply(ctx, index)
}

func (s *AssistantServiceImpl) sendReply(ctx context.Context, index int) error {
	email, ok := s.emailAt(index)
	if !ok {
		return ErrInvalidIndex
	}

	s.mu.RLock()
	reply, found := s.replyTexts[email.ID]
	s.mu.RUnlock()
	if !found {
		s.say(ctx, chat.NewAssistantMessage(chat.ReplyMissingText))
		return ErrReplyNotGenerated
	}

	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.client.SendReply(ctx, email.ID, reply); err != nil {
		s.logger.Error("send reply failed", zap.String("message_id", email.ID), zap.Error(err))
		s.say(ctx, chat.NewAssistantMessage(chat.SendFailedText(index)))
		return fmt.Errorf("failed to send reply: %w", err)
	}

	s.logger.Info("reply sent", zap.String("message_id", email.ID))
	s.say(ctx, chat.NewAssistantMessage(chat.SentText(index)))
	return nil
}

// RequestDelete asks the user to confirm deleting email index (0-based).
// Only one delete can await confirmation at a time.
func (s *AssistantServiceImpl) RequestDelete(index int) error {
	email, ok := s.emailAt(index)
	if !ok {
		return ErrInvalidIndex
	}

	s.mu.Lock()
	if s.pendingDelete != nil {
		s.mu.Unlock()
		return ErrDeletePending
	}
	s.pendingDelete = &pendingDelete{index: index, id: email.ID}
	s.mu.Unlock()

	s.say(context.Background(), chat.NewAssistantMessage(chat.DeletePromptText(index, email.Subject)))
	return nil
}

// ConfirmDelete deletes the email awaiting confirmation
func (s *AssistantServiceImpl) ConfirmDelete(ctx context.Context) error {
	s.mu.Lock()
	pending := s.pendingDelete
	s.pendingDelete = nil
	s.mu.Unlock()

	if pending == nil {
		return ErrNoPendingDelete
	}

	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.client.DeleteEmail(ctx, pending.id); err != nil {
		s.logger.Error("delete failed", zap.String("message_id", pending.id), zap.Error(err))
		s.say(ctx, chat.NewAssistantMessage(chat.DeleteFailedText))
		return fmt.Errorf("failed to delete email: %w", err)
	}

	s.mu.Lock()
	for i, e := range s.emails {
		if e.ID == pending.id {
			s.emails = append(s.emails[:i:i], s.emails[i+1:]...)
			break
		}
	}
	delete(s.replyTexts, pending.id)
	s.pendingReply = -1
	s.mu.Unlock()

	if replies, _ := s.stores(); replies != nil {
		if err := replies.InvalidateReply(ctx, s.account(), pending.id); err != nil {
			s.logger.Debug("failed to drop cached reply", zap.String("message_id", pending.id), zap.Error(err))
		}
	}

	s.logger.Info("email deleted", zap.String("message_id", pending.id))
	s.say(ctx, chat.NewAssistantMessage(chat.DeletedText(pending.index)))
	return nil
}

// CancelDelete drops the pending delete
func (s *AssistantServiceImpl) CancelDelete() {
	s.mu.Lock()
	s.pendingDelete = nil
	s.mu.Unlock()
	s.say(context.Background(), chat.NewAssistantMessage(chat.DeleteCancelledText))
}

// Logout ends the backend session and clears the local state
func (s *AssistantServiceImpl) Logout(ctx context.Context) error {
	err := s.client.Logout(ctx)
	if err != nil {
		s.logger.Warn("backend logout failed", zap.Error(err))
	}

	s.mu.Lock()
	s.profile = nil
	s.emails = nil
	s.replyTexts = make(map[string]string)
	s.transcript = nil
	s.pendingDelete = nil
	s.pendingReply = -1
	s.loading = false
	s.mu.Unlock()

	s.notify()
	return err
}

// Snapshot returns a copy of the current state
func (s *AssistantServiceImpl) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Emails:        make([]EmailView, len(s.emails)),
		Transcript:    append([]chat.Message(nil), s.transcript...),
		Loading:       s.loading,
		PendingDelete: -1,
		PendingReply:  s.pendingReply,
	}
	if s.profile != nil {
		p := *s.profile
		snap.Profile = &p
	}
	for i, e := range s.emails {
		_, ready := s.replyTexts[e.ID]
		snap.Emails[i] = EmailView{Email: e, Number: i + 1, ReplyReady: ready}
	}
	if s.pendingDelete != nil {
		snap.PendingDelete = s.pendingDelete.index
	}
	return snap
}

// Reply returns the generated reply for email index (0-based)
func (s *AssistantServiceImpl) Reply(index int) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.emails) {
		return "", false
	}
	reply, ok := s.replyTexts[s.emails[index].ID]
	return reply, ok
}

func (s *AssistantServiceImpl) deletePending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pendingDelete != nil
}

func (s *AssistantServiceImpl) emailAt(index int) (backend.Email, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.emails) {
		return backend.Email{}, false
	}
	return s.emails[index], true
}

func (s *AssistantServiceImpl) account() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return ""
	}
	return s.profile.Email
}

func (s *AssistantServiceImpl) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
	s.notify()
}

// say appends a message to the transcript and persists it
func (s *AssistantServiceImpl) say(ctx context.Context, msg chat.Message) {
	s.mu.Lock()
	s.transcript = append(s.transcript, msg)
	s.mu.Unlock()

	if _, history := s.stores(); history != nil {
		if account := s.account(); account != "" {
			if err := history.Append(ctx, account, msg); err != nil {
				s.logger.Debug("failed to persist chat message", zap.Error(err))
			}
		}
	}
	s.notify()
}

func (s *AssistantServiceImpl) notify() {
	s.mu.RLock()
	fn := s.onChange
	s.mu.RUnlock()
	if fn != nil {
		fn()
	}
}
