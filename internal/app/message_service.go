package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"gohire/internal/common"
	"gohire/internal/domain/analytics"
	"gohire/internal/domain/contract"
	"gohire/internal/domain/message"
	"gohire/internal/domain/profile"
	"gohire/internal/realtime"
)

const maxMessageLength = 4000

type MessageService struct {
	repo      message.Repository
	contracts contract.Repository
	profiles  profile.Repository
	broker    realtime.Broker
	analytics analytics.Repository
	logger    Logger
}

func NewMessageService(repo message.Repository, contracts contract.Repository, profiles profile.Repository, broker realtime.Broker, analytics analytics.Repository, logger Logger) *MessageService {
	return &MessageService{repo: repo, contracts: contracts, profiles: profiles, broker: broker, analytics: analytics, logger: logger}
}

func (s *MessageService) authorize(ctx context.Context, contractID, userID common.UUID) (*contract.Contract, error) {
	c, err := s.contracts.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if !c.IsParty(userID) {
		return nil, common.NewError(common.CodeForbidden, "not a party to this contract", nil)
	}
	return c, nil
}

// Send stores a message and pushes it to live subscribers of the contract.
// The sender's display name is stored with the row.
func (s *MessageService) Send(ctx context.Context, contractID, senderID common.UUID, content string) (*message.Message, error) {
	text := strings.TrimSpace(content)
	if text == "" {
		return nil, common.NewValidationError("invalid message", map[string]string{"content": "content is required"})
	}
	if utf8.RuneCountInString(text) > maxMessageLength {
		return nil, common.NewValidationError("invalid message", map[string]string{"content": fmt.Sprintf("content must have at most %d characters", maxMessageLength)})
	}
	if _, err := s.authorize(ctx, contractID, senderID); err != nil {
		return nil, err
	}
	senderName := ""
	if p, err := s.profiles.GetByID(ctx, senderID); err == nil {
		senderName = p.FullName
	} else {
		logError(s.logger, fmt.Sprintf("sender profile load failed user_id=%s err=%v", senderID, err))
	}
	stored, err := s.repo.Append(ctx, message.Message{
		ContractID: contractID,
		SenderID:   senderID,
		SenderName: senderName,
		Content:    text,
	})
	if err != nil {
		return nil, err
	}
	if s.broker != nil {
		if payload, err := json.Marshal(stored); err == nil {
			if err := s.broker.Publish(ctx, message.Topic(contractID), payload); err != nil {
				logError(s.logger, fmt.Sprintf("message publish failed contract_id=%s err=%v", contractID, err))
			}
		}
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: "message.sent", UserID: &senderID, Payload: analyticsPayload(ctx, map[string]string{"contract_id": contractID.String()})})
	return stored, nil
}

// List returns the contract's messages in chronological order.
func (s *MessageService) List(ctx context.Context, contractID, userID common.UUID) ([]message.Message, error) {
	if _, err := s.authorize(ctx, contractID, userID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListByContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []message.Message{}
	}
	message.SortChronological(items)
	return items, nil
}

// Reconcile re-reads the full history; subscribers call it after a push to
// repair anything they missed.
func (s *MessageService) Reconcile(ctx context.Context, contractID, userID common.UUID) ([]message.Message, error) {
	return s.List(ctx, contractID, userID)
}

// Subscribe streams new messages of one contract until ctx ends or the
// returned cancel func is called. The channel is closed on teardown.
func (s *MessageService) Subscribe(ctx context.Context, contractID, userID common.UUID) (<-chan message.Message, func(), error) {
	if _, err := s.authorize(ctx, contractID, userID); err != nil {
		return nil, nil, err
	}
	if s.broker == nil {
		return nil, nil, common.NewError(common.CodeInternal, "realtime broker not configured", nil)
	}
	payloads, cancel, err := s.broker.Subscribe(ctx, message.Topic(contractID))
	if err != nil {
		return nil, nil, common.NewError(common.CodeInternal, "failed to subscribe", err)
	}
	out := make(chan message.Message)
	done := make(chan struct{})
	var once sync.Once
	stop := func() {
		once.Do(func() {
			close(done)
			cancel()
		})
	}
	go func() {
		defer close(out)
		for payload := range payloads {
			var msg message.Message
			if err := json.Unmarshal(payload, &msg); err != nil {
				logError(s.logger, fmt.Sprintf("message decode failed contract_id=%s err=%v", contractID, err))
				continue
			}
			select {
			case out <- msg:
			case <-ctx.Done():
				stop()
				return
			case <-done:
				return
			}
		}
	}()
	return out, stop, nil
}
