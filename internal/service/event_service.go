package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/sparrowhq/talent-api/internal/dto"
	"github.com/sparrowhq/talent-api/internal/models"
	"github.com/sparrowhq/talent-api/internal/observability"
	"github.com/sparrowhq/talent-api/internal/repository"
)

const eventBufferSize = 16

// ErrEventNotFound indicates a progress event could not be found for the recipient.
var ErrEventNotFound = errors.New("progress event not found")

// ProgressEventService publishes and streams workflow events to recruiters via SSE.
type ProgressEventService interface {
	Publish(ctx context.Context, payload dto.ProgressEventCreateRequest) (dto.ProgressEventResponse, error)
	List(ctx context.Context, recipientID uint, limit, offset int) ([]dto.ProgressEventResponse, error)
	MarkRead(ctx context.Context, id, recipientID uint) (dto.ProgressEventResponse, error)
	Subscribe(recipientID uint) (<-chan dto.ProgressEventResponse, func())
	Start(ctx context.Context)
}

type progressEventService struct {
	repo         repository.ProgressEventRepository
	redis        *redis.Client
	redisChannel string
	nats         *nats.Conn
	natsSubject  string
	validator    *validator.Validate
	logger       zerolog.Logger
	tracer       trace.Tracer
	sanitizer    *bluemonday.Policy
	broker       *eventBroker
	nodeID       string
}

type fanOutEvent struct {
	Source string                    `json:"source"`
	Event  dto.ProgressEventResponse `json:"event"`
	SentAt time.Time                 `json:"sent_at"`
}

type eventBroker struct {
	mu          sync.RWMutex
	subscribers map[uint]map[chan dto.ProgressEventResponse]struct{}
}

// NewProgressEventService constructs a progress event service. The channel
// base names both the Redis channel and the NATS subject used for cross-node
// fan-out; an empty base keeps fan-out in-process only.
func NewProgressEventService(repo repository.ProgressEventRepository, redisClient *redis.Client, channelBase string, natsConn *nats.Conn, validate *validator.Validate, logger zerolog.Logger) ProgressEventService {
	channel := ""
	subject := ""
	if channelBase != "" {
		channel = channelBase + ":progress"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".progress"
	}

	return &progressEventService{
		repo:         repo,
		redis:        redisClient,
		redisChannel: channel,
		nats:         natsConn,
		natsSubject:  subject,
		validator:    validate,
		logger:       logger.With().Str("component", "progress_event_service").Logger(),
		tracer:       otel.Tracer("github.com/sparrowhq/talent-api/internal/service/events"),
		sanitizer:    bluemonday.StrictPolicy(),
		broker: &eventBroker{
			subscribers: make(map[uint]map[chan dto.ProgressEventResponse]struct{}),
		},
		nodeID: uuid.NewString(),
	}
}

func (s *progressEventService) Start(ctx context.Context) {
	if s.redis != nil && s.redisChannel != "" {
		go s.consumeRedis(ctx)
	}
	if s.nats != nil && s.natsSubject != "" {
		go s.consumeNATS(ctx)
	}
}

func (s *progressEventService) Publish(ctx context.Context, payload dto.ProgressEventCreateRequest) (dto.ProgressEventResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProgressEventResponse{}, err
	}

	cleanMessage := strings.TrimSpace(s.sanitizer.Sanitize(payload.Message))
	if cleanMessage == "" {
		return dto.ProgressEventResponse{}, errors.New("event message empty after sanitization")
	}

	attrs := []attribute.KeyValue{
		attribute.Int64("event.recipient_id", int64(payload.RecipientID)),
		attribute.String("event.type", payload.Type),
	}

	spanCtx, span := s.tracer.Start(ctx, "events.publish", trace.WithAttributes(attrs...))
	defer span.End()

	model := models.ProgressEvent{
		RecipientID: payload.RecipientID,
		Type:        payload.Type,
		Message:     cleanMessage,
		Metadata:    payload.Metadata,
	}

	if err := s.repo.Create(spanCtx, &model); err != nil {
		span.RecordError(err)
		return dto.ProgressEventResponse{}, err
	}

	response := dto.NewProgressEventResponse(model)
	s.broker.broadcast(response.RecipientID, response)
	if err := s.fanOut(spanCtx, response); err != nil {
		s.logger.Warn().Err(err).Msg("failed to fan out progress event")
	}

	observability.EventsPublishedTotal().WithLabelValues(response.Type).Inc()

	return response, nil
}

func (s *progressEventService) List(ctx context.Context, recipientID uint, limit, offset int) ([]dto.ProgressEventResponse, error) {
	if recipientID == 0 {
		return nil, ErrActorRequired
	}

	events, err := s.repo.ListByRecipient(ctx, recipientID, limit, offset)
	if err != nil {
		return nil, err
	}

	return dto.NewProgressEventResponseSlice(events), nil
}

func (s *progressEventService) MarkRead(ctx context.Context, id, recipientID uint) (dto.ProgressEventResponse, error) {
	if recipientID == 0 {
		return dto.ProgressEventResponse{}, ErrActorRequired
	}

	spanCtx, span := s.tracer.Start(ctx, "events.mark_read",
		trace.WithAttributes(attribute.Int64("event.recipient_id", int64(recipientID))))
	defer span.End()

	event, err := s.repo.MarkRead(spanCtx, id, recipientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProgressEventResponse{}, ErrEventNotFound
		}
		span.RecordError(err)
		return dto.ProgressEventResponse{}, err
	}

	return dto.NewProgressEventResponse(event), nil
}

func (s *progressEventService) Subscribe(recipientID uint) (<-chan dto.ProgressEventResponse, func()) {
	channel := make(chan dto.ProgressEventResponse, eventBufferSize)

	s.broker.subscribe(recipientID, channel)
	observability.SSEClientsActive().Inc()

	cleanup := func() {
		s.broker.unsubscribe(recipientID, channel)
		observability.SSEClientsActive().Dec()
	}

	return channel, cleanup
}

func (s *progressEventService) fanOut(ctx context.Context, event dto.ProgressEventResponse) error {
	envelope := fanOutEvent{
		Source: s.nodeID,
		Event:  event,
		SentAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	if s.redis != nil && s.redisChannel != "" {
		if err := s.redis.Publish(ctx, s.redisChannel, payload).Err(); err != nil {
			return err
		}
	}

	if s.nats != nil && s.natsSubject != "" {
		if err := s.nats.Publish(s.natsSubject, payload); err != nil {
			return err
		}
	}

	return nil
}

func (s *progressEventService) consumeRedis(ctx context.Context) {
	pubsub := s.redis.Subscribe(ctx, s.redisChannel)
	defer func() { _ = pubsub.Close() }()

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			s.logger.Error().Err(err).Msg("progress event redis subscription closed")
			return
		}
		s.handleFanOut([]byte(msg.Payload))
	}
}

func (s *progressEventService) consumeNATS(ctx context.Context) {
	sub, err := s.nats.QueueSubscribe(s.natsSubject, "talent-progress", func(msg *nats.Msg) {
		s.handleFanOut(msg.Data)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to subscribe to nats progress subject")
		return
	}

	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drain progress nats subscription")
		}
	}()
}

func (s *progressEventService) handleFanOut(payload []byte) {
	var envelope fanOutEvent
	if err := json.Unmarshal(payload, &envelope); err != nil {
		s.logger.Warn().Err(err).Msg("invalid progress event payload")
		return
	}

	if envelope.Source == s.nodeID {
		return
	}

	observability.EventsPublishedTotal().WithLabelValues(envelope.Event.Type).Inc()
	s.broker.broadcast(envelope.Event.RecipientID, envelope.Event)
}

func (b *eventBroker) subscribe(recipientID uint, ch chan dto.ProgressEventResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.subscribers[recipientID]; !exists {
		b.subscribers[recipientID] = make(map[chan dto.ProgressEventResponse]struct{})
	}
	b.subscribers[recipientID][ch] = struct{}{}
}

func (b *eventBroker) unsubscribe(recipientID uint, ch chan dto.ProgressEventResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if subscribers, ok := b.subscribers[recipientID]; ok {
		delete(subscribers, ch)
		close(ch)
		if len(subscribers) == 0 {
			delete(b.subscribers, recipientID)
		}
	}
}

func (b *eventBroker) broadcast(recipientID uint, event dto.ProgressEventResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	subscribers := b.subscribers[recipientID]
	for ch := range subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}
