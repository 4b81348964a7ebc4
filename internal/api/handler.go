package api

import (
	"github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"

	"qc-tracking-backend/internal/model"
	"qc-tracking-backend/internal/mw"
	"qc-tracking-backend/internal/store"
)

// Dispatcher queues reject alerts for delivery.
type Dispatcher interface {
	Dispatch(m model.Measurement) bool
}

// Deps are the collaborators shared by the API handlers. Subscriptions,
// Alerts and WebPush may be nil when push alerts are disabled.
type Deps struct {
	Store         store.Store
	Subscriptions store.SubscriptionStore
	Master        model.MasterData
	Standards     model.Standards
	WebPush       *webpush.Options
	Alerts        Dispatcher
	Logger        *zap.Logger
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store     store.Store
	subs      store.SubscriptionStore
	master    model.MasterData
	standards model.Standards
	webpush   *webpush.Options
	alerts    Dispatcher
	cache     *mw.ResponseCache
	log       *zap.Logger
}

// NewHandler creates a new API handler. responses is the GET response cache
// invalidated after every write; it may be nil.
func NewHandler(d Deps, responses *mw.ResponseCache) *Handler {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		store:     d.Store,
		subs:      d.Subscriptions,
		master:    d.Master,
		standards: d.Standards,
		webpush:   d.WebPush,
		alerts:    d.Alerts,
		cache:     responses,
		log:       log,
	}
}

func (h *Handler) invalidate() {
	if h.cache != nil {
		h.cache.Invalidate()
	}
}
