package services

import (
	"github.com/ghuser/inventory/pkg/app"
	"github.com/ghuser/inventory/pkg/logger"
	"github.com/ghuser/inventory/services/inventory/domain/repositories"
)

// Services is the application-layer service container for this bounded context.
// Both services share one store so user reads always see current items.
type Services struct {
	Item *ItemService
	User *UserService
}

// New wires the inventory application services with infrastructure from the
// Application container.
func New(a *app.Application) *Services {
	var pub Publisher
	if a.EventBus != nil {
		pub = a.EventBus
	}
	return NewServices(a.Store, pub, a.Logger)
}

// NewServices wires both services over store. pub may be nil.
func NewServices(store repositories.Store, pub Publisher, log logger.Logger) *Services {
	ev := &eventPublisher{pub: pub, log: log}
	m := newInstruments()
	return &Services{
		Item: &ItemService{store: store, events: ev, log: log, metrics: m},
		User: &UserService{store: store, events: ev, log: log, metrics: m},
	}
}
