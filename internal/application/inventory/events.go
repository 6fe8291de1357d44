package inventory

import "sync"

// Nombres de evento publicados por el motor de ajustes. Las capas de UI/API se
// suscriben y refrescan lo suyo; el motor no invalida cachés ajenos.
const (
	EventItemChanged         = "item_changed"
	EventTransactionsChanged = "transactions_changed"
)

// Event notificación de cambio tras persistir un ajuste.
type Event struct {
	Name      string
	CompanyID string
	ItemID    string
}

// EventBus bus de eventos en proceso, entrega síncrona en orden de suscripción.
type EventBus struct {
	mu   sync.RWMutex
	subs []func(Event)
}

// NewEventBus construye el bus.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registra un suscriptor. Los handlers deben ser rápidos: la entrega
// es síncrona dentro de la publicación.
func (b *EventBus) Subscribe(fn func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

// Publish entrega el evento a todos los suscriptores.
func (b *EventBus) Publish(ev Event) {
	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()
	for _, fn := range subs {
		fn(ev)
	}
}
