package adjustment

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// State estado de una sesión de ajuste.
type State string

const (
	StateEditing    State = "editing"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
)

// Session modela una sesión de formulario de ajuste:
//
//	editing → validating → submitting → success
//	                ↘ (errores de campo) ↘ (error externo)
//	                  editing              editing
//
// El borrador nunca se pierde: tras un rechazo de validación o un fallo del
// backend la sesión vuelve a editing con el borrador intacto y se puede
// reenviar. Estado mutable de una sola sesión, no compartido entre sesiones
// concurrentes.
type Session struct {
	state        State
	draft        Draft
	currentStock decimal.Decimal
	fieldErrors  FieldErrors
	lastErr      error
}

// NewSession abre una sesión de ajuste para un tipo de transacción con el
// stock disponible del artículo al momento de cargar el formulario.
func NewSession(t entity.TransactionType, currentStock decimal.Decimal) *Session {
	return &Session{
		state:        StateEditing,
		draft:        Draft{Type: t},
		currentStock: currentStock,
	}
}

// Edit aplica una edición de campo numérico vía el reducer. Solo tiene efecto
// en estado editing.
func (s *Session) Edit(field Field, value *decimal.Decimal) {
	if s.state != StateEditing {
		return
	}
	s.draft = Recalculate(s.draft, field, value, s.currentStock)
}

// SetReference fija el número de referencia del borrador.
func (s *Session) SetReference(ref string) {
	if s.state == StateEditing {
		s.draft.Reference = ref
	}
}

// SetReason fija el motivo del borrador.
func (s *Session) SetReason(reason string) {
	if s.state == StateEditing {
		s.draft.Reason = reason
	}
}

// SetDate fija la fecha de la transacción.
func (s *Session) SetDate(date time.Time) {
	if s.state == StateEditing {
		s.draft.Date = date
	}
}

// Submit valida el borrador y, si pasa, lo entrega a persist. Con errores de
// campo la sesión regresa a editing con los errores adjuntos y devuelve false.
// Si persist falla, el error externo se conserva tal cual (sin reintentos:
// reintentar es decisión del caller) y la sesión vuelve a editing.
func (s *Session) Submit(persist func(Draft) error) bool {
	if s.state != StateEditing {
		return false
	}
	s.state = StateValidating
	s.fieldErrors = Validate(s.draft, s.currentStock)
	if len(s.fieldErrors) > 0 {
		s.state = StateEditing
		return false
	}
	s.state = StateSubmitting
	if err := persist(s.draft); err != nil {
		s.lastErr = err
		s.state = StateEditing
		return false
	}
	s.lastErr = nil
	s.state = StateSuccess
	return true
}

// State devuelve el estado actual.
func (s *Session) State() State { return s.state }

// Draft devuelve una copia del borrador actual.
func (s *Session) Draft() Draft { return s.draft }

// FieldErrors devuelve los errores del último intento de envío (nil si no hay).
func (s *Session) FieldErrors() FieldErrors { return s.fieldErrors }

// LastError devuelve el último error externo de persistencia, verbatim.
func (s *Session) LastError() error { return s.lastErr }
