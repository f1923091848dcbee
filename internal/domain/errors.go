package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// La capa HTTP los traduce a códigos de estado con errors.Is.
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUpstream     = errors.New("servicio externo no disponible")
)

// Error error de dominio con un mensaje legible para el cliente.
// Kind es uno de los sentinelas de arriba; Err, si existe, es la causa técnica.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

// Unwrap permite errors.Is tanto contra Kind como contra la causa.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// NotFound construye un error ErrNotFound con mensaje.
func NotFound(msg string) error { return &Error{Kind: ErrNotFound, Msg: msg} }

// Invalid construye un error ErrInvalidInput con mensaje.
func Invalid(msg string) error { return &Error{Kind: ErrInvalidInput, Msg: msg} }

// Upstream construye un error ErrUpstream envolviendo la causa.
func Upstream(msg string, cause error) error { return &Error{Kind: ErrUpstream, Msg: msg, Err: cause} }

// Message devuelve el mensaje para el cliente de un error de dominio (sin la causa técnica).
// Para errores que no son de dominio devuelve "".
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Msg
	}
	return ""
}
