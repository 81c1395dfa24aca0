package domain

import "errors"

var (
	// ErrNotFound: el colaborador externo no tiene lo que se pidió.
	ErrNotFound = errors.New("not found")

	// ErrMalformedResponse: el colaborador respondió con una forma inesperada.
	ErrMalformedResponse = errors.New("malformed upstream response")

	// ErrUpstream: el colaborador respondió con un estado de error.
	ErrUpstream = errors.New("upstream error")

	// ErrUnavailable: el colaborador no está configurado en este despliegue.
	ErrUnavailable = errors.New("service unavailable")

	// ErrDeliveryFailed: no se pudo enviar o borrar en la plataforma.
	ErrDeliveryFailed = errors.New("delivery failed")
)
