package cli

import "fmt"

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

type invalidIDError string

func (e invalidIDError) Error() string {
	return fmt.Sprintf("invalid id %q: ids are integers", string(e))
}

func errInvalidID(s string) error { return invalidIDError(s) }
