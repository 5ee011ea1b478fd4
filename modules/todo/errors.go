package todo

import "errors"

// ErrTaskNotFound is returned by TodoPort when an edit or completion targets
// an id that is not in the "Todo List". The store state is unchanged.
var ErrTaskNotFound = errors.New("task not found in todo list")
