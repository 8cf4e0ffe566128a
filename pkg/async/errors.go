package async

import "errors"

var (
	ErrNilFuture = errors.New("async: continuation returned a nil future")
)
