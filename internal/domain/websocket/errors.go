package websocket

import "errors"

var errMissingType = errors.New("websocket frame has no type")
