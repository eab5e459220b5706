package logs

import "github.com/reusee/dscope"

type Module struct {
	dscope.Module
}

// Span identifies one edit (or one drain) flowing through the network.
type Span string

type spanKey struct{}

var SpanKey spanKey
