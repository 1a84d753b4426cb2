package utils

type contextKey struct {
	name string
}

func (k *contextKey) String() string {
	return "gadget-server context key " + k.name
}

var TraceIdKey = &contextKey{"traceId"}
var SanitizedPayloadKey = &contextKey{"sanitizedPayload"}
var AuthUserKey = &contextKey{"authUser"}
