package relay

import "go.uber.org/zap/zapcore"

// Kind tags a Result
type Kind int

const (
	KindNotHandled Kind = iota
	KindHandled
	KindFailed
)

// String returns the metrics label for the kind
func (k Kind) String() string {
	switch k {
	case KindHandled:
		return "handled"
	case KindFailed:
		return "failed"
	default:
		return "not_handled"
	}
}

// Result is what a listener produces for one message. The zero value is
// NotHandled.
type Result struct {
	kind    Kind
	payload any
	err     error
	domain  string
}

// Handled wraps a parsed upstream payload.
func Handled(payload any) Result {
	return Result{kind: KindHandled, payload: payload}
}

// NotHandled signals that the listener does not recognize the query.
func NotHandled() Result {
	return Result{}
}

// Failed wraps a transport or parse failure.
func Failed(err error) Result {
	return Result{kind: KindFailed, err: err}
}

func (r Result) Kind() Kind { return r.kind }
func (r Result) Payload() any { return r.payload }
func (r Result) Err() error { return r.err }
func (r Result) Domain() string { return r.domain }
func (r Result) IsHandled() bool { return r.kind == KindHandled }
func (r Result) IsFailed() bool { return r.kind == KindFailed }

// Reply returns the value a surface observes and whether anything should be
// sent at all. Failures collapse to an absent (nil) value.
func (r Result) Reply() (any, bool) {
	switch r.kind {
	case KindHandled:
		return r.payload, true
	case KindFailed:
		return nil, true
	default:
		return nil, false
	}
}

// MarshalLogObject lets a Result be logged with zap.Object.
func (r Result) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("outcome", r.kind.String())
	if r.domain != "" {
		enc.AddString("domain", r.domain)
	}
	if r.err != nil {
		enc.AddString("error", r.err.Error())
	}
	return nil
}

func (r Result) from(domain string) Result {
	r.domain = domain
	return r
}
