package boundary

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yuzamesan3/surrealdb-ffi-codec/envelope"
	"github.com/yuzamesan3/surrealdb-ffi-codec/errors"
	"github.com/yuzamesan3/surrealdb-ffi-codec/executor"
	"github.com/yuzamesan3/surrealdb-ffi-codec/hint"
	"github.com/yuzamesan3/surrealdb-ffi-codec/payload"
	"github.com/yuzamesan3/surrealdb-ffi-codec/transcode"
	"github.com/yuzamesan3/surrealdb-ffi-codec/value"
)

// DefaultMaxRequestSize bounds the request buffer a boundary will decode.
const DefaultMaxRequestSize = 64 << 20

// Boundary sequences the pipeline and owns response buffers. Safe for
// concurrent use; the only shared mutable state is the execution context and
// the buffer table, both internally synchronized.
type Boundary struct {
	exec       executor.QueryExecutor
	log        *zap.Logger
	ctx        *ExecContext
	buffers    *bufferTable
	maxRequest int
}

// Option configures a Boundary.
type Option func(*Boundary)

// WithLogger sets the structured logger. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *Boundary) {
		if l != nil {
			b.log = l
		}
	}
}

// WithExecContext uses an isolated execution context instead of the shared
// process-wide one. Intended for tests.
func WithExecContext(c *ExecContext) Option {
	return func(b *Boundary) {
		if c != nil {
			b.ctx = c
		}
	}
}

// WithMaxRequestSize overrides the request size limit.
func WithMaxRequestSize(n int) Option {
	return func(b *Boundary) {
		if n > 0 {
			b.maxRequest = n
		}
	}
}

// New creates a Boundary delegating query work to exec.
func New(exec executor.QueryExecutor, opts ...Option) *Boundary {
	b := &Boundary{
		exec:       exec,
		log:        zap.NewNop(),
		buffers:    newBufferTable(),
		maxRequest: DefaultMaxRequestSize,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.ctx == nil {
		b.ctx = SharedContext()
	}
	return b
}

var (
	defaultOnce     sync.Once
	defaultBoundary *Boundary
)

// Default returns the process-wide boundary, created at most once. It is
// backed by the in-memory executor; embedders wanting a real engine
// construct their own Boundary.
func Default() *Boundary {
	defaultOnce.Do(func() {
		defaultBoundary = New(executor.NewMemory("main", "main"))
	})
	return defaultBoundary
}

// ExecuteRequest runs the pipeline for one request buffer and returns the
// response as a caller-owned buffer. It never panics and never returns a
// structurally invalid envelope.
func (b *Boundary) ExecuteRequest(req []byte) *ResponseBuffer {
	start := time.Now()

	var op envelope.Operation
	var status errors.Code
	var resp []byte

	func() {
		defer func() {
			if r := recover(); r != nil {
				b.log.Error("pipeline panic contained",
					zap.Any("panic", r),
					zap.Stack("stack"))
				status = errors.CodeFatal
				resp = b.errorResponse(op, errors.Fatal(
					fmt.Sprintf("internal fault: %v", r), nil))
			}
		}()
		resp, op, status = b.execute(req)
	}()

	buf := &ResponseBuffer{data: resp}
	buf.handle = b.buffers.insert(buf)

	b.log.Debug("request executed",
		zap.Stringer("operation", op),
		zap.Int32("status", int32(status)),
		zap.Int("request_bytes", len(req)),
		zap.Int("response_bytes", len(resp)),
		zap.Duration("elapsed", time.Since(start)))

	return buf
}

// execute runs the happy path and funnels every stage failure into an error
// envelope. The returned operation is whatever was decoded before the
// failure, for logging.
func (b *Boundary) execute(req []byte) ([]byte, envelope.Operation, errors.Code) {
	var op envelope.Operation

	// Null pointer or zero length short-circuits before any stage runs.
	if len(req) == 0 {
		err := errors.InvalidRequest("request buffer is null or empty")
		return b.errorResponse(op, err), op, err.Code
	}
	if len(req) > b.maxRequest {
		err := errors.New(errors.CodeInvalidRequest).
			Detail("request of %d bytes exceeds limit %d", len(req), b.maxRequest).
			Build()
		return b.errorResponse(op, err), op, err.Code
	}

	env, err := envelope.Decode(req)
	if err != nil {
		return b.errorResponse(op, err), op, errors.CodeOf(err)
	}
	op = env.Operation

	if !op.Valid() {
		err := errors.Unsupported(fmt.Sprintf("operation tag %d", uint8(op)))
		return b.errorResponse(op, err), op, err.Code
	}

	hints, err := hint.Parse(env.HintTokens, env.RecordHints)
	if err != nil {
		return b.errorResponse(op, err), op, errors.CodeOf(err)
	}

	execReq, err := b.decodeTarget(env, hints)
	if err != nil {
		return b.errorResponse(op, err), op, errors.CodeOf(err)
	}

	rows, err := b.invoke(op, execReq)
	if err != nil {
		return b.errorResponse(op, err), op, errors.CodeOf(err)
	}

	result := value.Array(rows...)
	if len(rows) == 1 {
		result = rows[0]
	}

	wire, err := transcode.Forward(result)
	if err != nil {
		return b.errorResponse(op, err), op, errors.CodeOf(err)
	}
	data, err := payload.Marshal(wire)
	if err != nil {
		return b.errorResponse(op, err), op, errors.CodeOf(err)
	}

	resp, err := envelope.Encode(&envelope.Envelope{
		Operation:   op,
		PayloadKind: envelope.PayloadResult,
		StatusCode:  0,
		Payload:     data,
	})
	if err != nil {
		return b.errorResponse(op, err), op, errors.CodeOf(err)
	}
	return resp, op, errors.CodeSuccess
}

// decodeTarget turns the request payload into an executor request: reverse
// conversion first, then extraction of the table, optional id, and optional
// params fields.
func (b *Boundary) decodeTarget(env *envelope.Envelope, hints *hint.Set) (executor.Request, error) {
	if len(env.Payload) == 0 {
		return executor.Request{}, errors.MissingField(nil, "table")
	}

	wire, err := payload.Unmarshal(env.Payload)
	if err != nil {
		return executor.Request{}, err
	}
	params, err := transcode.Reverse(wire, hints)
	if err != nil {
		return executor.Request{}, err
	}
	if params.Kind() != value.KindObject {
		return executor.Request{}, errors.InvalidValue(
			"request payload must be a map", params.Kind().String())
	}

	obj := params.Object()
	req := executor.Request{Params: value.None()}

	table, ok := obj.Get("table")
	if !ok || table.Kind() != value.KindText || table.Text() == "" {
		return executor.Request{}, errors.MissingField(nil, "table")
	}
	req.Table = table.Text()

	if id, ok := obj.Get("id"); ok {
		switch id.Kind() {
		case value.KindText:
			req.ID = id.Text()
		case value.KindRecord:
			req.ID = id.Record().ID
		default:
			return executor.Request{}, errors.InvalidValue(
				"id must be text or a record reference", id.Kind().String())
		}
	}

	if p, ok := obj.Get("params"); ok {
		req.Params = p
	}

	return req, nil
}

// invoke bridges the executor call onto the execution context, blocking the
// calling goroutine until the delegate finishes.
func (b *Boundary) invoke(op envelope.Operation, req executor.Request) ([]value.Dynamic, error) {
	if b.exec == nil {
		return nil, errors.Wrap(errors.CodeConnection, nil, "no query executor configured")
	}

	var rows []value.Dynamic
	var err error
	b.ctx.Do(func() {
		ctx := context.Background()
		switch op {
		case envelope.OpSelect:
			rows, err = b.exec.Select(ctx, req)
		case envelope.OpCreate:
			rows, err = b.exec.Create(ctx, req)
		case envelope.OpUpdate:
			rows, err = b.exec.Update(ctx, req)
		case envelope.OpDelete:
			rows, err = b.exec.Delete(ctx, req)
		case envelope.OpRawQuery:
			rows, err = b.exec.RawQuery(ctx, req)
		}
	})
	return rows, err
}

// errorResponse encodes err into an error envelope. It must always succeed;
// if even the encoding of the error payload fails, a minimal fatal envelope
// built from constants is returned.
func (b *Boundary) errorResponse(op envelope.Operation, err error) []byte {
	code := errors.CodeOf(err)

	m := value.NewMap()
	m.Set("code", value.BinaryInt(int64(code)))
	m.Set("message", value.BinaryText(errorMessage(err)))
	if details := errorDetails(err); details != "" {
		m.Set("details", value.BinaryText(details))
	}

	errPayload, mErr := payload.Marshal(value.BinaryMap(m))
	if mErr != nil {
		return fatalEnvelope(op)
	}

	resp, eErr := envelope.Encode(&envelope.Envelope{
		Operation:    op,
		PayloadKind:  envelope.PayloadNone,
		StatusCode:   int32(code),
		Payload:      []byte{},
		ErrorPayload: errPayload,
	})
	if eErr != nil {
		return fatalEnvelope(op)
	}
	return resp
}

func errorMessage(err error) string {
	if e, ok := err.(*errors.Error); ok && e.Detail != "" {
		return e.Detail
	}
	if err != nil {
		return err.Error()
	}
	return "unknown error"
}

func errorDetails(err error) string {
	e, ok := err.(*errors.Error)
	if !ok {
		return ""
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	if len(e.Path) > 0 {
		return "at " + e.Path[0]
	}
	return ""
}

// fatalEnvelope is the last-resort response: a valid envelope with the
// fatal status and no payloads. Built from constants so it cannot fail.
func fatalEnvelope(op envelope.Operation) []byte {
	resp, err := envelope.Encode(&envelope.Envelope{
		Operation:   op,
		PayloadKind: envelope.PayloadNone,
		StatusCode:  int32(errors.CodeFatal),
		Payload:     []byte{},
	})
	if err != nil {
		// Encode of a constant envelope cannot fail; keep the compiler
		// honest with a hand-assembled header as the absolute fallback.
		return []byte{
			0x53, 0x46, 0x46, 0x49, // magic
			envelope.Version, byte(op), 0, 0,
			0xff, 0xff, 0xff, 0xff, // status -1
			0, 0, 0, 0, 0, 0, 0, 0, // no hints, empty payload
		}
	}
	return resp
}

// FreeResponseBuffer releases a buffer returned by ExecuteRequest. Release
// is exactly-once: freeing twice, or freeing a buffer this boundary did not
// produce, returns a contract-violation error and leaves nothing released.
func (b *Boundary) FreeResponseBuffer(buf *ResponseBuffer) error {
	if buf == nil {
		return errors.InvalidRequest("nil response buffer")
	}
	if !b.buffers.remove(buf.handle, buf) {
		return errors.New(errors.CodeInvalidRequest).
			Detail("response buffer already freed or not owned by this boundary").
			Build()
	}
	buf.data = nil
	buf.handle = 0
	return nil
}

// LiveBuffers reports the number of unreleased response buffers.
func (b *Boundary) LiveBuffers() int {
	return b.buffers.count()
}
