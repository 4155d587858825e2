// Package boundary is the single synchronous entry and exit point between a
// foreign caller and the codec pipeline.
//
// ExecuteRequest runs the full pipeline in strict order: envelope decode,
// hint resolution, reverse value conversion, query executor invocation,
// forward value conversion, envelope encode. Any stage failure aborts the
// remaining stages and is encoded into a structurally valid error envelope;
// the caller must check the envelope's status code before reading the
// payload as application data.
//
// # Fault containment
//
// Unexpected faults anywhere in the pipeline, executor panics included, are
// caught at this one frame and become status code -1 with a best-effort
// message. No failure escapes ExecuteRequest un-encoded, and the returned
// buffer is always a complete envelope, never a partial write.
//
// # Buffer ownership
//
// The response buffer is allocated here and owned by the caller after
// return. FreeResponseBuffer releases it exactly once; releasing a buffer
// twice, or one that did not come from this boundary, is a detected contract
// violation. Live buffers are tracked in a handle table so violations are
// reported rather than corrupting memory.
//
// # Shared execution context
//
// Executor invocations are bridged through an execution context: a dedicated
// background worker the calling thread blocks on. The process-wide context
// is created at most once by a thread-safe lazy initializer; tests construct
// isolated contexts to avoid cross-test state.
package boundary
