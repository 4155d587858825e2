// Package fficodec implements the value conversion and binary envelope layer
// used to move queries and results across an embedded-database FFI boundary.
//
// # Architecture Overview
//
// The module is organized into several packages with distinct responsibilities:
//
//	fficodec/            Root package with the two-function boundary surface
//	├── boundary/        Request pipeline, fault containment, buffer ownership
//	├── envelope/        Fixed-layout binary envelope codec (zero-copy decode)
//	├── payload/         MessagePack payload encoding with ordered maps
//	├── transcode/       Dynamic ⇄ binary value conversion
//	├── hint/            Type-hint parsing and per-field resolution
//	├── value/           Dynamic and binary value models
//	├── executor/        Query executor interface and in-memory implementation
//	└── errors/          Structured error codes grouped by category
//
// # Quick Start
//
// Hand a serialized request envelope to the boundary and release the
// response when done:
//
//	resp := fficodec.ExecuteRequest(reqBytes)
//	defer fficodec.FreeResponseBuffer(resp)
//
//	env, err := envelope.Decode(resp.Bytes())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Every call returns a decodable envelope; failures are reported through the
// envelope status code and error payload rather than a Go error.
package fficodec
