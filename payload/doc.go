// Package payload serializes wire values to and from MessagePack, the
// compact binary encoding embedded as the envelope's opaque payload.
//
// Encoding walks the value tree with the low-level msgpack encoder so that
// map insertion order is preserved on the wire. Decoding rebuilds the tree
// code by code; duplicate map keys keep the first occurrence. Timestamps use
// the standard -1 extension with its three fixed encodings (4-byte seconds,
// 8-byte packed nanoseconds+seconds, 12-byte nanoseconds+seconds); any other
// extension length is a deserialization error.
//
// Decode enforces safety limits on string sizes and element counts so a
// hostile payload cannot force pathological allocation.
package payload
