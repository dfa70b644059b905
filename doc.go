// Package jsonguard validates JSON documents against JSON Schema.
//
// - Load/LoadBytes/LoadFile read a schema document, resolve $ref across
//   documents and compile it into an immutable graph (drafts 04, 06, 07,
//   2019-09 and 2020-12)
// - Schema.Validate evaluates a value in Full mode (every violation) or Fast
//   mode (first violation only)
// - Decode/DecodeReader turn JSON input into generic values with duplicate-key,
//   depth and size enforcement through a pluggable JSON driver
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations under internal/.
// - Readers are the only I/O dependency of the loader.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	s, err := jsonguard.LoadFile("schema.json")
//	v, err := jsonguard.DecodeReader(r)
//	verdict := s.Validate(v, jsonguard.Full)
//	if !verdict.Valid { log.Print(verdict.Err()) }
package jsonguard
