// Package mcp exposes the query service as Model Context Protocol tools.
//
// The server speaks JSON-RPC over stdio. Each tool decodes and validates its
// own arguments, calls one QueryService operation and returns the result as
// indented JSON text plus structured content.
//
// Failures inside a call never become protocol errors. Bad arguments and
// unexpected failures (including panics) produce a result with IsError set and
// a message. A product that does not exist is an ordinary result whose payload
// carries an "error" field.
package mcp
