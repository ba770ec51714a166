// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing utilities.
//
// It implements the schema-unify-decode flow used for declaration files:
//
//  1. Compile the embedded schema
//  2. Compile user data (JSON is valid CUE) and unify with the schema
//  3. Validate and decode to a Go struct
//
// Validation errors carry JSON-path prefixes so a user can locate the
// offending field without reading the schema.
package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// DefaultMaxFileSize bounds input files to guard against pathological inputs.
const DefaultMaxFileSize int64 = 1 << 20 // 1 MiB

type (
	// Option configures a ParseAndDecode call.
	Option func(*options)

	options struct {
		filename    string
		maxFileSize int64
		concrete    bool
	}

	// ParseResult contains the result of a successful parse.
	ParseResult[T any] struct {
		// Value is the decoded Go struct.
		Value *T

		// Unified is the unified CUE value, available for callers that need
		// to inspect fields beyond what the struct captures.
		Unified cue.Value
	}
)

// WithFilename sets the filename used in error messages.
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

// WithMaxFileSize overrides the input size limit.
func WithMaxFileSize(n int64) Option {
	return func(o *options) { o.maxFileSize = n }
}

// WithConcrete requires all fields to be concrete after unification.
func WithConcrete(concrete bool) Option {
	return func(o *options) { o.concrete = concrete }
}

func defaultOptions() options {
	return options{maxFileSize: DefaultMaxFileSize, concrete: false}
}

// ParseAndDecode validates data against the named definition in schema and
// decodes the unified value into T. Errors are formatted with the filename
// and the JSON path of the invalid field.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	filename := o.filename
	if filename == "" {
		filename = "<input>"
	}

	if err := CheckFileSize(data, o.maxFileSize, filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(filename))
	if userValue.Err() != nil {
		return nil, FormatError(userValue.Err(), filename)
	}

	schemaRoot := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if schemaRoot.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, schemaRoot.Err())
	}

	unified := schemaRoot.Unify(userValue)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return nil, FormatError(err, filename)
	}

	var result T
	if err := unified.Decode(&result); err != nil {
		return nil, FormatError(err, filename)
	}

	return &ParseResult[T]{Value: &result, Unified: unified}, nil
}

// ParseAndDecodeString is a convenience wrapper accepting the schema as a
// string, the usual form for //go:embed string variables.
func ParseAndDecodeString[T any](schema string, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	return ParseAndDecode[T]([]byte(schema), data, schemaPath, opts...)
}
