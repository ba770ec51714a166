// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing error context.
//
// ActionableError carries operation, resource, and fix suggestions through
// the error chain; the Issue catalog holds long-form, markdown-rendered
// explanations for the few unrecoverable error classes (fatal manifest
// parse failures and settings write denial).
package issue
