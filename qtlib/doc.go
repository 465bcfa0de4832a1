// Package qtlib holds the Go side of the value types that cross the boundary
// between generated Qt classes and their Go state.
//
// Generated shims convert the C ABI structs declared in goqtbridge_abi.h into
// these types and back. The package itself does not use cgo: every function
// works on plain Go values (UTF-16 code units, numeric components, raw
// pointers) so it can be tested without a C toolchain.
package qtlib
