// ABOUTME: Compile-time assertions for the header and box layout contract
// ABOUTME: A build failure here means the header<->box casts are unsound

package gc

import "unsafe"

// The header must sit at offset 0 of every box instantiation; the vtable
// trace and drop functions cast *Header to *box[T] on that basis. A nonzero
// offset makes these array lengths negative and the package fails to build.
var _ [-unsafe.Offsetof(box[struct{}]{}.header)]byte
var _ [-unsafe.Offsetof(box[uint64]{}.header)]byte
var _ [-unsafe.Offsetof(box[[3]string]{}.header)]byte

// A word-sized payload must start immediately after the header; a gap would
// mean the Header definition picked up hidden padding between the fields and
// the value, and the size bookkeeping in the vtables would be wrong.
var _ [unsafe.Offsetof(box[uintptr]{}.data) - unsafe.Sizeof(Header{})]byte
var _ [unsafe.Sizeof(Header{}) - unsafe.Offsetof(box[uintptr]{}.data)]byte
