package qtlib

import "unsafe"

// Owned is an owning reference to a native object received from the other
// side of the boundary. Ownership is exclusive: once Release is called the
// reference is empty and the caller is responsible for the native object.
type Owned struct {
	ptr unsafe.Pointer
}

// NewOwned takes ownership of a native object pointer. A nil pointer yields nil.
func NewOwned(ptr unsafe.Pointer) *Owned {
	if ptr == nil {
		return nil
	}
	return &Owned{ptr: ptr}
}

// Pointer borrows the native pointer without transferring ownership.
func (o *Owned) Pointer() unsafe.Pointer {
	if o == nil {
		return nil
	}
	return o.ptr
}

// Release transfers ownership back to the caller and empties the reference.
func (o *Owned) Release() unsafe.Pointer {
	if o == nil {
		return nil
	}
	ptr := o.ptr
	o.ptr = nil
	return ptr
}

// IsNull reports whether the reference no longer owns anything.
func (o *Owned) IsNull() bool {
	return o == nil || o.ptr == nil
}
