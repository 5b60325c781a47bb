// Package payload provides the tagged value cell passed to slots during
// signal emission.
//
// A Data carries exactly one value, discriminated by its Kind. Getters take
// a default that is returned on a kind mismatch, so slot code can read a
// payload without checking the kind first:
//
//	func onVolume(d *payload.Data) {
//		level := d.IntOr(50)
//		// ...
//	}
//
// The zero value of Data is a void payload.
package payload

// Kind identifies the value stored in a Data.
type Kind uint8

const (
	// KindVoid carries no value.
	KindVoid Kind = iota

	// KindInt carries an int64.
	KindInt

	// KindFloat32 carries a float32.
	KindFloat32

	// KindFloat64 carries a float64.
	KindFloat64

	// KindString carries a string.
	KindString

	// KindPointer carries an arbitrary reference.
	KindPointer

	// KindBlob carries an owned byte slice.
	KindBlob
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindInt:
		return "int"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	case KindPointer:
		return "pointer"
	case KindBlob:
		return "blob"
	default:
		return "unknown"
	}
}

// Data is a single tagged value. It is passed by reference to slots; slots
// must treat it as read-only for the duration of the emission.
type Data struct {
	kind Kind
	iv   int64
	f32  float32
	f64  float64
	sv   string
	pv   any
	blob []byte
}

// Void returns a payload carrying no value.
func Void() *Data {
	return &Data{kind: KindVoid}
}

// Int returns a payload carrying an integer.
func Int(v int64) *Data {
	return &Data{kind: KindInt, iv: v}
}

// Float32 returns a payload carrying a float32.
func Float32(v float32) *Data {
	return &Data{kind: KindFloat32, f32: v}
}

// Float64 returns a payload carrying a float64.
func Float64(v float64) *Data {
	return &Data{kind: KindFloat64, f64: v}
}

// String returns a payload carrying a string.
func String(v string) *Data {
	return &Data{kind: KindString, sv: v}
}

// Pointer returns a payload carrying an arbitrary reference.
func Pointer(v any) *Data {
	return &Data{kind: KindPointer, pv: v}
}

// Blob returns a payload carrying a copy of b. The payload owns the copy;
// the caller's slice is not aliased.
func Blob(b []byte) *Data {
	d := &Data{kind: KindBlob}
	if len(b) > 0 {
		d.blob = make([]byte, len(b))
		copy(d.blob, b)
	}
	return d
}

// Kind returns the payload's kind.
func (d *Data) Kind() Kind {
	if d == nil {
		return KindVoid
	}
	return d.kind
}

// IntOr returns the integer value, or def on a kind mismatch.
func (d *Data) IntOr(def int64) int64 {
	if d == nil || d.kind != KindInt {
		return def
	}
	return d.iv
}

// Float32Or returns the float32 value, or def on a kind mismatch.
func (d *Data) Float32Or(def float32) float32 {
	if d == nil || d.kind != KindFloat32 {
		return def
	}
	return d.f32
}

// Float64Or returns the float64 value, or def on a kind mismatch.
func (d *Data) Float64Or(def float64) float64 {
	if d == nil || d.kind != KindFloat64 {
		return def
	}
	return d.f64
}

// StringOr returns the string value, or def on a kind mismatch.
func (d *Data) StringOr(def string) string {
	if d == nil || d.kind != KindString {
		return def
	}
	return d.sv
}

// Pointer returns the reference value, or nil on a kind mismatch.
func (d *Data) Pointer() any {
	if d == nil || d.kind != KindPointer {
		return nil
	}
	return d.pv
}

// Blob returns the payload's byte slice, or nil on a kind mismatch.
// The returned slice is the payload's own storage; callers must not retain
// or mutate it past the emission.
func (d *Data) Blob() []byte {
	if d == nil || d.kind != KindBlob {
		return nil
	}
	return d.blob
}

// SetInt replaces the value with an integer.
func (d *Data) SetInt(v int64) {
	d.reset()
	d.kind = KindInt
	d.iv = v
}

// SetFloat32 replaces the value with a float32.
func (d *Data) SetFloat32(v float32) {
	d.reset()
	d.kind = KindFloat32
	d.f32 = v
}

// SetFloat64 replaces the value with a float64.
func (d *Data) SetFloat64(v float64) {
	d.reset()
	d.kind = KindFloat64
	d.f64 = v
}

// SetString replaces the value with a string.
func (d *Data) SetString(v string) {
	d.reset()
	d.kind = KindString
	d.sv = v
}

// SetPointer replaces the value with an arbitrary reference.
func (d *Data) SetPointer(v any) {
	d.reset()
	d.kind = KindPointer
	d.pv = v
}

// SetBlob replaces the value with a copy of b.
func (d *Data) SetBlob(b []byte) {
	d.reset()
	d.kind = KindBlob
	if len(b) > 0 {
		d.blob = make([]byte, len(b))
		copy(d.blob, b)
	}
}

// SetVoid clears the value.
func (d *Data) SetVoid() {
	d.reset()
}

// Clone returns an independent copy. Blob storage is duplicated so the
// clone never aliases the original.
func (d *Data) Clone() Data {
	if d == nil {
		return Data{}
	}
	c := *d
	if len(d.blob) > 0 {
		c.blob = make([]byte, len(d.blob))
		copy(c.blob, d.blob)
	}
	return c
}

func (d *Data) reset() {
	*d = Data{}
}
