package bridge

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"reflect"
	"unsafe"

	"goqtbridge/qtlib"
)

// Codec holds the reference conversions of a bridge. The native side of a
// value is modelled by what crosses the C ABI: the little-endian image of a
// trivially copied value, the raw components of a constructed value, the
// field image of a cloned value, or the pointer of an owned object.
// Generated adapters implement the same conversions.
type Codec struct {
	ToSafe   func(native interface{}) (interface{}, error)
	ToNative func(safe interface{}) (interface{}, error)
}

// ErrUnsupportedDirection is returned by a codec asked to convert in a
// direction its bridge does not declare.
var ErrUnsupportedDirection = errors.New("conversion direction is not supported")

func newPointF() interface{} { return new(qtlib.PointF) }
func newSizeF() interface{} { return new(qtlib.SizeF) }

func unexpected(want string, got interface{}) error {
	return fmt.Errorf("expected %s, got %T", want, got)
}

func trivialCodec(size int, sample func() interface{}) Codec {
	safeType := reflect.TypeOf(sample()).Elem()

	return Codec{
		ToSafe: func(native interface{}) (interface{}, error) {
			image, ok := native.([]byte)
			if !ok {
				return nil, unexpected("[]byte", native)
			}
			if len(image) != size {
				return nil, fmt.Errorf("expected %d bytes, got %d", size, len(image))
			}

			target := sample()
			if err := binary.Read(bytes.NewReader(image), binary.LittleEndian, target); err != nil {
				return nil, fmt.Errorf("decoding %s: %w", safeType, err)
			}
			return reflect.ValueOf(target).Elem().Interface(), nil
		},
		ToNative: func(safe interface{}) (interface{}, error) {
			if reflect.TypeOf(safe) != safeType {
				return nil, unexpected(safeType.String(), safe)
			}

			var buffer bytes.Buffer
			if err := binary.Write(&buffer, binary.LittleEndian, safe); err != nil {
				return nil, fmt.Errorf("encoding %s: %w", safeType, err)
			}
			if buffer.Len() != size {
				return nil, fmt.Errorf("%s encodes to %d bytes, native layout has %d", safeType, buffer.Len(), size)
			}
			return buffer.Bytes(), nil
		},
	}
}

func stringCodec(directions Direction) Codec {
	return Codec{
		ToSafe: func(native interface{}) (interface{}, error) {
			units, ok := native.([]uint16)
			if !ok {
				return nil, unexpected("[]uint16", native)
			}
			return qtlib.StringFromUTF16(units), nil
		},
		ToNative: func(safe interface{}) (interface{}, error) {
			if directions&SafeToNative == 0 {
				return nil, ErrUnsupportedDirection
			}
			value, ok := safe.(string)
			if !ok {
				return nil, unexpected("string", safe)
			}
			return qtlib.StringToUTF16(value), nil
		},
	}
}

func marginsCodec() Codec {
	return Codec{
		ToSafe: func(native interface{}) (interface{}, error) {
			components, ok := native.([4]float64)
			if !ok {
				return nil, unexpected("[4]float64", native)
			}
			return qtlib.MarginsFFromComponents(components[0], components[1], components[2], components[3]), nil
		},
		ToNative: func(safe interface{}) (interface{}, error) {
			margins, ok := safe.(qtlib.MarginsF)
			if !ok {
				return nil, unexpected("qtlib.MarginsF", safe)
			}
			left, top, right, bottom := margins.Components()
			return [4]float64{left, top, right, bottom}, nil
		},
	}
}

func colorCodec() Codec {
	return Codec{
		ToSafe: func(native interface{}) (interface{}, error) {
			components, ok := native.([4]int32)
			if !ok {
				return nil, unexpected("[4]int32", native)
			}
			return qtlib.ColorFromComponents(components[0], components[1], components[2], components[3]), nil
		},
		ToNative: func(safe interface{}) (interface{}, error) {
			color, ok := safe.(qtlib.Color)
			if !ok {
				return nil, unexpected("qtlib.Color", safe)
			}
			red, green, blue, alpha := color.Components()
			return [4]int32{red, green, blue, alpha}, nil
		},
	}
}

func variantCodec() Codec {
	return Codec{
		ToSafe: func(native interface{}) (interface{}, error) {
			raw, ok := native.(qtlib.RawVariant)
			if !ok {
				return nil, unexpected("qtlib.RawVariant", native)
			}
			return qtlib.VariantFromRaw(raw.Clone()), nil
		},
		ToNative: func(safe interface{}) (interface{}, error) {
			variant, ok := safe.(qtlib.Variant)
			if !ok {
				return nil, unexpected("qtlib.Variant", safe)
			}
			return variant.Raw(), nil
		},
	}
}

func ownedCodec() Codec {
	return Codec{
		ToSafe: func(native interface{}) (interface{}, error) {
			ptr, ok := native.(unsafe.Pointer)
			if !ok {
				return nil, unexpected("unsafe.Pointer", native)
			}
			return qtlib.NewOwned(ptr), nil
		},
		ToNative: func(safe interface{}) (interface{}, error) {
			owned, ok := safe.(*qtlib.Owned)
			if !ok {
				return nil, unexpected("*qtlib.Owned", safe)
			}
			return owned.Release(), nil
		},
	}
}
