package codec

import (
	"slices"

	"github.com/jptrs93/cleanwire/wire"
)

// Map is the codec for map fields. Each entry is encoded as a nested message
// with the key in field 1 and the value in field 2.
type Map[K comparable, V any] struct {
	Key   Scalar[K]
	Value FieldCodec[V]
}

// valueDefault is implemented by value codecs whose zero value is not the
// proto default, so an entry without field 2 still gets a usable value.
type valueDefault[V any] interface {
	Default() V
}

const (
	mapKeyNumber   wire.Number = 1
	mapValueNumber wire.Number = 2
)

// Append writes one entry per key, in ascending key order so the output is
// deterministic.
func (c Map[K, V]) Append(b []byte, num wire.Number, m map[K]V) []byte {
	for _, k := range sortedKeys(m) {
		v := m[k]
		b = wire.AppendTag(b, num, wire.BytesType)
		b = wire.AppendVarint(b, uint64(c.entryLen(k, v)))
		b = c.Key.Append(b, mapKeyNumber, k)
		b = c.Value.Append(b, mapValueNumber, v)
	}
	return b
}

func (c Map[K, V]) Size(num wire.Number, m map[K]V) int {
	n := 0
	for k, v := range m {
		n += wire.SizeTag(num) + wire.SizeBytes(c.entryLen(k, v))
	}
	return n
}

func (c Map[K, V]) entryLen(k K, v V) int {
	return c.Key.Size(mapKeyNumber, k) + c.Value.Size(mapValueNumber, v)
}

// Merge decodes one entry into *m, allocating the map when needed. A later
// entry for an existing key replaces the earlier value. A missing key or
// value takes its default; for messages that is an empty message, not nil.
func (c Map[K, V]) Merge(typ wire.Type, m *map[K]V, b []byte, ctx wire.DecodeContext) ([]byte, error) {
	if err := wire.CheckWireType(wire.BytesType, typ); err != nil {
		return nil, err
	}
	ctx, err := ctx.Enter()
	if err != nil {
		return nil, err
	}
	b, entry, err := wire.ConsumeBytes(b)
	if err != nil {
		return nil, err
	}
	var key K
	var value V
	gotValue := false
	for len(entry) > 0 {
		var num wire.Number
		var t wire.Type
		entry, num, t, err = wire.ConsumeTag(entry)
		if err != nil {
			return nil, err
		}
		switch num {
		case mapKeyNumber:
			entry, err = c.Key.Merge(t, &key, entry, ctx)
		case mapValueNumber:
			entry, err = c.Value.Merge(t, &value, entry, ctx)
			gotValue = true
		default:
			entry, err = wire.SkipField(num, t, entry, ctx)
		}
		if err != nil {
			return nil, err
		}
	}
	if !gotValue {
		if d, ok := any(c.Value).(valueDefault[V]); ok {
			value = d.Default()
		}
	}
	if *m == nil {
		*m = make(map[K]V)
	}
	(*m)[key] = value
	return b, nil
}

func sortedKeys[K comparable, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeys[K])
	return keys
}

// compareKeys orders the key types proto maps allow.
func compareKeys[K comparable](a, b K) int {
	switch x := any(a).(type) {
	case bool:
		return compareBool(x, any(b).(bool))
	case int32:
		return compareOrdered(x, any(b).(int32))
	case int64:
		return compareOrdered(x, any(b).(int64))
	case uint32:
		return compareOrdered(x, any(b).(uint32))
	case uint64:
		return compareOrdered(x, any(b).(uint64))
	case string:
		return compareOrdered(x, any(b).(string))
	default:
		return 0
	}
}

func compareOrdered[T int32 | int64 | uint32 | uint64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
