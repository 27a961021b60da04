package cache

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

// KeySeparator defines the delimiter between the cache type and the serialized options.
const KeySeparator = "::"

// MaxInlineOptionsLength is the longest serialized options segment kept verbatim in a key.
// Longer segments (typically filter formulas) are replaced by an xxhash digest.
const MaxInlineOptionsLength = 128

// ErrUnserializableOptions is returned when options contain values that have no stable
// representation, such as functions or channels.
var ErrUnserializableOptions = errors.New("cache: options cannot be serialized")

// defaultKeySerializer implements KeySerializer using reflection-based serialization.
// Maps are emitted with sorted keys and structs with exported fields in declaration order,
// so equivalent options always produce the same key.
type defaultKeySerializer struct {
	maxInline int
}

// NewDefaultKeySerializer creates a new instance of the default key serializer.
func NewDefaultKeySerializer() KeySerializer {
	return &defaultKeySerializer{maxInline: MaxInlineOptionsLength}
}

// SerializeKey builds the cache key for a type and an options value.
func (s *defaultKeySerializer) SerializeKey(typ Type, opts any) (string, error) {
	if opts == nil {
		return string(typ) + KeySeparator, nil
	}

	serialized, err := s.serializeValue(opts)
	if err != nil {
		return "", errors.Wrapf(err, "serialize options for %q", typ)
	}

	if s.maxInline > 0 && len(serialized) > s.maxInline {
		serialized = "xxh:" + strconv.FormatUint(xxhash.Sum64String(serialized), 16)
	}

	return string(typ) + KeySeparator + serialized, nil
}

// TypePrefix returns the prefix shared by every key of the given type.
func TypePrefix(typ Type) string {
	return string(typ) + KeySeparator
}

func (s *defaultKeySerializer) serializeValue(v any) (string, error) {
	if v == nil {
		return "nil", nil
	}

	rv := reflect.ValueOf(v)
	rt := rv.Type()

	switch rt.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return "", errors.Wrapf(ErrUnserializableOptions, "unsupported kind %s", rt.Kind())

	case reflect.Ptr:
		if rv.IsNil() {
			return "nil", nil
		}
		return s.serializeValue(rv.Elem().Interface())

	case reflect.Interface:
		if rv.IsNil() {
			return "nil", nil
		}
		return s.serializeValue(rv.Elem().Interface())

	case reflect.Slice:
		if rv.IsNil() {
			return "slice:nil", nil
		}
		return s.serializeList("slice", rv)

	case reflect.Array:
		return s.serializeList("array", rv)

	case reflect.Map:
		if rv.IsNil() {
			return "map:nil", nil
		}
		return s.serializeMap(rv)

	case reflect.Struct:
		return s.serializeStruct(rv, rt)
	}

	if isBasicKind(rt.Kind()) {
		return fmt.Sprintf("%v", v), nil
	}

	return s.jsonFallback(v)
}

func (s *defaultKeySerializer) serializeList(label string, rv reflect.Value) (string, error) {
	length := rv.Len()
	parts := make([]string, length)

	for i := 0; i < length; i++ {
		part, err := s.serializeValue(rv.Index(i).Interface())
		if err != nil {
			return "", err
		}
		parts[i] = part
	}

	return fmt.Sprintf("%s[%d]:{%s}", label, length, strings.Join(parts, ",")), nil
}

func (s *defaultKeySerializer) serializeMap(rv reflect.Value) (string, error) {
	type pair struct {
		key   string
		value string
	}

	pairs := make([]pair, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k, err := s.serializeValue(iter.Key().Interface())
		if err != nil {
			return "", err
		}
		val, err := s.serializeValue(iter.Value().Interface())
		if err != nil {
			return "", err
		}
		pairs = append(pairs, pair{key: k, value: val})
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].key < pairs[j].key })

	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p.key + "=" + p.value
	}

	return fmt.Sprintf("map[%d]:{%s}", len(parts), strings.Join(parts, ",")), nil
}

func (s *defaultKeySerializer) serializeStruct(rv reflect.Value, rt reflect.Type) (string, error) {
	parts := make([]string, 0, rv.NumField())

	for i := 0; i < rv.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		value, err := s.serializeValue(rv.Field(i).Interface())
		if err != nil {
			return "", errors.Wrapf(err, "field %s", field.Name)
		}
		parts = append(parts, field.Name+":"+value)
	}

	return fmt.Sprintf("struct:{%s}", strings.Join(parts, ",")), nil
}

func isBasicKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128,
		reflect.String:
		return true
	default:
		return false
	}
}

func (s *defaultKeySerializer) jsonFallback(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", errors.Wrap(ErrUnserializableOptions, err.Error())
	}
	return "json:" + string(data), nil
}
