package binder

import (
	"bytes"
	"reflect"

	"github.com/segmentio/encoding/json"
)

var nullLiteral = []byte("null")

// OptionalInt distinguishes a field that was omitted from one that was sent
// as an explicit null. A plain *int collapses both to nil, which makes it
// impossible to clear a stored value through a partial update.
type OptionalInt struct {
	Set   bool
	Value *int
}

func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, nullLiteral) {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

func (o OptionalInt) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return nullLiteral, nil
	}
	return json.Marshal(*o.Value)
}

// optionalIntValuer exposes the inner value to the validator, so tags like
// omitnil,min,max behave exactly as they do on a *int field.
func optionalIntValuer(field reflect.Value) interface{} {
	if o, ok := field.Interface().(OptionalInt); ok {
		return o.Value
	}
	return nil
}
