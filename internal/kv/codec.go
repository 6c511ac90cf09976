package kv

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cedbanana/dds25-2/internal/model"
)

// encodeField renders one field's current value to the wire string
// stored under model:<id>:<field>: numerics as decimal strings, bools
// lowercase, lists/maps as JSON text.
func encodeField(f model.FieldDescriptor) (string, error) {
	switch f.Kind {
	case model.KindInt:
		return strconv.Itoa(*f.Int), nil
	case model.KindInt64:
		return strconv.FormatInt(*f.Int64, 10), nil
	case model.KindBool:
		if *f.Bool {
			return "true", nil
		}
		return "false", nil
	case model.KindString:
		return *f.Str, nil
	case model.KindStatus:
		return string(*f.Status), nil
	case model.KindStringList:
		b, err := json.Marshal(*f.StrList)
		if err != nil {
			return "", fmt.Errorf("encoding %s: %w", f.Name, err)
		}
		return string(b), nil
	case model.KindStringIntMap:
		m := *f.StrIntMap
		if m == nil {
			m = map[string]int{}
		}
		b, err := json.Marshal(m)
		if err != nil {
			return "", fmt.Errorf("encoding %s: %w", f.Name, err)
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("unknown field kind for %s", f.Name)
	}
}

// decodeField parses a wire string back into the field's storage pointer.
func decodeField(f model.FieldDescriptor, raw string) error {
	switch f.Kind {
	case model.KindInt:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", f.Name, errNotNumeric)
		}
		*f.Int = v
	case model.KindInt64:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", f.Name, errNotNumeric)
		}
		*f.Int64 = v
	case model.KindBool:
		*f.Bool = raw == "true"
	case model.KindString:
		*f.Str = raw
	case model.KindStatus:
		*f.Status = model.Status(raw)
	case model.KindStringList:
		var v []string
		if raw != "" {
			if err := json.Unmarshal([]byte(raw), &v); err != nil {
				return fmt.Errorf("decoding %s: %w", f.Name, err)
			}
		}
		*f.StrList = v
	case model.KindStringIntMap:
		v := map[string]int{}
		if raw != "" {
			if err := json.Unmarshal([]byte(raw), &v); err != nil {
				return fmt.Errorf("decoding %s: %w", f.Name, err)
			}
		}
		*f.StrIntMap = v
	default:
		return fmt.Errorf("unknown field kind for %s", f.Name)
	}
	return nil
}

func fieldKey(id, field string) string {
	return "model:" + id + ":" + field
}

func fieldByName(rec model.Record, name string) (model.FieldDescriptor, bool) {
	for _, f := range rec.Fields() {
		if f.Name == name {
			return f, true
		}
	}
	return model.FieldDescriptor{}, false
}
