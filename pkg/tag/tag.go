package tag

import (
	"reflect"
	"strconv"
	"strings"
	"time"
)

const tagName = "default"

// ApplyDefaults sets default values for struct fields based on `default` tags.
// The target must be a non-nil pointer to a struct. Fields that already hold a
// non-zero value are left untouched; nested structs and pointers to structs are
// processed recursively.
//
// Example:
//
//	type Config struct {
//	    Host string `default:"localhost"`
//	    Port int    `default:"8080"`
//	}
func ApplyDefaults(target any) error {
	valueOf := reflect.ValueOf(target)
	if valueOf.Kind() != reflect.Pointer {
		return ErrTargetMustBePointer
	}
	if valueOf.IsNil() {
		return ErrTargetIsNil
	}

	elem := valueOf.Elem()
	if elem.Kind() != reflect.Struct {
		return ErrUnsupportedType
	}

	return applyStruct(elem)
}

func applyStruct(value reflect.Value) error {
	typ := value.Type()

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		fieldValue := value.Field(i)

		if !fieldValue.CanSet() {
			continue
		}

		tagValue := field.Tag.Get(tagName)

		if err := applyField(fieldValue, field, tagValue); err != nil {
			return newFieldError(field.Name, fieldValue.Kind(), tagValue, err)
		}
	}

	return nil
}

func applyField(fieldValue reflect.Value, field reflect.StructField, tagValue string) error {
	switch fieldValue.Kind() {
	case reflect.Struct:
		return applyStruct(fieldValue)

	case reflect.Pointer:
		if field.Type.Elem().Kind() != reflect.Struct {
			return nil
		}
		if fieldValue.IsNil() {
			fieldValue.Set(reflect.New(field.Type.Elem()))
		}
		return applyStruct(fieldValue.Elem())

	case reflect.Slice:
		if tagValue == "" || !fieldValue.IsZero() {
			return nil
		}
		return applySlice(fieldValue, tagValue)

	default:
		if tagValue == "" || !fieldValue.IsZero() {
			return nil
		}
		return applyScalar(fieldValue, tagValue)
	}
}

// applyScalar parses tagValue into a basic kind. Duration-typed int64 fields
// accept Go duration syntax ("10m", "1h30m").
func applyScalar(value reflect.Value, tagValue string) error {
	if value.Type() == reflect.TypeOf(time.Duration(0)) {
		d, err := time.ParseDuration(tagValue)
		if err != nil {
			return err
		}
		value.SetInt(int64(d))
		return nil
	}

	switch value.Kind() {
	case reflect.String:
		value.SetString(tagValue)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(tagValue, 10, 64)
		if err != nil {
			return err
		}
		value.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(tagValue, 10, 64)
		if err != nil {
			return err
		}
		value.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(tagValue, 64)
		if err != nil {
			return err
		}
		value.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(tagValue)
		if err != nil {
			return err
		}
		value.SetBool(b)
	default:
		return ErrUnsupportedType
	}

	return nil
}

// applySlice supports comma-separated defaults for slices of basic kinds.
func applySlice(value reflect.Value, tagValue string) error {
	parts := strings.Split(tagValue, ",")
	slice := reflect.MakeSlice(value.Type(), len(parts), len(parts))

	for i, part := range parts {
		if err := applyScalar(slice.Index(i), strings.TrimSpace(part)); err != nil {
			return err
		}
	}

	value.Set(slice)
	return nil
}
