package tools

import (
	"reflect"
	"strconv"
	"time"
)

// DoTagFunc walks the exported fields of the struct pointed to by v and
// applies each fn in order. v must be a non-nil pointer to a struct.
func DoTagFunc(v interface{}, fn []func(reflect.StructField, reflect.Value)) {
	if v == nil {
		return
	}

	value := reflect.ValueOf(v)
	if value.Kind() != reflect.Ptr || value.IsNil() {
		return
	}

	indirect := reflect.Indirect(value)
	if indirect.Kind() != reflect.Struct {
		return
	}

	vType := indirect.Type()
	for i := 0; i < indirect.NumField(); i++ {
		field := indirect.Field(i)
		fieldStruct := vType.Field(i)

		for _, f := range fn {
			f(fieldStruct, field)
		}
	}
}

var durationType = reflect.TypeOf(time.Duration(0))

// SetDefaultValueIfNil fills a zero-valued field from its `default` tag.
func SetDefaultValueIfNil(structField reflect.StructField, vValue reflect.Value) {
	defaultValue, ok := structField.Tag.Lookup("default")
	if !ok || !vValue.CanSet() {
		return
	}

	switch vValue.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if vValue.Int() == 0 {
			if vValue.Type() == durationType {
				d, _ := time.ParseDuration(defaultValue)
				vValue.SetInt(int64(d))
			} else {
				v, _ := strconv.Atoi(defaultValue)
				vValue.SetInt(int64(v))
			}
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if vValue.Uint() == 0 {
			v, _ := strconv.ParseUint(defaultValue, 10, 64)
			vValue.SetUint(v)
		}
	case reflect.String:
		if vValue.String() == "" {
			vValue.SetString(defaultValue)
		}
	case reflect.Float32, reflect.Float64:
		if vValue.Float() == 0 {
			v, _ := strconv.ParseFloat(defaultValue, 64)
			vValue.SetFloat(v)
		}
	default:
	}
}
