package web

import (
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = validator.New()

// ValidateStruct checks that every named field of s is set. Fields may be
// named by their Go name or their json tag. Blank strings count as unset.
func ValidateStruct(s interface{}, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}

	v := reflect.ValueOf(s)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return NewRequestError(errors.New("empty request"), http.StatusBadRequest)
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return errors.Errorf("validate: expected struct, got %s", v.Kind())
	}

	missing := map[string]string{}

	for _, name := range fields {
		key, field, ok := lookupField(v, name)
		if !ok {
			return errors.Errorf("validate: unknown field %q", name)
		}

		err := validate.Var(requiredValue(field), "required")
		if err == nil {
			continue
		}

		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return errors.Wrapf(err, "validate: field %q", name)
		}
		for _, fe := range fieldErrs {
			missing[key] = fe.Tag()
		}
	}

	if len(missing) > 0 {
		keys := make([]string, 0, len(missing))
		for k := range missing {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return &Error{
			Err:    errors.New("missing required fields: " + strings.Join(keys, ", ")),
			Status: http.StatusBadRequest,
			Fields: missing,
		}
	}

	return nil
}

// lookupField finds name among the fields of v and returns the key it is
// reported under: its json tag, or its Go name when it has none.
func lookupField(v reflect.Value, name string) (string, reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := strings.Split(f.Tag.Get("json"), ",")[0]
		if f.Name != name && tag != name {
			continue
		}
		if tag == "" || tag == "-" {
			tag = f.Name
		}
		return tag, v.Field(i), true
	}
	return "", reflect.Value{}, false
}

// requiredValue is what the required rule sees for field. A set pointer counts
// as present unless it points at a blank string.
func requiredValue(field reflect.Value) interface{} {
	switch field.Kind() {
	case reflect.Ptr, reflect.Interface:
		if field.IsNil() {
			return nil
		}
		if field.Elem().Kind() == reflect.String {
			return strings.TrimSpace(field.Elem().String())
		}
		return true
	case reflect.String:
		return strings.TrimSpace(field.String())
	case reflect.Struct:
		if field.IsZero() {
			return nil
		}
		return true
	}
	return field.Interface()
}
