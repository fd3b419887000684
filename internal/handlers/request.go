package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Olliveer/happy-2.0-backend-deploy/internal/apperror"
)

const (
	msgInvalidBody = "Invalid request body"
	msgInvalidID   = "Invalid id"
)

// value is one body field as the client sent it. JSON strings arrive
// unquoted and other JSON scalars as their literal text; form fields keep
// every repeated value in list. isString is set for JSON strings and for
// every form value.
type value struct {
	text     string
	list     []string
	isTrue   bool
	isString bool
}

// body holds the fields of a JSON, urlencoded or multipart request. A
// JSON null counts as absent.
type body map[string]value

func (b body) has(key string) bool {
	_, ok := b[key]
	return ok
}

func (b body) text(key string) string { return b[key].text }

func (b body) list(key string) []string { return b[key].list }

// jsonTrue reports whether key was the JSON literal true. Form values are
// never JSON booleans.
func (b body) jsonTrue(key string) bool { return b[key].isTrue }

// stringTrue reports whether key was the string "true". The JSON literal
// true does not count.
func (b body) stringTrue(key string) bool {
	v := b[key]
	return v.isString && v.text == "true"
}

func readBody(c *gin.Context) (body, error) {
	switch c.ContentType() {
	case gin.MIMEMultipartPOSTForm:
		form, err := c.MultipartForm()
		if err != nil {
			return nil, apperror.Wrap(err, http.StatusBadRequest, msgInvalidBody)
		}
		return formBody(form.Value), nil
	case gin.MIMEPOSTForm:
		if err := c.Request.ParseForm(); err != nil {
			return nil, apperror.Wrap(err, http.StatusBadRequest, msgInvalidBody)
		}
		return formBody(c.Request.PostForm), nil
	default:
		return jsonBody(c.Request.Body)
	}
}

func formBody(values map[string][]string) body {
	b := make(body, len(values))
	for k, vs := range values {
		if len(vs) == 0 {
			continue
		}
		b[k] = value{text: vs[0], list: vs, isString: true}
	}
	return b
}

func jsonBody(r io.Reader) (body, error) {
	if r == nil {
		return body{}, nil
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, apperror.Wrap(err, http.StatusBadRequest, msgInvalidBody)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return body{}, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, apperror.Wrap(err, http.StatusBadRequest, msgInvalidBody)
	}

	b := make(body, len(fields))
	for k, v := range fields {
		if val, ok := jsonValue(v); ok {
			b[k] = val
		}
	}
	return b, nil
}

func jsonValue(raw json.RawMessage) (value, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return value{}, false
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return value{}, false
		}
		return value{text: s, list: []string{s}, isString: true}, true
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return value{}, false
		}
		v := value{list: make([]string, 0, len(items))}
		for _, item := range items {
			if iv, ok := jsonValue(item); ok {
				v.list = append(v.list, iv.text)
			}
		}
		return v, true
	default:
		s := string(raw)
		return value{text: s, list: []string{s}, isTrue: s == "true"}, true
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (h HandlerSet) check(req any) error {
	err := h.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperror.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return apperror.Validation(fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is a required field", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "numeric", "number":
		return fmt.Sprintf("%s must be a number", fe.Field())
	case "boolean":
		return fmt.Sprintf("%s must be a boolean", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// parseID accepts ids that fit a signed bigint column.
func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 63)
	if err != nil {
		return 0, apperror.Wrap(err, http.StatusBadRequest, msgInvalidID)
	}
	return uint(id), nil
}

func parseIDs(raw []string) ([]uint, error) {
	ids := make([]uint, 0, len(raw))
	for _, r := range raw {
		id, err := parseID(r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func paramID(c *gin.Context) (uint, error) {
	return parseID(c.Param("id"))
}
