package validate

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/google/uuid"
)

var validate *validator.Validate

var translator ut.Translator

func init() {

	validate = validator.New()

	// Report fields by their JSON names, as clients send them.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	translator, _ = ut.New(en.New(), en.New()).GetTranslator("en")
	en_translations.RegisterDefaultTranslations(validate, translator)
}

// FieldError is one rejected field of a payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors lists every field that failed validation, in struct order.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	msgs := make([]string, len(fe))
	for i, f := range fe {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// Fields exposes the rejected fields to the request log.
func (fe FieldErrors) Fields() map[string]interface{} {
	names := make([]string, len(fe))
	for i, f := range fe {
		names[i] = f.Field
	}
	return map[string]interface{}{"invalid": strings.Join(names, ",")}
}

// Check validates val against its struct tags. A failure is returned as
// FieldErrors.
func Check(val any) error {
	err := validate.Struct(val)
	if err == nil {
		return nil
	}

	var verrors validator.ValidationErrors
	if !errors.As(err, &verrors) {
		return err
	}
	if len(verrors) < 1 {
		return nil
	}

	fe := make(FieldErrors, len(verrors))
	for i, v := range verrors {
		fe[i] = FieldError{Field: v.Field(), Message: v.Translate(translator)}
	}
	return fe
}

func GenerateID() string {
	return uuid.NewString()
}
