package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
	"github.com/m04kA/SMC-VenueCRM/pkg/types"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// В ошибках используем имена полей из json тегов
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		_, err := types.NewTimeStringFromString(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("booking_status", func(fl validator.FieldLevel) bool {
		return domain.BookingStatus(fl.Field().String()).IsValid()
	})

	return v
}

// ValidateStruct проверяет DTO, возвращает nil или ошибки по полям
func ValidateStruct(data interface{}) map[string]string {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fe := range validationErrors {
			fields[fe.Field()] = fieldMessage(fe)
		}
		return fields
	}

	fields["_"] = err.Error()
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "обязательное поле"
	case "email":
		return "некорректный email"
	case "min", "gte":
		return fmt.Sprintf("значение должно быть не меньше %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("значение должно быть не больше %s", fe.Param())
	case "gt":
		return fmt.Sprintf("значение должно быть больше %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("допустимые значения: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "hhmm":
		return "ожидается время в формате HH:MM"
	case "date":
		return "ожидается дата в формате YYYY-MM-DD"
	case "booking_status":
		return "неизвестный статус бронирования"
	default:
		return fmt.Sprintf("некорректное значение (%s)", fe.Tag())
	}
}
