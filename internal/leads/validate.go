package leads

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("ngphone", func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	})
	return v
}

// ValidPhone accepts Nigerian numbers written as +234…, 234… or 0…, with 10 to 14 digits.
// Spaces, dashes and parentheses are ignored.
func ValidPhone(raw string) bool {
	s := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "+")
	if len(s) < 10 || len(s) > 14 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return strings.HasPrefix(s, "234") || strings.HasPrefix(s, "0")
}

// Problem is one failed rule.
type Problem struct {
	Field   string
	Message string
}

// ValidationError collects every problem found in a form.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	return "leads: invalid form: " + strings.Join(e.Messages(), "; ")
}

// Messages lists the human readable messages in field order.
func (e *ValidationError) Messages() []string {
	out := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		out = append(out, p.Message)
	}
	return out
}

// Fields maps each failing field to its first message.
func (e *ValidationError) Fields() map[string]string {
	out := make(map[string]string, len(e.Problems))
	for _, p := range e.Problems {
		if _, ok := out[p.Field]; !ok {
			out[p.Field] = p.Message
		}
	}
	return out
}

type ruled interface {
	rules(add func(field, msg string))
}

// Validate checks every rule of f and returns a *ValidationError listing all problems, or nil.
func Validate(f Form) error {
	var problems []Problem
	add := func(field, msg string) {
		problems = append(problems, Problem{Field: field, Message: msg})
	}

	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			add(fe.Field(), message(fe))
		}
	}
	if r, ok := f.(ruled); ok {
		r.rules(add)
	}
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}

var labels = map[string]string{
	"first_name":           "First name",
	"last_name":            "Last name",
	"email":                "Email",
	"phone":                "Phone number",
	"vehicle_type":         "Vehicle type",
	"brand":                "Brand",
	"model":                "Model",
	"year_from":            "Year from",
	"year_to":              "Year to",
	"budget_min":           "Minimum budget",
	"budget_max":           "Maximum budget",
	"destination_country":  "Destination country",
	"notes":                "Notes",
	"address":              "Address",
	"nin":                  "NIN",
	"bvn":                  "BVN",
	"employment_status":    "Employment status",
	"monthly_income":       "Monthly income",
	"loan_term":            "Loan term",
	"down_payment_percent": "Down payment percent",
	"consent_credit_check": "Credit check consent",
	"consent_terms":        "Terms consent",
	"request_type":         "Request type",
	"vehicle_brand":        "Vehicle brand",
	"vehicle_model":        "Vehicle model",
	"vehicle_year":         "Vehicle year",
	"mileage":              "Mileage",
	"condition":            "Condition",
	"asking_price":         "Asking price",
	"desired_brand":        "Desired brand",
	"desired_model":        "Desired model",
	"inspection_date":      "Inspection date",
	"inspection_time":      "Inspection time",
	"subject":              "Subject",
	"message":              "Message",
}

func label(field string) string {
	if l, ok := labels[field]; ok {
		return l
	}
	return strings.ReplaceAll(field, "_", " ")
}

func message(fe validator.FieldError) string {
	name := label(fe.Field())
	switch fe.Tag() {
	case "required":
		if fe.Kind() == reflect.Bool {
			return name + " must be accepted"
		}
		return name + " is required"
	case "required_if":
		return name + " is required for this request"
	case "email":
		return name + " must be a valid email address"
	case "ngphone":
		return name + " must be a valid Nigerian phone number"
	case "len":
		return fmt.Sprintf("%s must be %s digits", name, fe.Param())
	case "numeric":
		return name + " must contain digits only"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", name, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
	case "datetime":
		return name + " is not a valid date or time"
	default:
		return name + " is invalid"
	}
}
