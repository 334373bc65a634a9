package services

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	DateLayout    = "2006-01-02"
	SlotImmediate = "Inmediato"
	// ScheduleWindowDays is how far ahead an order may be scheduled.
	ScheduleWindowDays = 7
)

// ScheduleSlots are the delivery slots offered at checkout.
var ScheduleSlots = []string{
	SlotImmediate,
	"11:00 - 12:00",
	"12:00 - 13:00",
	"13:00 - 14:00",
	"18:00 - 19:00",
	"19:00 - 20:00",
}

// Rule names, in the order they are checked.
const (
	RuleRequired         = "required"
	RuleNameFormat       = "name_format"
	RulePhoneFormat      = "phone_format"
	RuleScheduleRequired = "schedule_required"
	RuleDateInvalid      = "schedule_date_invalid"
	RuleDateRange        = "schedule_date_range"
	RuleSlot             = "schedule_slot"
)

var namePattern = regexp.MustCompile(`^[A-Za-zÀ-ÖØ-öø-ÿ ]{3,60}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("nombre", func(fl validator.FieldLevel) bool {
		return namePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// CheckoutInput is the raw checkout payload, bound from either a form or JSON.
type CheckoutInput struct {
	Name         string `form:"nombre" json:"nombre"`
	Address      string `form:"direccion" json:"direccion"`
	Phone        string `form:"telefono" json:"telefono"`
	RestaurantID string `form:"restauranteId" json:"restauranteId"`
	Dish         string `form:"pedido" json:"pedido"`
	ScheduleDate string `form:"scheduleDate" json:"scheduleDate"`
	ScheduleSlot string `form:"scheduleSlot" json:"scheduleSlot"`
	Price        string `form:"precio" json:"precio"`
}

// ValidCheckout is a payload that passed every rule.
type ValidCheckout struct {
	Name           string
	Address        string
	Phone          string
	RestaurantSlug string
	Dish           string
	ScheduleDate   time.Time
	ScheduleSlot   string
	Price          decimal.NullDecimal
}

type ValidationError struct {
	Rule    string
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (in CheckoutInput) trimmed() CheckoutInput {
	return CheckoutInput{
		Name:         strings.TrimSpace(in.Name),
		Address:      strings.TrimSpace(in.Address),
		Phone:        strings.TrimSpace(in.Phone),
		RestaurantID: strings.TrimSpace(in.RestaurantID),
		Dish:         strings.TrimSpace(in.Dish),
		ScheduleDate: strings.TrimSpace(in.ScheduleDate),
		ScheduleSlot: strings.TrimSpace(in.ScheduleSlot),
		Price:        strings.TrimSpace(in.Price),
	}
}

// ValidateCheckout checks the payload against now and reports the first broken rule.
// "Today" is the calendar day of now in now's location.
func ValidateCheckout(in CheckoutInput, now time.Time) (ValidCheckout, error) {
	in = in.trimmed()

	// max follows the column sizes; the name length is part of its format rule
	required := []struct{ field, value, limit string }{
		{"nombre", in.Name, ""},
		{"direccion", in.Address, "max=255"},
		{"pedido", in.Dish, ""},
		{"restauranteId", in.RestaurantID, "max=100"},
	}
	for _, r := range required {
		if validate.Var(r.value, "required") != nil {
			return ValidCheckout{}, &ValidationError{
				Rule:    RuleRequired,
				Field:   r.field,
				Message: "Faltan datos obligatorios del pedido.",
			}
		}
		if r.limit != "" && validate.Var(r.value, r.limit) != nil {
			return ValidCheckout{}, &ValidationError{
				Rule:    RuleRequired,
				Field:   r.field,
				Message: "Uno de los datos del pedido es demasiado largo.",
			}
		}
	}

	if validate.Var(in.Name, "nombre") != nil {
		return ValidCheckout{}, &ValidationError{
			Rule:    RuleNameFormat,
			Field:   "nombre",
			Message: "El nombre solo puede contener letras y espacios (3 a 60 caracteres).",
		}
	}

	if validate.Var(in.Phone, "required,number,min=8,max=15") != nil {
		return ValidCheckout{}, &ValidationError{
			Rule:    RulePhoneFormat,
			Field:   "telefono",
			Message: "El teléfono debe tener solo dígitos (8 a 15).",
		}
	}

	if in.ScheduleDate == "" || in.ScheduleSlot == "" {
		return ValidCheckout{}, &ValidationError{
			Rule:    RuleScheduleRequired,
			Field:   "scheduleDate",
			Message: "Selecciona la fecha y el horario de entrega.",
		}
	}

	loc := now.Location()
	if validate.Var(in.ScheduleDate, "datetime="+DateLayout) != nil {
		return ValidCheckout{}, invalidDate()
	}
	date, err := time.ParseInLocation(DateLayout, in.ScheduleDate, loc)
	if err != nil {
		return ValidCheckout{}, invalidDate()
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	lastDay := today.AddDate(0, 0, ScheduleWindowDays)
	if date.Before(today) || date.After(lastDay) {
		return ValidCheckout{}, &ValidationError{
			Rule:    RuleDateRange,
			Field:   "scheduleDate",
			Message: fmt.Sprintf("La fecha de entrega debe estar entre hoy y los próximos %d días.", ScheduleWindowDays),
		}
	}

	slot, ok := offeredSlot(in.ScheduleSlot)
	if !ok {
		return ValidCheckout{}, &ValidationError{
			Rule:    RuleSlot,
			Field:   "scheduleSlot",
			Message: "Selecciona uno de los horarios de entrega disponibles.",
		}
	}
	if slot == SlotImmediate && !date.Equal(today) {
		return ValidCheckout{}, &ValidationError{
			Rule:    RuleSlot,
			Field:   "scheduleSlot",
			Message: "La entrega inmediata solo está disponible para hoy.",
		}
	}

	out := ValidCheckout{
		Name:           in.Name,
		Address:        in.Address,
		Phone:          in.Phone,
		RestaurantSlug: in.RestaurantID,
		Dish:           in.Dish,
		ScheduleDate:   date,
		ScheduleSlot:   slot,
	}
	// display only; an unparseable price is dropped
	if p, err := decimal.NewFromString(in.Price); err == nil {
		out.Price = decimal.NewNullDecimal(p)
	}
	return out, nil
}

// offeredSlot returns the canonical spelling of slot, matched case-insensitively.
func offeredSlot(slot string) (string, bool) {
	for _, s := range ScheduleSlots {
		if strings.EqualFold(s, slot) {
			return s, true
		}
	}
	return "", false
}

func invalidDate() *ValidationError {
	return &ValidationError{
		Rule:    RuleDateInvalid,
		Field:   "scheduleDate",
		Message: "La fecha de entrega no es válida.",
	}
}
