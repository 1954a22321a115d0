package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	apperrors "github.com/dchesque/app-loja/internal"
	"github.com/go-playground/validator/v10"
)

var (
	cpfPattern      = regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$|^\d{11}$`)
	cnpjPattern     = regexp.MustCompile(`^\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}$|^\d{14}$`)
	cepPattern      = regexp.MustCompile(`^\d{5}-\d{3}$|^\d{8}$`)
	telefonePattern = regexp.MustCompile(`^\(\d{2}\)\s\d{4,5}-\d{4}$|^\d{10,11}$`)
	celularPattern  = regexp.MustCompile(`^\(\d{2}\)\s\d{5}-\d{4}$|^\d{11}$`)
)

// isoDateLayouts are the layouts accepted for date-only fields.
var isoDateLayouts = []string{time.DateOnly, time.RFC3339, time.RFC3339Nano, "2006-01-02T15:04:05"}

// ParseISODate parses the date formats accepted by the isodate tag.
func ParseISODate(s string) (time.Time, error) {
	for _, layout := range isoDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO date %q", s)
}

// Validator wraps go-playground/validator with the Brazilian document
// formats and turns failures into AppErrors.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	patterns := map[string]*regexp.Regexp{
		"cpf":      cpfPattern,
		"cnpj":     cnpjPattern,
		"cep":      cepPattern,
		"telefone": telefonePattern,
		"celular":  celularPattern,
	}
	for tag, re := range patterns {
		re := re
		// empty strings pass; required-ness is a separate tag
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || re.MatchString(s)
		})
	}
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, err := ParseISODate(s)
		return err == nil
	})

	return &Validator{v: v}
}

// Struct validates s and returns nil or a 400 AppError listing every
// failing field.
func (val *Validator) Struct(s interface{}) *apperrors.AppError {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewValidationError(err.Error(), apperrors.ErrCodeValidationFailed)
	}

	fields := make([]apperrors.ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperrors.ValidationError{
			Field:   fe.Field(),
			Message: Message(fe.Field(), fe.Tag(), fe.Param()),
			Code:    fe.Tag(),
		})
	}
	return apperrors.NewValidationFieldErrors(fields)
}

// fieldLabels are the user-facing names used in messages.
var fieldLabels = map[string]string{
	"email":           "E-mail",
	"password":        "Senha",
	"name":            "Nome",
	"role":            "Papel",
	"codigo":          "Código",
	"loja":            "Loja",
	"nome":            "Nome",
	"cpf":             "CPF",
	"cnpj":            "CNPJ",
	"nome_cliente":    "Nome do cliente",
	"razao_social":    "Razão Social",
	"nome_fantasia":   "Nome Fantasia",
	"data_nascimento": "Data de nascimento",
	"cep":             "CEP",
	"uf":              "UF",
	"telefone":        "Telefone",
	"celular":         "Celular",
	"website":         "Website",
	"status":          "Status",
	"page":            "Página",
	"pageSize":        "Tamanho da página",
	"orderBy":         "Ordenação",
	"orderDirection":  "Direção da ordenação",
}

// feminine labels take "obrigatória" and "vazia".
var feminine = map[string]bool{
	"loja":         true,
	"razao_social": true,
	"password":     true,
}

var formatMessages = map[string]string{
	"cpf":      "CPF deve estar no formato 000.000.000-00 ou 00000000000",
	"cnpj":     "CNPJ deve estar no formato 00.000.000/0000-00 ou 00000000000000",
	"cep":      "CEP deve estar no formato 00000-000 ou 00000000",
	"telefone": "Telefone deve estar no formato (00) 0000-0000 ou (00) 00000-0000",
	"celular":  "Celular deve estar no formato (00) 00000-0000 ou 00000000000",
	"isodate":  "Data de nascimento deve estar no formato ISO",
	"email":    "Formato de e-mail inválido",
	"url":      "Website deve ser uma URL válida",
}

// Message renders the Portuguese message for a failed rule.
func Message(field, tag, param string) string {
	label, ok := fieldLabels[field]
	if !ok {
		label = field
	}

	if msg, ok := formatMessages[tag]; ok {
		return msg
	}

	switch tag {
	case "required":
		if feminine[field] {
			return fmt.Sprintf("%s é obrigatória", label)
		}
		return fmt.Sprintf("%s é obrigatório", label)
	case "min":
		if field == "password" {
			return fmt.Sprintf("A senha deve ter pelo menos %s caracteres", param)
		}
		if param == "1" {
			if feminine[field] {
				return fmt.Sprintf("%s não pode ser vazia", label)
			}
			return fmt.Sprintf("%s não pode ser vazio", label)
		}
		return fmt.Sprintf("%s deve ter no mínimo %s", label, param)
	case "max":
		return fmt.Sprintf("%s deve ter no máximo %s", label, param)
	case "len":
		return fmt.Sprintf("%s deve ter %s caracteres", label, param)
	case "oneof":
		if field == "status" {
			return "Status deve ser ativo ou inativo"
		}
		return fmt.Sprintf("%s deve ser um de: %s", label, strings.Join(strings.Fields(param), ", "))
	}
	return fmt.Sprintf("%s é inválido", label)
}
