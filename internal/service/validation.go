package service

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rdearco/nuel-supply-sight-tw/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("warehouse", isWarehouse); err != nil {
		panic(err)
	}
	return v
}

// isWarehouse rejects blank names and the filter wildcard.
func isWarehouse(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	return strings.TrimSpace(name) != "" && name != domain.AllWarehouses
}

func validateUpdate(id string, patch domain.ProductUpdate) error {
	if strings.TrimSpace(id) == "" {
		return &domain.ValidationError{Field: "id", Reason: "is required"}
	}
	if patch.IsEmpty() {
		return &domain.ValidationError{ProductID: id, Field: "input", Reason: "at least one of demand, stock or warehouse is required"}
	}
	return FieldError(id, validate.Struct(patch))
}

func validateTransfer(id string, transfer domain.StockTransfer) error {
	if strings.TrimSpace(id) == "" {
		return &domain.ValidationError{Field: "id", Reason: "is required"}
	}
	return FieldError(id, validate.Struct(transfer))
}

// FieldError turns the first failed validator rule into a ValidationError
// for the product. Other errors pass through unchanged; nil stays nil.
func FieldError(id string, err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}

	fe := errs[0]
	return &domain.ValidationError{
		ProductID: id,
		Field:     strings.ToLower(fe.Field()),
		Reason:    reasonFor(fe),
	}
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gt":
		return "must be greater than " + fe.Param()
	case "ne":
		return "must not be " + fe.Param()
	case "warehouse":
		return "must name a warehouse, not be blank or the wildcard"
	default:
		return "failed " + fe.Tag() + " check"
	}
}
