package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/ledgerforge/ledger_engine/internal/core/domain"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("accountcode", validAccountCode)
	}
}

// validAccountCode accepts account codes whose leading digit maps to an
// account type.
func validAccountCode(fl validator.FieldLevel) bool {
	_, ok := domain.AccountTypeForCode(fl.Field().String())
	return ok
}
