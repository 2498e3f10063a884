package handlers

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// аббревиатуры 50 штатов США
var usStates = map[string]bool{
	"AL": true, "AK": true, "AZ": true, "AR": true, "CA": true, "CO": true,
	"CT": true, "DE": true, "FL": true, "GA": true, "HI": true, "ID": true,
	"IL": true, "IN": true, "IA": true, "KS": true, "KY": true, "LA": true,
	"ME": true, "MD": true, "MA": true, "MI": true, "MN": true, "MS": true,
	"MO": true, "MT": true, "NE": true, "NV": true, "NH": true, "NJ": true,
	"NM": true, "NY": true, "NC": true, "ND": true, "OH": true, "OK": true,
	"OR": true, "PA": true, "RI": true, "SC": true, "SD": true, "TN": true,
	"TX": true, "UT": true, "VT": true, "VA": true, "WA": true, "WV": true,
	"WI": true, "WY": true,
}

var usZipRe = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("us_state", func(fl validator.FieldLevel) bool {
		return usStates[fl.Field().String()]
	})
	_ = v.RegisterValidation("us_zip", func(fl validator.FieldLevel) bool {
		return usZipRe.MatchString(fl.Field().String())
	})
	return v
}
