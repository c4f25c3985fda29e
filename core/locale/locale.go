package locale

import (
	"math"
	"strings"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/ar_TN"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/fr"
	"github.com/go-playground/locales/it"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
)

const Default = "en"

// Supported lists the storefront locales in display order.
var Supported = []string{"en", "fr", "tn", "it", "zh"}

// cldr maps storefront locales to their CLDR names.
var cldr = map[string]string{
	"en": "en",
	"fr": "fr",
	"tn": "ar_TN",
	"it": "it",
	"zh": "zh",
}

var uni = ut.New(en.New(), en.New(), fr.New(), ar_TN.New(), it.New(), zh.New())

// Normalize returns tag when it is supported and Default otherwise.
func Normalize(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if _, ok := cldr[tag]; ok {
		return tag
	}
	return Default
}

func translator(tag string) locales.Translator {
	t, _ := uni.GetTranslator(cldr[Normalize(tag)])
	return t
}

// FormatPrice renders amount in Dinars with the number format of tag,
// using at most two fraction digits. Non-finite amounts render empty.
func FormatPrice(tag string, amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return ""
	}

	amount = math.Round(amount*100) / 100

	var digits uint64
	switch {
	case amount == math.Trunc(amount):
		digits = 0
	case amount*10 == math.Trunc(amount*10):
		digits = 1
	default:
		digits = 2
	}

	return translator(tag).FmtNumber(amount, digits) + " Dinars"
}
