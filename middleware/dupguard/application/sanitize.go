package application

import (
	"net/url"
	"strings"

	"middleware-formguard/forms"
)

// DefaultSensitiveKeys são trechos de nome de chave sempre mascarados.
var DefaultSensitiveKeys = []string{
	"password", "passwd", "secret", "token",
	"credit_card", "creditcard", "card_number", "cc_number",
	"cvv", "cvc", "ssn",
}

const defaultMask = "***"

// Sanitizer mascara valores sensíveis antes de irem para log ou notificação.
// Não participa do fingerprint.
type Sanitizer struct {
	// ExtraKeys soma-se a DefaultSensitiveKeys.
	ExtraKeys []string
	Mask      string
}

// Sanitize devolve uma cópia de values com os sensíveis mascarados.
// As chaves em keep passam intactas (ex: o input sintético do honeypot).
func (s Sanitizer) Sanitize(form forms.Form, values url.Values, keep ...string) url.Values {
	mask := s.Mask
	if mask == "" {
		mask = defaultMask
	}
	kept := make(map[string]bool, len(keep))
	for _, k := range keep {
		kept[k] = true
	}

	out := make(url.Values, len(values))
	for k, vs := range values {
		if kept[k] {
			out[k] = append([]string(nil), vs...)
			continue
		}
		maskAll := s.sensitiveKey(form, k)
		cp := make([]string, len(vs))
		for i, v := range vs {
			if maskAll || looksLikeCard(v) {
				cp[i] = mask
			} else {
				cp[i] = v
			}
		}
		out[k] = cp
	}
	return out
}

func (s Sanitizer) sensitiveKey(form forms.Form, key string) bool {
	if form.SecretInput(key) {
		return true
	}

	lk := strings.ToLower(key)
	for _, sk := range DefaultSensitiveKeys {
		if strings.Contains(lk, sk) {
			return true
		}
	}
	for _, sk := range s.ExtraKeys {
		if sk != "" && strings.Contains(lk, strings.ToLower(sk)) {
			return true
		}
	}
	return false
}

// looksLikeCard: 13 a 19 dígitos (espaços e hífens ignorados) que passam no Luhn.
func looksLikeCard(v string) bool {
	digits := make([]byte, 0, len(v))
	for i := 0; i < len(v); i++ {
		c := v[i]
		switch {
		case c >= '0' && c <= '9':
			digits = append(digits, c)
		case c == ' ' || c == '-':
		default:
			return false
		}
	}
	if len(digits) < 13 || len(digits) > 19 {
		return false
	}
	return luhn(digits)
}

func luhn(digits []byte) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
