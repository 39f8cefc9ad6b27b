package notify

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
)

// LinkBuilder produces pre-filled outbound chat links of the form
// <base><digits>?text=<message>.
type LinkBuilder struct {
	base        string
	countryCode string
}

func NewLinkBuilder(base, countryCode string) *LinkBuilder {
	if base == "" {
		base = "https://wa.me/"
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return &LinkBuilder{base: base, countryCode: onlyDigits(countryCode)}
}

// Link returns false when the phone has no digits. National numbers (10 or
// 11 digits) get the default country code prepended.
func (b *LinkBuilder) Link(phone, message string) (string, bool) {
	digits := onlyDigits(phone)
	if digits == "" {
		return "", false
	}
	if b.countryCode != "" && (len(digits) == 10 || len(digits) == 11) {
		digits = b.countryCode + digits
	}
	link := b.base + digits
	if message != "" {
		link += "?text=" + url.QueryEscape(message)
	}
	return link, true
}

func AcceptanceMessage(institutionName, jobTitle string) string {
	return fmt.Sprintf("Olá, %s! Estou entrando em contato para confirmar que aceitei a proposta para a vaga de \"%s\". Estou muito animado(a) para começarmos!",
		institutionName, jobTitle)
}

func CandidateMessage(professorName, jobTitle string) string {
	return fmt.Sprintf("Olá, %s! Vimos sua candidatura para a vaga de \"%s\" e gostaríamos de conversar.", professorName, jobTitle)
}

func onlyDigits(value string) string {
	var b strings.Builder
	for _, r := range value {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
