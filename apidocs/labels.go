package apidocs

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Label keys used in generated pages.
const (
	LabelDocumentation = "Documentation"
	LabelSummary       = "Summary"
	LabelEntrypoint    = "Entrypoint"
	LabelEntrypoints   = "Entrypoints"
	LabelAllVerbs      = "All verbs"
	LabelHTTPVerbs     = "HTTP Verbs"
)

// Localizer translates label keys. *message.Printer satisfies it.
type Localizer interface {
	Sprintf(key message.Reference, a ...interface{}) string
}

var labelTranslations = map[language.Tag]map[string]string{
	language.English: {
		LabelDocumentation: "Documentation",
		LabelSummary:       "Summary",
		LabelEntrypoint:    "Entrypoint",
		LabelEntrypoints:   "Entrypoints",
		LabelAllVerbs:      "All verbs",
		LabelHTTPVerbs:     "HTTP Verbs",
	},
	language.Portuguese: {
		LabelDocumentation: "Documentação",
		LabelSummary:       "Resumo",
		LabelEntrypoint:    "Ponto de entrada",
		LabelEntrypoints:   "Pontos de entrada",
		LabelAllVerbs:      "Todos os verbos",
		LabelHTTPVerbs:     "Verbos HTTP",
	},
}

// supportedLanguages lists the catalog languages; the first is the default.
var supportedLanguages = []language.Tag{language.English, language.Portuguese}

var (
	labelCatalog    = buildLabelCatalog()
	languageMatcher = language.NewMatcher(supportedLanguages)
)

func buildLabelCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range labelTranslations {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// NewLocalizer returns a printer for tag backed by the label catalog.
func NewLocalizer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(labelCatalog))
}

// MatchLanguage picks the best supported language for an Accept-Language
// header value. An empty or unparsable header yields English.
func MatchLanguage(accept string) language.Tag {
	return NegotiateLanguage(accept, supportedLanguages[0])
}

// NegotiateLanguage is MatchLanguage with an explicit fallback, used when
// accept cannot be parsed or names no supported language.
func NegotiateLanguage(accept string, fallback language.Tag) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, conf := languageMatcher.Match(tags...)
	if conf == language.No {
		return fallback
	}
	return supportedLanguages[idx]
}

// ParseLanguage resolves a configured language name such as "pt" or "en-US"
// to a supported tag.
func ParseLanguage(name string) language.Tag {
	if name == "" {
		return supportedLanguages[0]
	}
	return MatchLanguage(name)
}
