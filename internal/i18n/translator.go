package i18n

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

type Translator struct {
	catalog  *catalog.Builder
	matcher  language.Matcher
	tags     []language.Tag
	fallback language.Tag
}

func New(defaultLocale string) (*Translator, error) {
	builder, tags, err := newCatalog()
	if err != nil {
		return nil, fmt.Errorf("build message catalog: %w", err)
	}

	fallback := language.English
	if defaultLocale != "" {
		parsed, err := language.Parse(defaultLocale)
		if err != nil {
			return nil, fmt.Errorf("parse default locale %q: %w", defaultLocale, err)
		}
		fallback = parsed
	}

	// The matcher returns the first tag when nothing matches, so the fallback goes first.
	ordered := []language.Tag{fallback}
	for _, tag := range tags {
		if tag != fallback {
			ordered = append(ordered, tag)
		}
	}

	return &Translator{
		catalog:  builder,
		matcher:  language.NewMatcher(ordered),
		tags:     ordered,
		fallback: fallback,
	}, nil
}

// Locale picks the best supported language for an Accept-Language header value.
func (t *Translator) Locale(acceptLanguage string) language.Tag {
	if acceptLanguage == "" {
		return t.fallback
	}
	requested, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(requested) == 0 {
		return t.fallback
	}
	_, index, _ := t.matcher.Match(requested...)
	return t.tags[index]
}

func (t *Translator) Message(locale language.Tag, key Key, entity string) string {
	printer := message.NewPrinter(locale, message.Catalog(t.catalog))
	if entity == "" {
		return printer.Sprintf(string(key))
	}
	return printer.Sprintf(string(key), printer.Sprintf(entity))
}
