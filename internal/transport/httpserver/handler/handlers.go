package handler

import (
	"context"

	familydomain "catalog-admin-go/internal/domain/attributefamily"
	"catalog-admin-go/internal/i18n"
	"catalog-admin-go/pkg/logger"
)

// Pinger reports whether the backing store is reachable.
type Pinger func(ctx context.Context) error

type Handlers struct {
	Families   *familydomain.Service
	translator *i18n.Translator
	ping       Pinger
	log        logger.Logger
}

func New(families *familydomain.Service, translator *i18n.Translator, ping Pinger, log logger.Logger) *Handlers {
	return &Handlers{
		Families:   families,
		translator: translator,
		ping:       ping,
		log:        log,
	}
}
