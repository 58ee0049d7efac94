package integrations

import (
	"go.uber.org/zap"

	"wineraise.dev/WineRaise/pkg/integrations/vivino-web"
	"wineraise.dev/WineRaise/pkg/model"
)

type Integration interface {
	FindWine(name string) ([]model.Wine, error)
}

func GetIntegration(name string, logger *zap.Logger) Integration {
	if name == vivinoweb.IntegrationName {
		return vivinoweb.NewVivinoWebIntegration(logger)
	}

	return nil
}
