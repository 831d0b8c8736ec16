package services

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"

	"github.com/hypernova-labs/autolavado-service/internal/models"
	"github.com/sirupsen/logrus"
)

// PlanService lista los planes de Culqi en vivo
type PlanService struct {
	gateway Gateway
	logger  *logrus.Logger
}

// NewPlanService crea una nueva instancia del servicio
func NewPlanService(gateway Gateway, logger *logrus.Logger) *PlanService {
	return &PlanService{
		gateway: gateway,
		logger:  logger,
	}
}

// List reenvía solo los filtros permitidos y normaliza data a una lista
func (s *PlanService) List(ctx context.Context, filters url.Values) (*models.PlanListResponse, error) {
	list, err := s.gateway.ListPlans(ctx, filters)
	if err != nil {
		return nil, upstreamError("list plans", err)
	}

	return &models.PlanListResponse{
		Plans:          normalizePlanData(list.Data),
		Paging:         rawOrDefault(list.Paging, "{}"),
		Cursors:        rawOrDefault(list.Cursors, "{}"),
		RemainingItems: rawOrDefault(list.RemainingItems, "0"),
	}, nil
}

// normalizePlanData convierte un objeto en [objeto], conserva las listas y descarta lo demás
func normalizePlanData(data json.RawMessage) []json.RawMessage {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []json.RawMessage{}
	}

	switch trimmed[0] {
	case '{':
		return []json.RawMessage{trimmed}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil || items == nil {
			return []json.RawMessage{}
		}
		return items
	default:
		return []json.RawMessage{}
	}
}

func rawOrDefault(raw json.RawMessage, fallback string) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return json.RawMessage(fallback)
	}
	return trimmed
}
