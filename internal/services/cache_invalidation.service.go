package services

import (
	"context"
	"time"

	"github.com/JimLiu0/provider-dashboard/internal/database"
	"github.com/JimLiu0/provider-dashboard/internal/events"
	"github.com/JimLiu0/provider-dashboard/internal/logger"
)

// CacheInvalidationService retires the cached patient list whenever a patient
// is created. It must be started before any subscriber that reloads the list.
type CacheInvalidationService struct {
	eventBus    *events.EventBus
	cache       database.CacheClient
	unsubscribe func()
	log         logger.Logger
}

func NewCacheInvalidationService(
	eventBus *events.EventBus,
	db database.DB,
) *CacheInvalidationService {
	return &CacheInvalidationService{
		eventBus: eventBus,
		cache:    db.Cache.Patients,
		log:      logger.New("CacheInvalidationService"),
	}
}

func (s *CacheInvalidationService) Start() {
	if s.unsubscribe != nil {
		return
	}
	s.unsubscribe = s.eventBus.Subscribe(events.ChannelPatients, s.handle)
}

func (s *CacheInvalidationService) Stop() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

func (s *CacheInvalidationService) handle(event events.Event) {
	if event.Type != events.TypePatientCreated {
		return
	}

	log := s.log.Function("handle")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	generation, err := database.BumpGeneration(ctx, s.cache, database.PatientListGenerationKey)
	if err != nil {
		log.Er("failed to invalidate patient list cache", err, "eventID", event.ID)
		return
	}

	log.Debug("Patient list cache invalidated", "eventID", event.ID, "generation", generation)
}
