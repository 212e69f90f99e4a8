package patientController

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/JimLiu0/provider-dashboard/internal/events"
	. "github.com/JimLiu0/provider-dashboard/internal/models"
	"github.com/JimLiu0/provider-dashboard/internal/repositories"
)

var _ repositories.PatientRepository = (*MockPatientRepository)(nil)

type MockPatientRepository struct {
	InsertFunc    func(ctx context.Context, patient *Patient) (*Patient, error)
	SelectAllFunc func(ctx context.Context) ([]Patient, error)

	InsertCallCount    int32
	SelectAllCallCount int32
}

func (m *MockPatientRepository) Insert(ctx context.Context, patient *Patient) (*Patient, error) {
	atomic.AddInt32(&m.InsertCallCount, 1)
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, patient)
	}
	return nil, errors.New("InsertFunc not implemented in mock")
}

func (m *MockPatientRepository) SelectAll(ctx context.Context) ([]Patient, error) {
	atomic.AddInt32(&m.SelectAllCallCount, 1)
	if m.SelectAllFunc != nil {
		return m.SelectAllFunc(ctx)
	}
	return []Patient{}, nil
}

type passthroughTransactor struct {
	calls int32
}

func (p *passthroughTransactor) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	atomic.AddInt32(&p.calls, 1)
	return fn(ctx)
}

type MockPublisher struct {
	PublishFunc func(channel string, event events.Event) error
	Published   []events.Event
}

func (m *MockPublisher) Publish(channel string, event events.Event) error {
	m.Published = append(m.Published, event)
	if m.PublishFunc != nil {
		return m.PublishFunc(channel, event)
	}
	return nil
}
