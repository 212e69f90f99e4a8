package patientController

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/JimLiu0/provider-dashboard/internal/events"
	"github.com/JimLiu0/provider-dashboard/internal/logger"
	. "github.com/JimLiu0/provider-dashboard/internal/models"
	"github.com/JimLiu0/provider-dashboard/internal/monitoring"
	"github.com/JimLiu0/provider-dashboard/internal/repositories"
	"github.com/JimLiu0/provider-dashboard/internal/validation"
	"github.com/JimLiu0/provider-dashboard/internal/view"

	"github.com/google/uuid"
)

var (
	ErrInvalidSortField   = errors.New("invalid sort field")
	ErrInvalidFilterField = errors.New("invalid filter field")
	ErrInvalidOperator    = errors.New("operator not allowed for filter field")
)

// Transactor runs fn inside a store transaction.
type Transactor interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	Publish(channel string, event events.Event) error
}

type PatientController struct {
	patientRepo  repositories.PatientRepository
	transactions Transactor
	eventBus     Publisher
	validator    *validation.Validator
	clock        func() time.Time
	log          logger.Logger
}

func New(
	patientRepo repositories.PatientRepository,
	transactions Transactor,
	eventBus Publisher,
) *PatientController {
	return &PatientController{
		patientRepo:  patientRepo,
		transactions: transactions,
		eventBus:     eventBus,
		validator:    validation.New(),
		clock:        time.Now,
		log:          logger.New("PatientController"),
	}
}

type SubmitResult struct {
	Patient *Patient `json:"patient"`
	// CloseForm is false for the "Add & Keep Open" trigger.
	CloseForm bool `json:"closeForm"`
}

// Submit validates draft and stores it. A rejected draft returns
// validation.FieldErrors and never reaches the store; a store failure returns
// *repositories.StoreError and is not retried. Both submit triggers share this
// path; keepOpen only changes the form hint.
func (c *PatientController) Submit(
	ctx context.Context,
	draft PatientDraft,
	keepOpen bool,
) (*SubmitResult, error) {
	log := c.log.Function("Submit")

	result := c.validator.Validate(draft, c.clock())
	if !result.Accepted() {
		monitoring.PatientSubmissions.WithLabelValues(monitoring.SubmissionRejected).Inc()
		for field := range result.Errors {
			monitoring.FieldErrorsTotal.WithLabelValues(string(field)).Inc()
		}
		log.Debug("Draft rejected", "fields", len(result.Errors))
		return nil, result.Errors
	}

	var stored *Patient
	err := c.transactions.Execute(ctx, func(txCtx context.Context) error {
		var err error
		stored, err = c.patientRepo.Insert(txCtx, result.Patient)
		return err
	})
	if err != nil {
		monitoring.PatientSubmissions.WithLabelValues(monitoring.SubmissionStoreError).Inc()
		var storeErr *repositories.StoreError
		if errors.As(err, &storeErr) {
			return nil, storeErr
		}
		return nil, &repositories.StoreError{Op: repositories.OpInsert, Err: err}
	}

	monitoring.PatientSubmissions.WithLabelValues(monitoring.SubmissionAccepted).Inc()
	c.publishCreated(stored)

	return &SubmitResult{Patient: stored, CloseForm: !keepOpen}, nil
}

func (c *PatientController) publishCreated(patient *Patient) {
	log := c.log.Function("publishCreated")

	event := events.Event{
		ID:        uuid.New().String(),
		Type:      events.TypePatientCreated,
		Channel:   events.ChannelPatients,
		Data:      map[string]any{"id": patient.ID},
		Timestamp: c.clock(),
	}

	if err := c.eventBus.Publish(events.ChannelPatients, event); err != nil {
		log.Er("failed to publish event", err, "patientID", patient.ID)
	}
}

type ListResult struct {
	Spec        ViewSpec         `json:"spec"`
	Rows        []view.Row       `json:"rows"`
	Total       int              `json:"total"`
	Shown       int              `json:"shown"`
	EmptyReason view.EmptyReason `json:"emptyReason"`
}

// List loads every stored patient and runs the view pipeline over them.
func (c *PatientController) List(ctx context.Context, spec ViewSpec) (*ListResult, error) {
	patients, err := c.patientRepo.SelectAll(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows := view.Project(patients, spec, c.clock())
	monitoring.PipelineDuration.Observe(time.Since(start).Seconds())

	return &ListResult{
		Spec:        spec,
		Rows:        rows,
		Total:       len(patients),
		Shown:       len(rows),
		EmptyReason: view.Classify(len(patients), len(rows)),
	}, nil
}

type ViewQuery struct {
	Sort     string
	Desc     *bool
	Field    string
	Operator string
	Value    string
}

// ResolveSpec applies query on top of the default spec. Empty parts keep their
// defaults; a new filter field without an operator gets that field's default.
func ResolveSpec(query ViewQuery) (ViewSpec, error) {
	spec := DefaultViewSpec()

	if query.Sort != "" {
		field := Field(query.Sort)
		if !IsSortable(field) {
			return ViewSpec{}, ErrInvalidSortField
		}
		spec.Sort = SortSpec{Field: field}
	}
	if query.Desc != nil {
		spec.Sort.Desc = *query.Desc
	}

	if query.Field != "" {
		field := Field(query.Field)
		if OperatorsFor(field) == nil {
			return ViewSpec{}, ErrInvalidFilterField
		}
		spec.FilterField = field
		spec.Operator = DefaultOperator(field)
	}

	if query.Operator != "" {
		operator := Operator(query.Operator)
		if !slices.Contains(OperatorsFor(spec.FilterField), operator) {
			return ViewSpec{}, ErrInvalidOperator
		}
		spec.Operator = operator
	}

	spec.FilterValue = query.Value
	return spec, nil
}

type FilterFieldSchema struct {
	Field           Field      `json:"field"`
	Operators       []Operator `json:"operators"`
	DefaultOperator Operator   `json:"defaultOperator"`
}

type Schema struct {
	Statuses       []Status            `json:"statuses"`
	States         []string            `json:"states"`
	SortableFields []Field             `json:"sortableFields"`
	FilterFields   []FilterFieldSchema `json:"filterFields"`
	DefaultSpec    ViewSpec            `json:"defaultSpec"`
}

// GetSchema describes the form selects and the filter bar.
func (c *PatientController) GetSchema() Schema {
	filterFields := FilterFields()
	filters := make([]FilterFieldSchema, 0, len(filterFields))
	for _, field := range filterFields {
		filters = append(filters, FilterFieldSchema{
			Field:           field,
			Operators:       OperatorsFor(field),
			DefaultOperator: DefaultOperator(field),
		})
	}

	return Schema{
		Statuses:       Statuses,
		States:         USStates,
		SortableFields: SortableFields,
		FilterFields:   filters,
		DefaultSpec:    DefaultViewSpec(),
	}
}
