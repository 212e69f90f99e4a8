package handlers

import (
	"errors"
	"strconv"

	"github.com/JimLiu0/provider-dashboard/internal/app"
	patientController "github.com/JimLiu0/provider-dashboard/internal/controllers/patients"
	"github.com/JimLiu0/provider-dashboard/internal/logger"
	. "github.com/JimLiu0/provider-dashboard/internal/models"
	"github.com/JimLiu0/provider-dashboard/internal/monitoring"
	"github.com/JimLiu0/provider-dashboard/internal/repositories"
	"github.com/JimLiu0/provider-dashboard/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type PatientHandler struct {
	Handler
	controller *patientController.PatientController
}

func NewPatientHandler(app app.App, router fiber.Router) *PatientHandler {
	log := logger.New("handlers").File("patient_handler")
	return &PatientHandler{
		controller: app.PatientController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *PatientHandler) Register() {
	patients := h.router.Group("/patients")
	patients.Get("/schema", h.getSchema)
	patients.Post("/", h.createPatient)
	patients.Get("/", h.getPatients)
}

func (h *PatientHandler) getSchema(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "success", "schema": h.controller.GetSchema()})
}

func (h *PatientHandler) createPatient(c *fiber.Ctx) error {
	log := h.log.Function("createPatient")

	var draft PatientDraft
	if err := c.BodyParser(&draft); err != nil {
		log.Er("failed to parse patient draft", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse patient draft"})
	}

	keepOpen := c.QueryBool("keepOpen", false)

	result, err := h.controller.Submit(c.UserContext(), draft, keepOpen)
	if err != nil {
		return h.submitError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "success",
		"patient":   result.Patient,
		"closeForm": result.CloseForm,
	})
}

func (h *PatientHandler) submitError(c *fiber.Ctx, err error) error {
	log := h.log.Function("submitError")

	var fieldErrors validation.FieldErrors
	if errors.As(err, &fieldErrors) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message":     "validation failed",
			"fieldErrors": fieldErrors,
		})
	}

	var storeErr *repositories.StoreError
	if errors.As(err, &storeErr) {
		log.Er("failed to store patient", err, "op", storeErr.Op)
		monitoring.CaptureError(err, map[string]any{"op": storeErr.Op, "path": c.Path()})
		return c.Status(fiber.StatusBadGateway).
			JSON(fiber.Map{"message": "failed to save patient", "error": err.Error()})
	}

	log.Er("failed to submit patient", err)
	return c.Status(fiber.StatusInternalServerError).
		JSON(fiber.Map{"message": "failed to submit patient", "error": err.Error()})
}

func (h *PatientHandler) getPatients(c *fiber.Ctx) error {
	log := h.log.Function("getPatients")

	query := patientController.ViewQuery{
		Sort:     c.Query("sort"),
		Field:    c.Query("field"),
		Operator: c.Query("op"),
		Value:    c.Query("value"),
	}
	if raw := c.Query("desc"); raw != "" {
		desc, err := strconv.ParseBool(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"message": "desc must be a boolean"})
		}
		query.Desc = &desc
	}

	spec, err := patientController.ResolveSpec(query)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "invalid view", "error": err.Error()})
	}

	result, err := h.controller.List(c.UserContext(), spec)
	if err != nil {
		log.Er("failed to list patients", err)
		monitoring.CaptureError(err, map[string]any{"path": c.Path()})
		return c.Status(fiber.StatusBadGateway).
			JSON(fiber.Map{"message": "failed to load patients", "error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"message":     "success",
		"spec":        result.Spec,
		"rows":        result.Rows,
		"total":       result.Total,
		"shown":       result.Shown,
		"emptyReason": result.EmptyReason,
	})
}
