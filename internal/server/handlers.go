package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/iwvelando/loan-amortizer/internal/config"
	"github.com/iwvelando/loan-amortizer/internal/metrics"
	"github.com/iwvelando/loan-amortizer/internal/store/sqlite"
	"github.com/iwvelando/loan-amortizer/internal/tracing"
	"github.com/iwvelando/loan-amortizer/pkg/constants"
	"github.com/iwvelando/loan-amortizer/pkg/loans"
	"github.com/iwvelando/loan-amortizer/pkg/output"
	"github.com/iwvelando/loan-amortizer/pkg/validation"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type scheduleResponse struct {
	Frequency   loans.PaymentFrequency  `json:"frequency"`
	PeriodLabel string                  `json:"periodLabel"`
	PaidOff     bool                    `json:"paidOff"`
	Columns     output.Columns          `json:"columns"`
	Rows        []loans.AmortizationRow `json:"rows"`
	Totals      loans.Totals            `json:"totals"`
	Warnings    []string                `json:"warnings,omitempty"`
	CSV         string                  `json:"csv"`
	Duration    string                  `json:"duration"`
}

type scenarioResponse struct {
	Scenario *sqlite.Scenario `json:"scenario"`
	Schedule scheduleResponse `json:"schedule"`
}

// scenarioPayload is the body of POST /api/scenarios.
type scenarioPayload struct {
	Name          string                       `json:"name"`
	Loan          config.Loan                  `json:"loan"`
	Insurance     config.Insurance             `json:"insurance"`
	Strategy      string                       `json:"strategy"`
	ExtraPayments []config.ExtraPayment        `json:"extraPayments"`
	FirstPayment  *config.FirstPaymentOverride `json:"firstPayment"`
}

type extraPaymentPayload struct {
	Period int     `json:"period"`
	Amount float64 `json:"amount"`
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSchedule"
	start := time.Now()

	var cfg config.Configuration
	if !h.decodeJSON(w, r, &cfg, op) {
		return
	}
	h.runSchedule(r.Context(), w, &cfg, start, op)
}

// handleScheduleUpload accepts a YAML configuration file as multipart upload.
func (h *handler) handleScheduleUpload(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleScheduleUpload"
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	if err := r.ParseMultipartForm(h.maxBodySize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxBodySize), op)
			return
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err), op)
		return
	}

	cfg, err := config.LoadConfigurationFromReader(&buf)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	h.runSchedule(r.Context(), w, cfg, start, op)
}

func (h *handler) handleScheduleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleScheduleExport"

	outputFormat := r.URL.Query().Get("format")
	if outputFormat == "" {
		outputFormat = constants.OutputFormatCSV
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	var cfg config.Configuration
	if !h.decodeJSON(w, r, &cfg, op) {
		return
	}
	req, err := cfg.ToScheduleRequest()
	if err != nil {
		h.respondStatusError(w, err, op)
		return
	}
	schedule, err := h.generate(r.Context(), req)
	if err != nil {
		h.respondStatusError(w, err, op)
		return
	}

	var buf bytes.Buffer
	if err := output.Write(&buf, outputFormat, req, schedule); err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error(), op)
		return
	}

	w.Header().Set("Content-Type", output.ContentType(outputFormat))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", output.FileName(outputFormat)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write export",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

// handleConfigExport renders a JSON configuration as YAML for download.
func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfigExport"

	var cfg config.Configuration
	if !h.decodeJSON(w, r, &cfg, op) {
		return
	}
	if _, err := cfg.ToScheduleRequest(); err != nil {
		h.respondStatusError(w, err, op)
		return
	}

	yamlBytes, err := yaml.Marshal(&cfg)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

func (h *handler) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	scenarios, err := h.store.ListScenarios(r.Context())
	if err != nil {
		h.respondStatusError(w, err, "server.handleListScenarios")
		return
	}
	h.writeJSON(w, http.StatusOK, scenarios)
}

func (h *handler) handleCreateScenario(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCreateScenario"
	start := time.Now()

	var payload scenarioPayload
	if !h.decodeJSON(w, r, &payload, op) {
		return
	}

	cfg := config.Configuration{
		Loan:          payload.Loan,
		Insurance:     payload.Insurance,
		Strategy:      payload.Strategy,
		ExtraPayments: payload.ExtraPayments,
		FirstPayment:  payload.FirstPayment,
	}
	req, err := cfg.ToScheduleRequest()
	if err != nil {
		h.respondStatusError(w, err, op)
		return
	}

	// Nothing is stored unless the schedule can be generated.
	if _, err := h.generate(r.Context(), req); err != nil {
		h.respondStatusError(w, err, op)
		return
	}

	sc := &sqlite.Scenario{
		Name:         payload.Name,
		Loan:         req.Loan,
		Insurance:    req.Insurance,
		Strategy:     req.Strategy,
		FirstPayment: req.FirstPayment,
	}
	for _, payment := range req.ExtraPayments {
		sc.ExtraPayments = append(sc.ExtraPayments, loans.ExtraPayment{Period: payment.Period, Amount: payment.Amount})
	}

	if err := h.store.CreateScenario(r.Context(), sc); err != nil {
		h.respondStatusError(w, err, op)
		return
	}

	h.logger.Info("scenario created",
		zap.String("op", op),
		zap.String("scenario_id", sc.ID),
	)
	h.respondScenario(r.Context(), w, http.StatusCreated, sc, cfg.ValidateConfiguration(), start, op)
}

func (h *handler) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	sc, err := h.store.GetScenario(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondStatusError(w, err, "server.handleGetScenario")
		return
	}
	h.writeJSON(w, http.StatusOK, sc)
}

func (h *handler) handleDeleteScenario(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDeleteScenario"
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteScenario(r.Context(), id); err != nil {
		h.respondStatusError(w, err, op)
		return
	}
	h.logger.Info("scenario deleted",
		zap.String("op", op),
		zap.String("scenario_id", id),
	)
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleScenarioSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleScenarioSchedule"
	start := time.Now()

	sc, err := h.store.GetScenario(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondStatusError(w, err, op)
		return
	}
	h.respondScenario(r.Context(), w, http.StatusOK, sc, nil, start, op)
}

func (h *handler) handleAddExtraPayment(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAddExtraPayment"
	start := time.Now()

	var payload extraPaymentPayload
	if !h.decodeJSON(w, r, &payload, op) {
		return
	}

	sc, err := h.store.UpdateExtraPayments(r.Context(), chi.URLParam(r, "id"), func(set *loans.ExtraPaymentSet) error {
		_, err := set.Add(payload.Period, payload.Amount)
		return err
	})
	if err != nil {
		h.respondStatusError(w, err, op)
		return
	}
	h.respondScenario(r.Context(), w, http.StatusCreated, sc, nil, start, op)
}

func (h *handler) handleUpdateExtraPayment(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUpdateExtraPayment"
	start := time.Now()

	var payload extraPaymentPayload
	if !h.decodeJSON(w, r, &payload, op) {
		return
	}

	paymentID := chi.URLParam(r, "paymentID")
	sc, err := h.store.UpdateExtraPayments(r.Context(), chi.URLParam(r, "id"), func(set *loans.ExtraPaymentSet) error {
		_, err := set.Update(paymentID, payload.Period, payload.Amount)
		return err
	})
	if err != nil {
		h.respondStatusError(w, err, op)
		return
	}
	h.respondScenario(r.Context(), w, http.StatusOK, sc, nil, start, op)
}

func (h *handler) handleDeleteExtraPayment(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDeleteExtraPayment"
	start := time.Now()

	paymentID := chi.URLParam(r, "paymentID")
	sc, err := h.store.UpdateExtraPayments(r.Context(), chi.URLParam(r, "id"), func(set *loans.ExtraPaymentSet) error {
		if !set.Remove(paymentID) {
			return loans.ErrExtraPaymentNotFound
		}
		return nil
	})
	if err != nil {
		h.respondStatusError(w, err, op)
		return
	}
	h.respondScenario(r.Context(), w, http.StatusOK, sc, nil, start, op)
}

func (h *handler) runSchedule(ctx context.Context, w http.ResponseWriter, cfg *config.Configuration, start time.Time, op string) {
	req, err := cfg.ToScheduleRequest()
	if err != nil {
		h.respondStatusError(w, err, op)
		return
	}

	warnings := cfg.ValidateConfiguration()
	schedule, err := h.generate(ctx, req)
	if err != nil {
		h.respondStatusError(w, err, op)
		return
	}

	response, err := h.buildScheduleResponse(schedule, warnings, start)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error(), op)
		return
	}

	h.logger.Info("schedule computed",
		zap.String("op", op),
		zap.Int("rows", len(response.Rows)),
		zap.Bool("paid_off", response.PaidOff),
		zap.Duration("duration", time.Since(start)),
	)
	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) respondScenario(ctx context.Context, w http.ResponseWriter, status int, sc *sqlite.Scenario, warnings []string, start time.Time, op string) {
	schedule, err := h.generate(ctx, sc.ScheduleRequest())
	if err != nil {
		h.respondStatusError(w, err, op)
		return
	}
	response, err := h.buildScheduleResponse(schedule, warnings, start)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error(), op)
		return
	}
	h.writeJSON(w, status, scenarioResponse{Scenario: sc, Schedule: response})
}

// generate runs the schedule generator inside a span and records metrics.
func (h *handler) generate(ctx context.Context, req loans.ScheduleRequest) (loans.Schedule, error) {
	_, span := tracing.Tracer.Start(ctx, "loans.GenerateSchedule")
	defer span.End()

	generator := loans.NewAmortizationScheduleGenerator(h.logger)
	generator.SetMaxPeriods(h.maxPeriods)

	start := time.Now()
	schedule, err := generator.GenerateSchedule(req)
	metrics.ScheduleDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CalculationErrors.WithLabelValues(errorType(err)).Inc()
		span.RecordError(err)
		return loans.Schedule{}, err
	}

	metrics.SchedulePeriods.Observe(float64(len(schedule.Rows)))
	span.SetAttributes(
		attribute.Int("loan.total_periods", req.Loan.TotalPeriods),
		attribute.Int("schedule.rows", len(schedule.Rows)),
		attribute.String("loan.strategy", string(req.Strategy)),
	)
	return schedule, nil
}

func (h *handler) buildScheduleResponse(schedule loans.Schedule, warnings []string, start time.Time) (scheduleResponse, error) {
	cols := output.ColumnsFor(schedule)
	csv, err := output.CsvString(schedule, cols)
	if err != nil {
		return scheduleResponse{}, err
	}

	report := output.NewReport(schedule)
	return scheduleResponse{
		Frequency:   report.Frequency,
		PeriodLabel: report.PeriodLabel,
		PaidOff:     report.PaidOff,
		Columns:     cols,
		Rows:        report.Rows,
		Totals:      report.Totals,
		Warnings:    append(warnings, schedule.Warnings...),
		CSV:         csv,
		Duration:    time.Since(start).String(),
	}, nil
}

func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return false
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func errorType(err error) string {
	switch {
	case loans.IsInvalidConfiguration(err):
		return "invalid_configuration"
	case loans.IsInvalidExtraPayment(err):
		return "invalid_extra_payment"
	default:
		return "internal"
	}
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, sqlite.ErrScenarioNotFound), errors.Is(err, loans.ErrExtraPaymentNotFound):
		return http.StatusNotFound
	case loans.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) respondStatusError(w http.ResponseWriter, err error, op string) {
	h.respondError(w, statusFor(err), err.Error(), op)
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	} else {
		h.logger.Debug("request rejected",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	}

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
