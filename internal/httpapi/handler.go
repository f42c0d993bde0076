// Package httpapi is the request boundary (spec §2 item 6): it decodes
// and schema-validates the request, hands the parsed mutations to the
// engine, and serializes the response. The failure modes it owns are
// malformed input (400), an unknown path (404) and unexpected
// infrastructure failures (500) — business validation never produces a
// 4xx here.
package httpapi

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"pension-engine/internal/accrual"
	"pension-engine/internal/engine"
	"pension-engine/internal/model"
	"pension-engine/internal/response"
)

const calculationRequestsPath = "/calculation-requests"

// Server wires the engine and accrual provider behind fasthttp.
type Server struct {
	rates    accrual.Provider
	validate *validator.Validate
	log      *slog.Logger
}

// New builds a Server. A nil logger falls back to slog.Default.
func New(rates accrual.Provider, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		rates:    rates,
		validate: newValidator(),
		log:      logger,
	}
}

// Handler returns the fasthttp.RequestHandler to pass to
// fasthttp.ListenAndServe.
func (s *Server) Handler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		s.route(ctx)
		s.log.Info("request",
			"method", string(ctx.Method()),
			"path", string(ctx.Path()),
			"status", ctx.Response.StatusCode(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

func (s *Server) route(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/healthz":
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("ok")
	case calculationRequestsPath:
		s.handleCalculation(ctx)
	default:
		writeProblem(ctx, fasthttp.StatusNotFound, "Not Found", "No such resource")
	}
}

func (s *Server) handleCalculation(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		writeProblem(ctx, fasthttp.StatusBadRequest, "Method Not Allowed", "Only POST is supported")
		return
	}

	var req model.CalculationRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeProblemWithFields(ctx, fasthttp.StatusBadRequest, "Malformed Request",
			"Request body is not valid JSON", []FieldProblem{{Field: "body", Message: err.Error()}})
		return
	}

	if err := s.validate.Struct(&req); err != nil {
		writeProblemWithFields(ctx, fasthttp.StatusBadRequest, "Invalid Request",
			"One or more fields failed validation", fieldProblems(err))
		return
	}

	eng := engine.New(s.rates)

	started := time.Now()
	reqCtx, cancel := context.WithTimeout(ctx, 25*time.Second)
	defer cancel()

	result := eng.Evaluate(reqCtx, req.CalculationInstructions.Mutations)
	completed := time.Now()

	resp := response.Assemble(req.TenantID, result, started, completed)

	body, err := json.Marshal(resp)
	if err != nil {
		writeProblem(ctx, fasthttp.StatusInternalServerError, "Internal Error", "Failed to encode response")
		return
	}

	ctx.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBody(body)
}

func writeProblem(ctx *fasthttp.RequestCtx, status int, title, detail string) {
	writeProblemWithFields(ctx, status, title, detail, nil)
}

func writeProblemWithFields(ctx *fasthttp.RequestCtx, status int, title, detail string, fields []FieldProblem) {
	doc := ProblemDocument{Status: status, Title: title, Detail: detail, Errors: fields}
	body, err := json.Marshal(doc)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}
