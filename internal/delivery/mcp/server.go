package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/plasticlens/backend/internal/domain"
	"github.com/plasticlens/backend/internal/metrics"
	"github.com/plasticlens/backend/internal/usecase"
)

// Config identifies the server to clients.
type Config struct {
	Name    string
	Version string
}

// toolFunc runs one tool against raw JSON arguments.
type toolFunc func(ctx context.Context, args json.RawMessage) (any, error)

// notFound is the payload returned when an identifier does not resolve.
type notFound struct {
	Error string `json:"error"`
}

// Server holds dependencies for the MCP tools
type Server struct {
	service  *usecase.QueryService
	validate *validator.Validate
	logger   *zap.Logger
	server   *sdk.Server
	handlers map[string]sdk.ToolHandler
}

// NewServer creates the MCP server and registers every tool.
func NewServer(service *usecase.QueryService, cfg Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		service:  service,
		validate: newValidator(),
		logger:   logger.Named("mcp"),
		server: sdk.NewServer(&sdk.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		}, nil),
		handlers: make(map[string]sdk.ToolHandler),
	}

	for _, t := range s.tools() {
		h := s.handle(t.def.Name, t.run)
		s.handlers[t.def.Name] = h
		s.server.AddTool(t.def, h)
	}

	return s
}

// Run serves MCP over stdin/stdout until ctx is cancelled or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("serving MCP over stdio", zap.Int("tools", len(s.handlers)))
	return s.server.Run(ctx, &sdk.StdioTransport{})
}

// MCPServer returns the underlying SDK server, e.g. to connect another transport.
func (s *Server) MCPServer() *sdk.Server {
	return s.server
}

// handle wraps a toolFunc with panic recovery, result encoding, logging and
// metrics.
func (s *Server) handle(name string, run toolFunc) sdk.ToolHandler {
	return func(ctx context.Context, req *sdk.CallToolRequest) (result *sdk.CallToolResult, err error) {
		start := time.Now()
		outcome := metrics.OutcomeOK

		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("tool panicked",
					zap.String("tool", name), zap.Any("panic", r), zap.Stack("stack"))
				outcome = metrics.OutcomeError
				result, err = errorResult(fmt.Sprintf("internal error in %s: %v", name, r)), nil
			}
			elapsed := time.Since(start)
			metrics.ObserveToolCall(name, outcome, elapsed)
			s.logger.Debug("tool call",
				zap.String("tool", name), zap.String("outcome", outcome), zap.Duration("elapsed", elapsed))
		}()

		var args json.RawMessage
		if req != nil && req.Params != nil {
			args = req.Params.Arguments
		}

		payload, runErr := run(ctx, args)
		switch {
		case runErr == nil:
		case errors.Is(runErr, domain.ErrInvalidRequest):
			outcome = metrics.OutcomeInvalid
			s.logger.Info("rejected tool arguments", zap.String("tool", name), zap.Error(runErr))
			return errorResult(runErr.Error()), nil
		default:
			outcome = metrics.OutcomeError
			s.logger.Error("tool failed", zap.String("tool", name), zap.Error(runErr))
			return errorResult(runErr.Error()), nil
		}

		if _, ok := payload.(notFound); ok {
			outcome = metrics.OutcomeNotFound
		}

		res, encErr := jsonResult(payload)
		if encErr != nil {
			outcome = metrics.OutcomeError
			s.logger.Error("encoding tool result", zap.String("tool", name), zap.Error(encErr))
			return errorResult(encErr.Error()), nil
		}
		return res, nil
	}
}

func jsonResult(payload any) (*sdk.CallToolResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return &sdk.CallToolResult{
		Content:           []sdk.Content{&sdk.TextContent{Text: string(data)}},
		StructuredContent: payload,
	}, nil
}

func errorResult(msg string) *sdk.CallToolResult {
	return &sdk.CallToolResult{
		Content: []sdk.Content{&sdk.TextContent{Text: "Error: " + msg}},
		IsError: true,
	}
}

// newValidator reports field names as their JSON argument names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode unmarshals and validates tool arguments. Missing arguments decode
// as the zero value and are then subject to validation.
func decode[T any](v *validator.Validate, raw json.RawMessage) (T, error) {
	var args T
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &args); err != nil {
			return args, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
		}
	}
	if err := v.Struct(args); err != nil {
		return args, fmt.Errorf("%w: %s", domain.ErrInvalidRequest, describe(err))
	}
	return args, nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "oneof", "oneofci":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s needs at least %s item(s)", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
