// Package shell implements the Shell component: the single typed tool-call
// dispatcher that validates arguments, enforces static and runtime
// capability gating, calls the registry-resolved adapter, and renders a
// uniform Result Envelope. No operation escapes this boundary as a panic
// or an unrecognized error code.
//
// Grounded on the teacher's internal/command dispatch shape (as seen in
// the pack's holomush-holomush internal/command/dispatcher.go: a name to
// typed-handler table) and the teacher's pkg/validation/validator.go for
// the go-playground/validator wiring.
package shell

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/gongahkia/lexcore/internal/registry"
	lexerrors "github.com/gongahkia/lexcore/pkg/errors"
	"github.com/gongahkia/lexcore/pkg/models"
)

// Shell is the single entry point external transports call through.
type Shell struct {
	registry *registry.Registry
	validate *validator.Validate
}

func New(reg *registry.Registry) *Shell {
	return &Shell{registry: reg, validate: validator.New()}
}

// HandleToolCall never throws: every path returns a Result Envelope.
//
// Step order follows §4.1: unknown tool name, then full argument
// validation, then adapter resolution, then capability gating. Argument
// validation happens before the country selector is used to resolve an
// adapter, since the two are independent checks.
func (s *Shell) HandleToolCall(ctx context.Context, name string, arguments map[string]interface{}) models.ToolResult {
	switch name {
	case "list_countries":
		return s.listCountries(ctx, name)
	case "describe_country":
		return s.describeCountry(ctx, name, arguments)
	}

	factory, known := argsFactories[name]
	if !known {
		return fail(name, lexerrors.UnknownTool(name))
	}

	args := factory()
	if le := s.bind(args, arguments); le != nil {
		return fail(name, le)
	}

	adp, err := s.registry.Get(args.country())
	if err != nil {
		return fail(name, lexerrors.AsLexError(err))
	}
	descriptor := adp.Descriptor()

	if !descriptor.ToolSupport()[name] {
		return fail(name, lexerrors.UnsupportedCapability(name, name))
	}

	if cap, ok := runtimeCapability[name]; ok {
		caps, err := adp.Capabilities(ctx)
		if err != nil && err != lexerrors.ErrUnavailable {
			return fail(name, lexerrors.Internal("failed to read capability set", err))
		}
		if !caps.Has(cap) {
			return models.Ok(name, upgradeNotice(cap))
		}
	}

	return s.dispatch(ctx, name, adp, args)
}

func fail(tool string, le *lexerrors.LexError) models.ToolResult {
	return models.Fail(tool, le.Code, le.Message, le.Context)
}

func (s *Shell) listCountries(ctx context.Context, tool string) models.ToolResult {
	summaries, err := s.registry.List(ctx)
	if err != nil {
		return fail(tool, lexerrors.AsLexError(err))
	}
	return models.Ok(tool, summaries)
}

func (s *Shell) describeCountry(ctx context.Context, tool string, arguments map[string]interface{}) models.ToolResult {
	var args describeCountryArgs
	if le := s.bind(&args, arguments); le != nil {
		return fail(tool, le)
	}
	adp, err := s.registry.Get(args.Country)
	if err != nil {
		return fail(tool, lexerrors.AsLexError(err))
	}
	caps, err := adp.Capabilities(ctx)
	if err != nil && err != lexerrors.ErrUnavailable {
		return fail(tool, lexerrors.Internal("failed to read capability set", err))
	}
	descriptor := adp.Descriptor()
	return models.Ok(tool, map[string]interface{}{
		"country":      descriptor.JurisdictionCode,
		"capabilities": capFlags(caps),
		"tools":        descriptor.ToolSupport(),
	})
}

func capFlags(cs models.CapabilitySet) map[string]bool {
	out := make(map[string]bool, len(models.AllCapabilities))
	for _, c := range models.AllCapabilities {
		out[string(c)] = cs.Has(c)
	}
	return out
}

// bind decodes arguments into dst, trims its string fields, and runs
// struct validation, returning an invalid_arguments error on any failure.
// Trimming before validation means "required"/"required_without*" reject a
// whitespace-only value the same way they reject an absent one.
func (s *Shell) bind(dst interface{}, arguments map[string]interface{}) *lexerrors.LexError {
	if err := decodeArgs(arguments, dst); err != nil {
		return lexerrors.New(lexerrors.CodeInvalidArguments, "arguments do not match the expected shape", err)
	}
	trimStrings(dst)
	if err := s.validate.Struct(dst); err != nil {
		return lexerrors.InvalidArguments("arguments", err.Error())
	}
	return nil
}
