package shell

import (
	"context"

	"github.com/gongahkia/lexcore/internal/registry"
	lexerrors "github.com/gongahkia/lexcore/pkg/errors"
	"github.com/gongahkia/lexcore/pkg/models"
)

// dispatch handles every tool whose arguments are already bound and
// validated and whose static and runtime capability checks already
// passed.
func (s *Shell) dispatch(ctx context.Context, name string, adp registry.Adapter, args boundArgs) models.ToolResult {
	switch a := args.(type) {
	case *searchDocumentsArgs:
		return s.searchDocuments(ctx, adp, a)
	case *getDocumentArgs:
		return s.getDocument(ctx, adp, a)
	case *searchCaseLawArgs:
		return s.searchCaseLaw(ctx, adp, a)
	case *getPreparatoryWorksArgs:
		return s.getPreparatoryWorks(ctx, adp, a)
	case *parseCitationArgs:
		return s.parseCitation(adp, a)
	case *validateCitationArgs:
		return s.validateCitation(ctx, adp, a)
	case *formatCitationArgs:
		return s.formatCitation(adp, a)
	case *checkCurrencyArgs:
		return s.checkCurrency(ctx, adp, a)
	case *buildLegalStanceArgs:
		return s.buildLegalStance(ctx, adp, a)
	case *getEuBasisArgs:
		return s.getEuBasis(ctx, adp, a)
	case *searchEuImplementationsArgs:
		return s.searchEuImplementations(ctx, adp, a)
	case *getNationalImplementationsArgs:
		return s.getNationalImplementations(ctx, adp, a)
	case *getProvisionEuBasisArgs:
		return s.getProvisionEuBasis(ctx, adp, a)
	case *validateEuComplianceArgs:
		return s.validateEuCompliance(ctx, adp, a)
	case *runIngestionArgs:
		return s.runIngestion(ctx, adp, a)
	default:
		return fail(name, lexerrors.UnknownTool(name))
	}
}

func (s *Shell) searchDocuments(ctx context.Context, adp registry.Adapter, args *searchDocumentsArgs) models.ToolResult {
	const tool = "search_documents"
	res, err := adp.SearchDocuments(ctx, args.Query, args.Limit)
	if err != nil {
		return fail(tool, lexerrors.Internal("search_documents failed", err))
	}
	return models.Ok(tool, res)
}

func (s *Shell) getDocument(ctx context.Context, adp registry.Adapter, args *getDocumentArgs) models.ToolResult {
	const tool = "get_document"
	doc, err := adp.GetDocument(ctx, args.ID)
	if err != nil {
		return fail(tool, lexerrors.Internal("get_document failed", err))
	}
	return models.Ok(tool, doc)
}

func (s *Shell) searchCaseLaw(ctx context.Context, adp registry.Adapter, args *searchCaseLawArgs) models.ToolResult {
	const tool = "search_case_law"
	res, err := adp.SearchCaseLaw(ctx, args.Query, args.Limit, args.Court, args.DateFrom, args.DateTo)
	if err != nil {
		return fail(tool, lexerrors.Internal("search_case_law failed", err))
	}
	return models.Ok(tool, res)
}

func (s *Shell) getPreparatoryWorks(ctx context.Context, adp registry.Adapter, args *getPreparatoryWorksArgs) models.ToolResult {
	const tool = "get_preparatory_works"
	res, err := adp.GetPreparatoryWorks(ctx, args.Citation, args.StatuteID, args.Query, args.Limit)
	if err != nil {
		return fail(tool, lexerrors.Internal("get_preparatory_works failed", err))
	}
	return models.Ok(tool, res)
}

func (s *Shell) parseCitation(adp registry.Adapter, args *parseCitationArgs) models.ToolResult {
	const tool = "parse_citation"
	result := adp.ParseCitation(args.Citation)
	return models.Ok(tool, result)
}

func (s *Shell) validateCitation(ctx context.Context, adp registry.Adapter, args *validateCitationArgs) models.ToolResult {
	const tool = "validate_citation"
	result, err := adp.ValidateCitation(ctx, args.Citation)
	if err != nil {
		return fail(tool, lexerrors.Internal("validate_citation failed", err))
	}
	return models.Ok(tool, result)
}

func (s *Shell) formatCitation(adp registry.Adapter, args *formatCitationArgs) models.ToolResult {
	const tool = "format_citation"
	result := adp.FormatCitation(args.Citation, args.Style)
	return models.Ok(tool, result)
}

func (s *Shell) checkCurrency(ctx context.Context, adp registry.Adapter, args *checkCurrencyArgs) models.ToolResult {
	const tool = "check_currency"
	result, err := adp.CheckCurrency(ctx, args.Citation, args.StatuteID, args.AsOfDate)
	if err != nil {
		return fail(tool, lexerrors.Internal("check_currency failed", err))
	}
	return models.Ok(tool, result)
}

func (s *Shell) buildLegalStance(ctx context.Context, adp registry.Adapter, args *buildLegalStanceArgs) models.ToolResult {
	const tool = "build_legal_stance"
	result, err := adp.BuildLegalStance(ctx, args.Query, args.Limit, args.IncludeCaseLaw, args.IncludePreparatoryWorks)
	if err != nil {
		return fail(tool, lexerrors.Internal("build_legal_stance failed", err))
	}
	return models.Ok(tool, result)
}

func (s *Shell) getEuBasis(ctx context.Context, adp registry.Adapter, args *getEuBasisArgs) models.ToolResult {
	const tool = "get_eu_basis"
	result, err := adp.GetEuBasis(ctx, args.Citation, args.StatuteID, args.DocumentID, args.Limit)
	if err != nil {
		return fail(tool, lexerrors.Internal("get_eu_basis failed", err))
	}
	return models.Ok(tool, result)
}

func (s *Shell) searchEuImplementations(ctx context.Context, adp registry.Adapter, args *searchEuImplementationsArgs) models.ToolResult {
	const tool = "search_eu_implementations"
	result, err := adp.SearchEuImplementations(ctx, args.Query, args.Limit)
	if err != nil {
		return fail(tool, lexerrors.Internal("search_eu_implementations failed", err))
	}
	return models.Ok(tool, result)
}

func (s *Shell) getNationalImplementations(ctx context.Context, adp registry.Adapter, args *getNationalImplementationsArgs) models.ToolResult {
	const tool = "get_national_implementations"
	result, err := adp.GetNationalImplementations(ctx, args.EuID, args.Limit)
	if err != nil {
		return fail(tool, lexerrors.Internal("get_national_implementations failed", err))
	}
	return models.Ok(tool, result)
}

func (s *Shell) getProvisionEuBasis(ctx context.Context, adp registry.Adapter, args *getProvisionEuBasisArgs) models.ToolResult {
	const tool = "get_provision_eu_basis"
	result, err := adp.GetProvisionEuBasis(ctx, args.DocumentID, args.Limit)
	if err != nil {
		return fail(tool, lexerrors.Internal("get_provision_eu_basis failed", err))
	}
	return models.Ok(tool, result)
}

func (s *Shell) validateEuCompliance(ctx context.Context, adp registry.Adapter, args *validateEuComplianceArgs) models.ToolResult {
	const tool = "validate_eu_compliance"
	result, err := adp.ValidateEuCompliance(ctx, args.EuID, args.Citation, args.StatuteID)
	if err != nil {
		return fail(tool, lexerrors.Internal("validate_eu_compliance failed", err))
	}
	return models.Ok(tool, result)
}

func (s *Shell) runIngestion(ctx context.Context, adp registry.Adapter, args *runIngestionArgs) models.ToolResult {
	const tool = "run_ingestion"
	report, err := adp.RunIngestion(ctx, args.SourceID, args.DryRun)
	if err != nil {
		return fail(tool, lexerrors.Internal("run_ingestion failed", err))
	}
	return models.Ok(tool, report)
}
