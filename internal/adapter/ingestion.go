package adapter

import "context"

// RunIngestion delegates to the configured Ingestor. When no ingestor is
// wired (Descriptor().Ingestion == false) the Shell must reject the call
// as unsupported_capability before ever reaching here; this still returns
// a zeroed report defensively rather than panicking on a nil ingestor.
func (a *German) RunIngestion(ctx context.Context, sourceID string, dryRun bool) (IngestionReport, error) {
	if a.ingestor == nil {
		return IngestionReport{SourceID: sourceID, DryRun: dryRun}, nil
	}
	report, err := a.ingestor.Run(ctx, sourceID, dryRun)
	if err != nil {
		// run_ingestion failures surface as a zeroed report with ok:true,
		// never as a propagated error (spec §4.10).
		return IngestionReport{SourceID: sourceID, DryRun: dryRun}, nil
	}
	return report, nil
}
