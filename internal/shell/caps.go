package shell

import "github.com/gongahkia/lexcore/pkg/models"

// runtimeCapability maps a tool to the single data capability its primary
// retrieval depends on. Tools absent from this map have no runtime
// capability dependency beyond their static contract.
var runtimeCapability = map[string]models.Capability{
	"search_documents":             models.CapCoreLegislation,
	"get_document":                 models.CapCoreLegislation,
	"search_case_law":              models.CapBasicCaseLaw,
	"get_preparatory_works":        models.CapFullPreparatoryWorks,
	"check_currency":               models.CapCoreLegislation,
	"build_legal_stance":           models.CapCoreLegislation,
	"get_eu_basis":                 models.CapEuReferences,
	"search_eu_implementations":    models.CapEuReferences,
	"get_national_implementations": models.CapEuReferences,
	"get_provision_eu_basis":       models.CapEuReferences,
	"validate_eu_compliance":       models.CapEuReferences,
}

// upgradeNotice builds the {ok:true} payload a tool returns when its static
// contract supports it but the runtime Capability Set reports the backing
// data as absent (spec: absence is an upgrade notice, not a failure).
func upgradeNotice(capability models.Capability) map[string]interface{} {
	return map[string]interface{}{
		"available":  false,
		"capability": string(capability),
		"note":       "this deployment's corpus does not currently index data for this capability",
	}
}
