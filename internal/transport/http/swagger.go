package httptransport

// @title lexcore retrieval core API
// @version 1.0.0
// @description HTTP surface over the German federal law retrieval core's Shell.
// @description
// @description A single POST /v1/tools/call endpoint dispatches every tool call
// @description (list_countries, describe_country, and the per-jurisdiction
// @description document/citation/currency/EU-basis/ingestion operations) and
// @description returns the tool's Result Envelope.
//
// @contact.name lexcore maintainers
// @contact.url https://github.com/gongahkia/lexcore
//
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
//
// @host localhost:8080
// @BasePath /
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Format: "Bearer {token}"
//
// @tag.name Tools
// @tag.description Tool-call dispatch
