// Package docs provides the OpenAPI documentation served at /swagger.json.
//
// MedTwin API
//
//	@title			MedTwin API
//	@version		1.0
//	@description	Medical PDF analysis: structured extraction, transcripts and body-region summaries.
//
//	@host		localhost:8000
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/medtwin/serve.go -o . --outputTypes go --parseInternal
