package endpoints

import (
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/medtwin/medtwin/internal/api"
	"github.com/medtwin/medtwin/internal/prompts"
)

// PromptResponse represents a single prompt.
type PromptResponse struct {
	Key         string `json:"key"`
	Text        string `json:"text"`
	Description string `json:"description,omitempty"`
	Hash        string `json:"hash"`
}

// PromptsListResponse contains all prompts.
type PromptsListResponse struct {
	Prompts []PromptResponse `json:"prompts"`
}

func toPromptResponse(p prompts.EmbeddedPrompt) PromptResponse {
	return PromptResponse{
		Key:         p.Key,
		Text:        p.Text,
		Description: p.Description,
		Hash:        p.Hash,
	}
}

// ListPromptsEndpoint handles GET /api/prompts.
type ListPromptsEndpoint struct {
	Catalog *prompts.Catalog
}

var _ api.Endpoint = (*ListPromptsEndpoint)(nil)

func (e *ListPromptsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/prompts", e.handler
}

func (e *ListPromptsEndpoint) RequiresUpstream() bool { return false }

// handler godoc
//
//	@Summary		List all prompts
//	@Description	Get the prompts sent to the upstream model, with their hashes
//	@Tags			prompts
//	@Produce		json
//	@Success		200	{object}	PromptsListResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/prompts [get]
func (e *ListPromptsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	if e.Catalog == nil {
		writeError(w, http.StatusInternalServerError, "prompt catalog not available")
		return
	}

	all := e.Catalog.All()
	resp := PromptsListResponse{Prompts: make([]PromptResponse, len(all))}
	for i, p := range all {
		resp.Prompts[i] = toPromptResponse(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (e *ListPromptsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "prompts",
		Short: "List the prompts the server sends upstream",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp PromptsListResponse
			if err := client.Get(cmd.Context(), "/api/prompts", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// GetPromptEndpoint handles GET /api/prompts/{key}.
type GetPromptEndpoint struct {
	Catalog *prompts.Catalog
}

var _ api.Endpoint = (*GetPromptEndpoint)(nil)

func (e *GetPromptEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/prompts/{key}", e.handler
}

func (e *GetPromptEndpoint) RequiresUpstream() bool { return false }

// handler godoc
//
//	@Summary		Get a prompt
//	@Description	Get a specific prompt by key
//	@Tags			prompts
//	@Produce		json
//	@Param			key	path		string	true	"Prompt key (e.g., pdf.analyze.json)"
//	@Success		200	{object}	PromptResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/prompts/{key} [get]
func (e *GetPromptEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	key, err := url.PathUnescape(r.PathValue("key"))
	if err != nil || key == "" {
		writeError(w, http.StatusBadRequest, "invalid prompt key")
		return
	}
	if e.Catalog == nil {
		writeError(w, http.StatusInternalServerError, "prompt catalog not available")
		return
	}

	p, ok := e.Catalog.Get(key)
	if !ok {
		writeError(w, http.StatusNotFound, "prompt not found: "+key)
		return
	}
	writeJSON(w, http.StatusOK, toPromptResponse(p))
}

func (e *GetPromptEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "prompt <key>",
		Short: "Get a prompt by key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp PromptResponse
			if err := client.Get(cmd.Context(), "/api/prompts/"+url.PathEscape(args[0]), &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
