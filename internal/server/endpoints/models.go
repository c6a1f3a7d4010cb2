package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/medtwin/medtwin/internal/api"
	"github.com/medtwin/medtwin/internal/extract"
	"github.com/medtwin/medtwin/internal/svcctx"
)

// ModelsResponse lists the upstream models usable for analysis.
type ModelsResponse struct {
	Models []string `json:"models"`
}

// ModelsEndpoint handles GET /models.
type ModelsEndpoint struct {
	Gateway *extract.Gateway
}

var _ api.Endpoint = (*ModelsEndpoint)(nil)

func (e *ModelsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/models", e.handler
}

func (e *ModelsEndpoint) RequiresUpstream() bool { return true }

// handler godoc
//
//	@Summary		List models
//	@Description	List upstream models that support content generation
//	@Tags			models
//	@Produce		json
//	@Success		200	{object}	ModelsResponse
//	@Failure		500	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/models [get]
func (e *ModelsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	models, err := e.Gateway.ListModels(r.Context())
	if err != nil {
		svcctx.LoggerOr(r.Context(), nil).Error("failed to list models", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if models == nil {
		models = []string{}
	}
	writeJSON(w, http.StatusOK, ModelsResponse{Models: models})
}

func (e *ModelsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List upstream models",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ModelsResponse
			if err := client.Get(cmd.Context(), "/models", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
