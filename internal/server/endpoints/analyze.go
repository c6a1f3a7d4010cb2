package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/medtwin/medtwin/internal/api"
	"github.com/medtwin/medtwin/internal/extract"
	"github.com/medtwin/medtwin/internal/svcctx"
)

// multipartMemory is how much of a multipart form is held in memory before
// the remainder spills to disk.
const multipartMemory = 8 << 20

// AnalyzeResponse is the body of a successful analysis. Data is set in json
// mode and Transcript in transcript mode; the other is null.
type AnalyzeResponse struct {
	Mode       string         `json:"mode"`
	Data       map[string]any `json:"data"`
	Transcript *string        `json:"transcript"`
}

// AnalyzeEndpoint handles POST /api/pdf/analyze.
type AnalyzeEndpoint struct {
	Gateway *extract.Gateway
	// MaxUploadBytes caps the request body; 0 disables the cap.
	MaxUploadBytes int64
}

var _ api.Endpoint = (*AnalyzeEndpoint)(nil)

func (e *AnalyzeEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/pdf/analyze", e.handler
}

func (e *AnalyzeEndpoint) RequiresUpstream() bool { return true }

// handler godoc
//
//	@Summary		Analyze a medical PDF
//	@Description	Upload a PDF and get structured JSON or a readable transcript
//	@Tags			pdf
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			pdf			formData	file	true	"PDF document"
//	@Param			mode		formData	string	false	"json (default) or transcript"
//	@Param			model_name	formData	string	false	"Upstream model id"
//	@Success		200			{object}	AnalyzeResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Failure		502			{object}	ErrorResponse
//	@Failure		503			{object}	ErrorResponse
//	@Router			/api/pdf/analyze [post]
func (e *AnalyzeEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	logger := svcctx.LoggerOr(r.Context(), nil)

	if e.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, e.MaxUploadBytes)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("file exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid multipart form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("pdf")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing pdf file")
		return
	}
	defer file.Close()

	result, err := e.Gateway.Analyze(r.Context(), extract.Request{
		Document: file,
		Filename: header.Filename,
		Mode:     r.FormValue("mode"),
		Model:    r.FormValue("model_name"),
	})
	if err != nil {
		status := analyzeStatus(err)
		if status >= http.StatusInternalServerError {
			logger.Error("analysis failed", "error", err, "filename", header.Filename)
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, AnalyzeResponse{
		Mode:       string(result.Mode),
		Data:       result.Data,
		Transcript: result.Transcript,
	})
}

// analyzeStatus maps gateway errors onto HTTP status codes. Upstream call
// failures and local read errors are both 500.
func analyzeStatus(err error) int {
	switch {
	case errors.Is(err, extract.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, extract.ErrUpstreamEmpty):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (e *AnalyzeEndpoint) Command(getServerURL func() string) *cobra.Command {
	var mode, model string
	var plain bool
	cmd := &cobra.Command{
		Use:   "analyze <file.pdf>",
		Short: "Upload a PDF for analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()

			client := api.NewClient(getServerURL())
			var resp AnalyzeResponse
			err = client.PostMultipart(cmd.Context(), "/api/pdf/analyze",
				map[string]string{"mode": mode, "model_name": model},
				api.FilePart{Field: "pdf", Filename: filepath.Base(args[0]), Content: f},
				&resp)
			if err != nil {
				return err
			}
			if resp.Transcript != nil && plain {
				fmt.Println(*resp.Transcript)
				return nil
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "", "json (default) or transcript")
	cmd.Flags().StringVar(&model, "model", "", "Upstream model id (server default if empty)")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print transcripts as plain text")
	return cmd
}
