// internal/handlers/customer/files.go
package customer

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"strings"

	"leaddesk-service/internal/domain/customer"
	"leaddesk-service/internal/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

// Multipart part names.
const (
	partData         = "data"
	fileAadhaarFront = "aadhaarFront"
	fileAadhaarBack  = "aadhaarBack"
	filePan          = "panFile"
	fileSelfie       = "selfie"
	fileIncomeProof  = "incomeProofFiles"
)

// attachments holds the URLs of files relayed for one request.
type attachments struct {
	AadhaarFront *string
	AadhaarBack  *string
	PanFile      *string
	Selfie       *string
	IncomeProof  []string
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// bindBody decodes a JSON body, or the JSON "data" part of a multipart form,
// and runs the binding validators over the result.
func bindBody(c *gin.Context, dst interface{}) error {
	if !isMultipart(c) {
		return c.ShouldBindJSON(dst)
	}

	raw := c.PostForm(partData)
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), dst); err != nil {
			return fmt.Errorf("invalid %q part: %w", partData, err)
		}
	}
	return binding.Validator.ValidateStruct(dst)
}

// relayFiles uploads every recognised file part concurrently.
func (h *CustomerHandler) relayFiles(ctx context.Context, c *gin.Context) (*attachments, error) {
	out := &attachments{}
	if !isMultipart(c) {
		return out, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}

	var (
		headers []*multipart.FileHeader
		targets []func(url string)
	)
	single := func(field string, dst **string) {
		files := form.File[field]
		if len(files) == 0 {
			return
		}
		headers = append(headers, files[0])
		targets = append(targets, func(url string) { *dst = &url })
	}
	single(fileAadhaarFront, &out.AadhaarFront)
	single(fileAadhaarBack, &out.AadhaarBack)
	single(filePan, &out.PanFile)
	single(fileSelfie, &out.Selfie)
	for _, fh := range form.File[fileIncomeProof] {
		headers = append(headers, fh)
		targets = append(targets, func(url string) { out.IncomeProof = append(out.IncomeProof, url) })
	}

	if len(headers) == 0 {
		return out, nil
	}

	objs := make([]storage.Object, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
		}
		defer f.Close()

		objs = append(objs, storage.Object{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		})
	}

	urls, err := h.uploader.UploadMany(ctx, objs)
	if err != nil {
		return nil, err
	}
	for i, url := range urls {
		targets[i](url)
	}
	return out, nil
}

// urls lists every relayed file.
func (a *attachments) urls() []string {
	var out []string
	for _, u := range []*string{a.AadhaarFront, a.AadhaarBack, a.PanFile, a.Selfie} {
		if u != nil {
			out = append(out, *u)
		}
	}
	return append(out, a.IncomeProof...)
}

// discard removes files relayed for a request the service then rejected.
func (h *CustomerHandler) discard(ctx context.Context, a *attachments) {
	urls := a.urls()
	if len(urls) == 0 {
		return
	}
	h.logger.Info("removing files of rejected request", zap.Int("count", len(urls)))
	h.uploader.Remove(context.WithoutCancel(ctx), urls)
}

func (a *attachments) applyCreate(req *customer.CreateCustomerRequest) {
	req.AadhaarFiles = a.mergeAadhaar(req.AadhaarFiles)
	if a.PanFile != nil {
		req.PanFile = a.PanFile
	}
	if a.Selfie != nil {
		req.Selfie = a.Selfie
	}
	req.IncomeProofFiles = append(req.IncomeProofFiles, a.IncomeProof...)
}

func (a *attachments) applyUpdate(req *customer.UpdateCustomerRequest) {
	req.AadhaarFiles = a.mergeAadhaar(req.AadhaarFiles)
	if a.PanFile != nil {
		req.PanFile = a.PanFile
	}
	if a.Selfie != nil {
		req.Selfie = a.Selfie
	}
	req.AttachedIncomeProofFiles = a.IncomeProof
}

func (a *attachments) mergeAadhaar(in *customer.AadhaarFiles) *customer.AadhaarFiles {
	if a.AadhaarFront == nil && a.AadhaarBack == nil {
		return in
	}
	out := customer.AadhaarFiles{}
	if in != nil {
		out = *in
	}
	if a.AadhaarFront != nil {
		out.FrontURL = a.AadhaarFront
	}
	if a.AadhaarBack != nil {
		out.BackURL = a.AadhaarBack
	}
	return &out
}
