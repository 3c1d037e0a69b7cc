package upload

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"leaddesk-service/internal/pkg/storage"

	"github.com/gin-gonic/gin"
)

type stubUploader struct {
	got storage.Object
	err error
}

func (s *stubUploader) Upload(ctx context.Context, obj storage.Object) (string, error) {
	s.got = obj
	if s.err != nil {
		return "", s.err
	}
	_, _ = io.Copy(io.Discard, obj.Body)
	return "http://localhost:3000/uploads/abc.pdf", nil
}

func request(t *testing.T, withFile bool) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if withFile {
		fw, err := mw.CreateFormFile("file", "statement.pdf")
		if err != nil {
			t.Fatal(err)
		}
		_, _ = fw.Write([]byte("%PDF"))
	} else {
		_ = mw.WriteField("note", "nothing here")
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(h *UploadHandler, req *http.Request) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/uploads", h.Upload)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadReturnsURL(t *testing.T) {
	up := &stubUploader{}
	w := serve(NewUploadHandler(up), request(t, true))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"fileUrl":"http://localhost:3000/uploads/abc.pdf"`) {
		t.Errorf("body = %s", w.Body.String())
	}
	if up.got.Name != "statement.pdf" || up.got.Size != 4 {
		t.Errorf("object = %+v", up.got)
	}
}

func TestUploadRequiresFile(t *testing.T) {
	if w := serve(NewUploadHandler(&stubUploader{}), request(t, false)); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestUploadStorageFailure(t *testing.T) {
	w := serve(NewUploadHandler(&stubUploader{err: errors.New("disk full")}), request(t, true))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if strings.Contains(w.Body.String(), "disk full") {
		t.Errorf("storage error leaked: %s", w.Body.String())
	}
}
