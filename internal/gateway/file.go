package gateway

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"

	"github.com/Be3yH4uK315/it-recruiter-bot-service/core/logger"
)

// UploadedFile is the file service record for a stored file.
type UploadedFile struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// FileGateway talks to the file storage service.
type FileGateway struct {
	c client
}

// NewFileGateway builds the gateway from the service base URL.
func NewFileGateway(baseURL string) *FileGateway {
	return &FileGateway{c: newClient(baseURL, logger.GWFile)}
}

// Upload stores a file for its owner. fileType distinguishes resumes
// from avatars on the service side.
func (g *FileGateway) Upload(ctx context.Context, filename string, data []byte, contentType string, ownerID int64, fileType string) (*UploadedFile, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("owner_telegram_id", strconv.FormatInt(ownerID, 10)); err != nil {
		return nil, fmt.Errorf("build multipart: %w", err)
	}
	if err := mw.WriteField("file_type", fileType); err != nil {
		return nil, fmt.Errorf("build multipart: %w", err)
	}
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		return nil, fmt.Errorf("build multipart: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("build multipart: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build multipart: %w", err)
	}

	body := buf.Bytes()
	build := func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.c.base+"/files/upload", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return req, nil
	}
	var out UploadedFile
	if err := g.c.do(ctx, http.MethodPost, "/files/upload", build, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DownloadURL resolves a stored file to a short-lived download link.
func (g *FileGateway) DownloadURL(ctx context.Context, fileID string) (string, error) {
	var out struct {
		DownloadURL string `json:"download_url"`
	}
	if err := g.c.doJSON(ctx, http.MethodGet, "/files/"+fileID+"/download-url", nil, nil, &out); err != nil {
		return "", err
	}
	return out.DownloadURL, nil
}

// Delete removes a stored file on behalf of its owner.
func (g *FileGateway) Delete(ctx context.Context, fileID string, ownerID int64) error {
	q := url.Values{"owner_telegram_id": {strconv.FormatInt(ownerID, 10)}}
	return g.c.doJSON(ctx, http.MethodDelete, "/files/"+fileID, q, nil, nil)
}
