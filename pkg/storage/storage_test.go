package storage

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(t.TempDir(), 10<<20)
	require.NoError(t, err)
	return s
}

func uploadedFile(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, "/", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	_, fileHeader, err := req.FormFile("image")
	require.NoError(t, err)
	return fileHeader
}

func TestSaveImageReturnsURLPath(t *testing.T) {
	s := newTestStorage(t)

	file := uploadedFile(t, "cover.png", "image/png", []byte("not-a-real-png"))
	urlPath, err := s.SaveImage(file, CategoryTopics)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(urlPath, "/topics_img/"))
	assert.True(t, strings.HasSuffix(urlPath, ".png"))

	local, ok := s.LocalPath(urlPath)
	require.True(t, ok)
	_, err = os.Stat(local)
	assert.NoError(t, err)
}

func TestSaveImageRejectsNonImage(t *testing.T) {
	s := newTestStorage(t)

	file := uploadedFile(t, "doc.pdf", "application/pdf", []byte("%PDF-1.4"))
	_, err := s.SaveImage(file, CategoryTopics)
	assert.Error(t, err)
}

func TestSaveImageRejectsUnknownCategory(t *testing.T) {
	s := newTestStorage(t)

	file := uploadedFile(t, "cover.png", "image/png", []byte("data"))
	_, err := s.SaveImage(file, "documents")
	assert.Error(t, err)
}

func TestSaveImageRejectsOversizedFile(t *testing.T) {
	s, err := NewStorage(t.TempDir(), 4)
	require.NoError(t, err)

	file := uploadedFile(t, "cover.png", "image/png", []byte("more than four bytes"))
	_, err = s.SaveImage(file, CategoryTopics)
	assert.Error(t, err)
}

func TestLocalPathMapsEveryPrefix(t *testing.T) {
	s := newTestStorage(t)

	tests := []struct {
		urlPath  string
		category string
	}{
		{"/topics_img/a.png", CategoryTopics},
		{"/courses_img/b.jpg", CategoryCourses},
		{"/promotions_img/c.png", CategoryPromotions},
		{"/static/img/menu_items/d.png", CategoryMenuItems},
	}
	for _, tt := range tests {
		local, ok := s.LocalPath(tt.urlPath)
		require.True(t, ok, tt.urlPath)
		assert.Equal(t, s.CategoryDir(tt.category), filepath.Dir(local))
	}
}

func TestLocalPathRejectsForeignPaths(t *testing.T) {
	s := newTestStorage(t)

	for _, urlPath := range []string{"", "/etc/passwd", "/topics_img", "relative/path.png"} {
		_, ok := s.LocalPath(urlPath)
		assert.False(t, ok, urlPath)
	}
}

func TestLocalPathStripsTraversal(t *testing.T) {
	s := newTestStorage(t)

	local, ok := s.LocalPath("/topics_img/../../etc/passwd")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(s.CategoryDir(CategoryTopics), "passwd"), local)
}

func TestDeleteImageIgnoresMissingFile(t *testing.T) {
	s := newTestStorage(t)

	assert.NoError(t, s.DeleteImage("/topics_img/missing.png"))
	assert.NoError(t, s.DeleteImage("/unknown/prefix.png"))
}
