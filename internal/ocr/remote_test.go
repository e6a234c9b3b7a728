package ocr

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janasena/aadhaar-intake/internal/common"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRemoteRecognize(t *testing.T) {
	var gotFilename string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		gotFilename = header.Filename

		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, []byte("jpegbytes"), data)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"lines":["Government of India","Ramesh Kumar"]}`))
	}))
	defer srv.Close()

	c := NewRemoteClient(srv.URL, 5*time.Second, discardLogger())
	lines, err := c.Recognize(context.Background(), []byte("jpegbytes"), "card.jpg")
	require.NoError(t, err)
	assert.Equal(t, []string{"Government of India", "Ramesh Kumar"}, lines)
	assert.Equal(t, "card.jpg", gotFilename)
}

func TestRemoteRecognizeDefaultFilename(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "upload.jpg", header.Filename)
		_, _ = w.Write([]byte(`{"lines":[]}`))
	}))
	defer srv.Close()

	c := NewRemoteClient(srv.URL, 5*time.Second, discardLogger())
	_, err := c.Recognize(context.Background(), []byte("x"), "")
	require.NoError(t, err)
}

func TestRemoteRecognizeNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "engine crashed", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewRemoteClient(srv.URL, 5*time.Second, discardLogger())
	_, err := c.Recognize(context.Background(), []byte("x"), "card.jpg")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUpstreamOCR)
}

func TestRemoteRecognizeMalformedReply(t *testing.T) {
	cases := []string{
		`not json`,
		`{"lines":"one string"}`,
		`{"lines":["ok"],"extra":1}`,
		`{}`,
	}
	for _, body := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		c := NewRemoteClient(srv.URL, 5*time.Second, discardLogger())
		_, err := c.Recognize(context.Background(), []byte("x"), "card.jpg")
		assert.Error(t, err, "reply %q", body)
		srv.Close()
	}
}

func TestFetchImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.jpg" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("imagebytes"))
	}))
	defer srv.Close()

	data, err := FetchImage(context.Background(), srv.Client(), srv.URL+"/card.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("imagebytes"), data)

	_, err = FetchImage(context.Background(), srv.Client(), srv.URL+"/missing.jpg")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUpstreamOCR)
}

func TestSplitLines(t *testing.T) {
	lines := SplitLines("Government of India\r\n\r\n  Ramesh Kumar  \nDOB: 23/11/1990\n")
	assert.Equal(t, []string{"Government of India", "Ramesh Kumar", "DOB: 23/11/1990"}, lines)
}
