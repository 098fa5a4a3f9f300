package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/sparshnfc/storefront/internal/docstore"
	"github.com/sparshnfc/storefront/internal/records"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func doJSONRequest(t *testing.T, e *echo.Echo, method, target string, body any, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	return rec, e.NewContext(req, rec)
}

func doFormRequest(t *testing.T, e *echo.Echo, method, target string, form url.Values) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)

	rec := httptest.NewRecorder()
	return rec, e.NewContext(req, rec)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func newRecordsService() (*docstore.Memory, *records.Service) {
	mem := docstore.NewMemory()
	svc := records.NewService(mem)
	svc.Now = func() time.Time { return testNow }
	return mem, svc
}
