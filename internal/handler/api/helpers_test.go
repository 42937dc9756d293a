package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fhuszti/video-studio-ms-go/internal/api_context"
	"github.com/fhuszti/video-studio-ms-go/internal/uuid"
	guuid "github.com/google/uuid"
)

var testID = uuid.UUID(guuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"))

func newRequest(t *testing.T, method, target, body string, id *uuid.UUID) *http.Request {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if id != nil {
		req = req.WithContext(context.WithValue(req.Context(), api_context.IDKey, *id))
	}
	return req
}
