package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// TestServer - httptest сервер поверх собранного роутера
type TestServer struct {
	Server *httptest.Server
}

func NewTestServer(t *testing.T, router *gin.Engine) *TestServer {
	t.Helper()
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &TestServer{Server: server}
}

// SendRequest отправляет JSON-запрос и возвращает ответ с телом
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err, "ошибка кодирования JSON для запроса")
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	require.NoError(t, err)

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return ts.do(t, req)
}

// SendForm - application/x-www-form-urlencoded, как шлет платежный провайдер
func (ts *TestServer) SendForm(t *testing.T, path string, form map[string]string) (*http.Response, string) {
	t.Helper()

	values := url.Values{}
	for k, v := range form {
		values.Set(k, v)
	}

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+path, strings.NewReader(values.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return ts.do(t, req)
}

func (ts *TestServer) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()

	res, err := ts.Server.Client().Do(req)
	require.NoError(t, err, "ошибка отправки HTTP-запроса")
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	require.NoError(t, err, "ошибка чтения тела ответа")
	return res, string(resBody)
}
