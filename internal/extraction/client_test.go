package extraction_test

import (
	"context"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagequery/internal/domain"
	"imagequery/internal/extraction"
	"imagequery/internal/port"
)

func testInput() port.ExtractionInput {
	return port.ExtractionInput{
		ImageBytes:   []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10},
		FileName:     "receipt.jpg",
		ContentType:  "image/jpeg",
		SystemPrompt: "",
		UserPrompt:   "What is the total?",
		ModelName:    "Claude 3 Haiku",
		MaxTokens:    1000,
		Temperature:  0.5,
		TopP:         0.7,
	}
}

func TestClient_Extract_SendsMultipartFields(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, http.MethodPost, r.Method)

		reader, err := r.MultipartReader()
		require.NoError(t, err)

		var names []string
		values := map[string]string{}
		for {
			part, err := reader.NextPart()
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
			names = append(names, part.FormName())
			data, err := io.ReadAll(part)
			require.NoError(t, err)
			if part.FormName() == "image" {
				assert.Equal(t, "receipt.jpg", part.FileName())
				assert.Equal(t, "image/jpeg", part.Header.Get("Content-Type"))
				assert.Equal(t, []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}, data)
				continue
			}
			values[part.FormName()] = string(data)
		}

		assert.Equal(t, []string{"image", "user_prompt", "system_prompt", "model_name", "max_tokens", "temperature", "top_p"}, names)
		assert.Equal(t, "What is the total?", values["user_prompt"])
		assert.Equal(t, "", values["system_prompt"])
		assert.Equal(t, "Claude 3 Haiku", values["model_name"])
		assert.Equal(t, "1000", values["max_tokens"])
		assert.Equal(t, "0.5", values["temperature"])
		assert.Equal(t, "0.7", values["top_p"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"extracted_data":{"total":"12.40"},"error":null}`))
	}))
	defer server.Close()

	client := extraction.NewClientWithEndpoint(server.URL)
	out, err := client.Extract(context.Background(), testInput())

	require.NoError(t, err)
	assert.JSONEq(t, `{"total":"12.40"}`, string(out.ExtractedData))
	assert.Equal(t, http.StatusOK, out.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_Extract_NumbersRoundTrip(t *testing.T) {
	tests := []struct {
		name        string
		temperature float64
		topP        float64
		maxTokens   int
	}{
		{name: "slider steps", temperature: 0.1, topP: 0.3, maxTokens: 1},
		{name: "bounds", temperature: 0, topP: 1, maxTokens: 4096},
		{name: "long fraction", temperature: 0.123456789012345, topP: 1e-7, maxTokens: 123456},
		{name: "largest max tokens", temperature: 0.5, topP: 0.7, maxTokens: math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.NoError(t, r.ParseMultipartForm(1<<20))

				temp, err := strconv.ParseFloat(r.FormValue("temperature"), 64)
				require.NoError(t, err)
				topP, err := strconv.ParseFloat(r.FormValue("top_p"), 64)
				require.NoError(t, err)
				maxTokens, err := strconv.Atoi(r.FormValue("max_tokens"))
				require.NoError(t, err)

				assert.Equal(t, tt.temperature, temp)
				assert.Equal(t, tt.topP, topP)
				assert.Equal(t, tt.maxTokens, maxTokens)

				_, _ = w.Write([]byte(`{"extracted_data":{}}`))
			}))
			defer server.Close()

			input := testInput()
			input.Temperature = tt.temperature
			input.TopP = tt.topP
			input.MaxTokens = tt.maxTokens

			_, err := extraction.NewClientWithEndpoint(server.URL).Extract(context.Background(), input)
			require.NoError(t, err)
		})
	}
}

func TestClient_Extract_Responses(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantData   string
		wantErr    error
		wantDetail string
	}{
		{
			name:     "success",
			status:   http.StatusOK,
			body:     `{"extracted_data":{"a":1}}`,
			wantData: `{"a":1}`,
		},
		{
			name:     "success with array data",
			status:   http.StatusOK,
			body:     `{"extracted_data":[1,2,3]}`,
			wantData: `[1,2,3]`,
		},
		{
			name:    "missing extracted_data",
			status:  http.StatusOK,
			body:    `{"result":{"a":1}}`,
			wantErr: domain.ErrUnexpectedResponseFormat,
		},
		{
			name:    "null extracted_data",
			status:  http.StatusOK,
			body:    `{"extracted_data":null,"error":"boom"}`,
			wantErr: domain.ErrUnexpectedResponseFormat,
		},
		{
			name:    "zero extracted_data",
			status:  http.StatusOK,
			body:    `{"extracted_data":0}`,
			wantErr: domain.ErrUnexpectedResponseFormat,
		},
		{
			name:    "empty string extracted_data",
			status:  http.StatusOK,
			body:    `{"extracted_data":""}`,
			wantErr: domain.ErrUnexpectedResponseFormat,
		},
		{
			name:    "false extracted_data",
			status:  http.StatusOK,
			body:    `{"extracted_data":false}`,
			wantErr: domain.ErrUnexpectedResponseFormat,
		},
		{
			name:     "empty object extracted_data",
			status:   http.StatusOK,
			body:     `{"extracted_data":{}}`,
			wantData: `{}`,
		},
		{
			name:     "non-zero number extracted_data",
			status:   http.StatusOK,
			body:     `{"extracted_data":42}`,
			wantData: `42`,
		},
		{
			name:    "body is not JSON",
			status:  http.StatusOK,
			body:    `<html>gateway</html>`,
			wantErr: domain.ErrUnexpectedResponseFormat,
		},
		{
			name:    "2xx other than 200",
			status:  http.StatusCreated,
			body:    `{"extracted_data":{"a":1}}`,
			wantErr: domain.ErrUnexpectedResponseFormat,
		},
		{
			name:       "error with string detail",
			status:     http.StatusBadRequest,
			body:       `{"detail":"bad image"}`,
			wantErr:    domain.ErrServerRejected,
			wantDetail: "bad image",
		},
		{
			name:       "error with structured detail",
			status:     http.StatusUnprocessableEntity,
			body:       `{"detail":[{"loc":["body","top_p"],"msg":"field required"}]}`,
			wantErr:    domain.ErrServerRejected,
			wantDetail: `[{"loc":["body","top_p"],"msg":"field required"}]`,
		},
		{
			name:    "error with empty detail",
			status:  http.StatusBadRequest,
			body:    `{"detail":""}`,
			wantErr: domain.ErrServerRejected,
		},
		{
			name:    "error with zero detail",
			status:  http.StatusBadRequest,
			body:    `{"detail":0}`,
			wantErr: domain.ErrServerRejected,
		},
		{
			name:    "error without detail",
			status:  http.StatusInternalServerError,
			body:    `Internal Server Error`,
			wantErr: domain.ErrServerRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			out, err := extraction.NewClientWithEndpoint(server.URL).Extract(context.Background(), testInput())

			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.JSONEq(t, tt.wantData, string(out.ExtractedData))
				return
			}

			assert.Nil(t, out)
			assert.ErrorIs(t, err, tt.wantErr)
			if errors.Is(tt.wantErr, domain.ErrServerRejected) {
				var serverErr *domain.ServerError
				require.ErrorAs(t, err, &serverErr)
				assert.Equal(t, tt.status, serverErr.StatusCode)
				assert.Equal(t, tt.wantDetail, serverErr.Detail)
			}
		})
	}
}

func TestClient_Extract_NoResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	out, err := extraction.NewClientWithEndpoint(endpoint).Extract(context.Background(), testInput())

	assert.Nil(t, out)
	assert.ErrorIs(t, err, domain.ErrNoResponse)
	assert.Equal(t, domain.MsgNoResponse, domain.DisplayMessage(err))
}

func TestClient_Extract_DefaultsFileNameAndType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		_ = file.Close()

		assert.Equal(t, "image", header.Filename)
		assert.Equal(t, "application/octet-stream", header.Header.Get("Content-Type"))

		_, _ = w.Write([]byte(`{"extracted_data":{"ok":true}}`))
	}))
	defer server.Close()

	input := testInput()
	input.FileName = ""
	input.ContentType = ""

	_, err := extraction.NewClientWithEndpoint(server.URL).Extract(context.Background(), input)
	require.NoError(t, err)
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "0.7", extraction.FormatFloat(0.7))
	assert.Equal(t, "1", extraction.FormatFloat(1))
	assert.Equal(t, "0", extraction.FormatFloat(0))
	a, b := 0.1, 0.2
	assert.Equal(t, "0.30000000000000004", extraction.FormatFloat(a+b))
}

func TestDefaultEndpoint(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:8000/api/extract", extraction.DefaultEndpoint)
}
