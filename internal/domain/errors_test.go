package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"imagequery/internal/domain"
)

func TestDisplayMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "server detail is surfaced verbatim",
			err:  &domain.ServerError{StatusCode: 400, Detail: "bad image"},
			want: "Error: bad image",
		},
		{
			name: "server error without detail",
			err:  &domain.ServerError{StatusCode: 500},
			want: domain.MsgUnknownServer,
		},
		{
			name: "wrapped unexpected format",
			err:  fmt.Errorf("%w: extracted_data missing", domain.ErrUnexpectedResponseFormat),
			want: domain.MsgUnexpectedFormat,
		},
		{
			name: "no response",
			err:  fmt.Errorf("%w: connection refused", domain.ErrNoResponse),
			want: domain.MsgNoResponse,
		},
		{
			name: "anything else counts as no response",
			err:  errors.New("building multipart body: boom"),
			want: domain.MsgNoResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.DisplayMessage(tt.err))
		})
	}
}

func TestServerError_Unwrap(t *testing.T) {
	err := fmt.Errorf("submit: %w", &domain.ServerError{StatusCode: 422, Detail: "x"})

	assert.ErrorIs(t, err, domain.ErrServerRejected)

	var serverErr *domain.ServerError
	assert.True(t, errors.As(err, &serverErr))
	assert.Equal(t, 422, serverErr.StatusCode)
	assert.Contains(t, serverErr.Error(), "status 422")
}

func TestParseModelTier(t *testing.T) {
	tests := []struct {
		in      string
		want    domain.ModelTier
		wantErr bool
	}{
		{in: "haiku", want: domain.ModelHaiku},
		{in: "Sonnet", want: domain.ModelSonnet},
		{in: "Claude 3 Haiku", want: domain.ModelHaiku},
		{in: "Claude 3.5 Sonnet", want: domain.ModelSonnet},
		{in: "opus", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := domain.ParseModelTier(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrUnknownModel)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModelTier_Label(t *testing.T) {
	assert.Equal(t, "Claude 3 Haiku", domain.ModelHaiku.Label())
	assert.Equal(t, "Claude 3.5 Sonnet", domain.ModelSonnet.Label())
	assert.Empty(t, domain.ModelTier("opus").Label())
}
