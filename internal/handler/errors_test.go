package handler

import (
	"Go_Assets/internal/service"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: name", service.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("%w: folder", service.ErrNotFound), http.StatusNotFound},
		{service.ErrRecipientNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: dup", service.ErrConflict), http.StatusConflict},
		{service.ErrQuotaExceeded, http.StatusInsufficientStorage},
		{fmt.Errorf("%w: minio", service.ErrUpstream), http.StatusBadGateway},
		{errors.New("driver: bad connection"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusOf(tc.err), tc.err.Error())
	}
}
