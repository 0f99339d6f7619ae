package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"resto-reviews-backend/internal/models"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("restaurant 7: %w", models.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("author or admin required: %w", models.ErrForbidden), http.StatusForbidden},
		{fmt.Errorf("note out of range: %w", models.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("bad match expression: %w", models.ErrQuery), http.StatusBadRequest},
		{fmt.Errorf("presign failed: %w", models.ErrStorage), http.StatusInternalServerError},
		{fmt.Errorf("something else"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := statusFor(c.err); got != c.want {
			t.Fatalf("statusFor(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}
