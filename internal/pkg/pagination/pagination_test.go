package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func paramsFor(t *testing.T, target string) *Params {
	t.Helper()

	app := fiber.New()
	var got *Params
	app.Get("/", func(c *fiber.Ctx) error {
		got = FromRequest(c)
		return c.SendStatus(fiber.StatusOK)
	})
	if _, err := app.Test(httptest.NewRequest("GET", target, nil)); err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return got
}

func TestFromRequestDefaultsAndClamping(t *testing.T) {
	p := paramsFor(t, "/")
	if p.Page != 1 || p.Limit != DefaultLimit || p.Offset != 0 {
		t.Fatalf("unexpected defaults: %+v", p)
	}

	p = paramsFor(t, "/?page=3&limit=15")
	if p.Page != 3 || p.Limit != 15 || p.Offset != 30 {
		t.Fatalf("unexpected params: %+v", p)
	}

	p = paramsFor(t, "/?page=0&limit=-5")
	if p.Page != 1 || p.Limit != DefaultLimit {
		t.Fatalf("invalid values must fall back to defaults: %+v", p)
	}

	p = paramsFor(t, "/?limit=10000")
	if p.Limit != MaxLimit {
		t.Fatalf("limit must be capped at %d, got %d", MaxLimit, p.Limit)
	}
}

func TestNewResponseMeta(t *testing.T) {
	resp := NewResponse([]int{1, 2, 3}, &Params{Page: 2, Limit: 3, Offset: 3}, 7)
	if resp.Meta.TotalPages != 3 {
		t.Fatalf("expected 3 pages for 7 items of 3, got %d", resp.Meta.TotalPages)
	}
	if resp.Meta.Total != 7 || resp.Meta.Page != 2 {
		t.Fatalf("unexpected meta: %+v", resp.Meta)
	}

	resp = NewResponse(nil, &Params{Page: 1, Limit: 20}, 0)
	if resp.Meta.TotalPages != 0 {
		t.Fatalf("empty set has 0 pages, got %d", resp.Meta.TotalPages)
	}
}
