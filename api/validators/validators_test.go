package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

type lineRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity"`
}

type orderRequest struct {
	UserID uuid.UUID     `json:"userId" validate:"required"`
	Items  []lineRequest `json:"items" validate:"dive"`
}

func TestDecodeJSONBody(t *testing.T) {
	body := `{"userId":"` + uuid.NewString() + `","items":[{"productId":"` + uuid.NewString() + `","quantity":3}]}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var payload orderRequest
	if err := DecodeJSONBody(req, &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(payload.Items) != 1 || payload.Items[0].Quantity != 3 {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"userId":"`+uuid.NewString()+`","coupon":"FREE"}`))
	var payload orderRequest
	err := DecodeJSONBody(req, &payload)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyRejectsEmptyAndTrailingInput(t *testing.T) {
	cases := map[string]string{
		"empty":    "",
		"trailing": `{"userId":"` + uuid.NewString() + `"} {"userId":"` + uuid.NewString() + `"}`,
		"oversize": `{"userId":"` + strings.Repeat("a", maxBodyBytes) + `"}`,
	}
	for name, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		var payload orderRequest
		if err := DecodeJSONBody(req, &payload); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestDecodeJSONBodyReportsNestedFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"items":[{"quantity":1}]}`))
	var payload orderRequest
	err := DecodeJSONBody(req, &payload)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details := typed.Details().(map[string]string)
	if details["userId"] != "is required" {
		t.Fatalf("expected userId detail, got %v", details)
	}
	if details["items[0].productId"] != "is required" {
		t.Fatalf("expected nested productId detail, got %v", details)
	}
}

func TestParsePagination(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=3&pageSize=25&orderBy=date%20desc", nil)
	params, err := ParsePagination(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params.Page != 3 || params.PageSize != 25 || params.OrderBy != "date desc" {
		t.Fatalf("unexpected params %+v", params)
	}

	params, err = ParsePagination(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil || params.Page != 1 || params.PageSize != 10 {
		t.Fatalf("expected defaults, got %+v (%v)", params, err)
	}

	for _, query := range []string{"?page=0", "?pageSize=101", "?page=abc"} {
		if _, err := ParsePagination(httptest.NewRequest(http.MethodGet, "/"+query, nil)); err == nil {
			t.Fatalf("expected %s to fail", query)
		}
	}
}

func TestParseQueryFilters(t *testing.T) {
	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/?userId="+id.String()+"&isCancelled=true&title=*shirt*", nil)

	got, err := ParseQueryUUID(req, "userId")
	if err != nil || got == nil || *got != id {
		t.Fatalf("unexpected uuid %v (%v)", got, err)
	}
	cancelled, err := ParseQueryBool(req, "isCancelled")
	if err != nil || cancelled == nil || !*cancelled {
		t.Fatalf("unexpected bool %v (%v)", cancelled, err)
	}
	if missing, err := ParseQueryBool(req, "other"); err != nil || missing != nil {
		t.Fatalf("expected nil for missing key, got %v (%v)", missing, err)
	}
	if _, err := ParseQueryUUID(httptest.NewRequest(http.MethodGet, "/?userId=nope", nil), "userId"); err == nil {
		t.Fatal("expected invalid uuid error")
	}

	values := QueryValues(req)
	if values["title"] != "*shirt*" || len(values) != 3 {
		t.Fatalf("unexpected values %v", values)
	}
}

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"Bearer abc.def": "abc.def",
		"bearer  xyz":    "xyz",
		"raw-token":      "raw-token",
	}
	for in, want := range cases {
		got, err := BearerToken(in)
		if err != nil || got != want {
			t.Fatalf("BearerToken(%q) = %q, %v", in, got, err)
		}
	}
	for _, in := range []string{"", "Bearer ", "Bearer a b"} {
		if _, err := BearerToken(in); err == nil {
			t.Fatalf("expected %q to be rejected", in)
		}
	}
}
