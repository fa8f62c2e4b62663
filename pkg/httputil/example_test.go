package httputil_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/matzehuels/floatplace/pkg/errors"
	"github.com/matzehuels/floatplace/pkg/httputil"
)

func ExampleWriteError() {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/position", nil)

	httputil.WriteError(rec, req, errors.New(errors.ErrCodeInvalidPlacement, "unknown placement %q", "middle"))

	fmt.Println(rec.Code)
	fmt.Print(rec.Body.String())
	// Output:
	// 400
	// {"error":{"code":"INVALID_PLACEMENT","message":"unknown placement \"middle\""}}
}
