package errors

import (
	"database/sql"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	err := New(CodeNotFound, "plan missing")
	if got := err.Error(); got != "[NOT_FOUND] plan missing" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := Wrap(sql.ErrNoRows, CodeDatabaseError, "query")
	if got := wrapped.Error(); got != "[DATABASE_ERROR] query: "+sql.ErrNoRows.Error() {
		t.Errorf("Error() = %q", got)
	}
}

func TestIsThroughWrapping(t *testing.T) {
	base := NoFeasibleSolution("coverage", "2026-06-01: need 2 T")
	err := fmt.Errorf("generate: %w", base)

	if !Is(err, CodeNoFeasibleSolution) {
		t.Error("Is should see wrapped AppError")
	}
	if Is(err, CodeInternal) {
		t.Error("Is matched wrong code")
	}
	if GetCode(err) != CodeNoFeasibleSolution {
		t.Errorf("GetCode = %s", GetCode(err))
	}
	if GetDetails(err) != "2026-06-01: need 2 T" {
		t.Errorf("GetDetails = %q", GetDetails(err))
	}
	if GetHTTPStatus(err) != http.StatusUnprocessableEntity {
		t.Errorf("GetHTTPStatus = %d", GetHTTPStatus(err))
	}
}

func TestPlainError(t *testing.T) {
	err := fmt.Errorf("boom")
	if GetCode(err) != CodeUnknown {
		t.Errorf("GetCode = %s", GetCode(err))
	}
	if GetHTTPStatus(err) != http.StatusInternalServerError {
		t.Errorf("GetHTTPStatus = %d", GetHTTPStatus(err))
	}
	if GetDetails(err) != "" {
		t.Errorf("GetDetails = %q", GetDetails(err))
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{InvalidInput("start_date", "empty"), http.StatusBadRequest},
		{MissingShiftTypes("N"), http.StatusBadRequest},
		{MissingTarget("MA1"), http.StatusBadRequest},
		{InvalidPreference("MA1", "min > max"), http.StatusBadRequest},
		{NotFound("plan", "x"), http.StatusNotFound},
		{New(CodeTimeout, "t"), http.StatusGatewayTimeout},
		{ConstraintViolation("night_rest", "MA1"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if tt.err.HTTPStatus != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.err.Code, tt.err.HTTPStatus, tt.want)
		}
	}
}

func TestInvalidPreferenceField(t *testing.T) {
	err := InvalidPreference("MA3", "max_night < min_night")
	if err.Fields["kennung"] != "MA3" {
		t.Errorf("fields = %v", err.Fields)
	}
}

func TestValidationErrors(t *testing.T) {
	var ve ValidationErrors
	if ve.HasErrors() {
		t.Fatal("empty collection reports errors")
	}
	if ve.Error() != "验证失败" {
		t.Errorf("Error() = %q", ve.Error())
	}

	ve.Add("start_date", "required")
	ve.Add("employees", "empty")
	if !ve.HasErrors() {
		t.Fatal("HasErrors = false")
	}

	app := ve.ToAppError()
	if app.Code != CodeValidationFail || app.HTTPStatus != http.StatusBadRequest {
		t.Errorf("app = %+v", app)
	}
	if len(app.Fields) != 2 || app.Fields["employees"] != "empty" {
		t.Errorf("fields = %v", app.Fields)
	}
}
