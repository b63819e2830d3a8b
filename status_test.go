package gemini

import "testing"

func TestStatusCategory(t *testing.T) {
	tests := []struct {
		name     string
		status   Status
		expected StatusCategory
	}{
		{"input", StatusInput, CategoryInput},
		{"sensitive input", StatusSensitiveInput, CategoryInput},
		{"success", StatusSuccess, CategorySuccess},
		{"redirect temporary", StatusRedirectTemporary, CategoryRedirect},
		{"redirect permanent", StatusRedirectPermanent, CategoryRedirect},
		{"temporary failure", StatusTemporaryFailure, CategoryTemporaryFailure},
		{"slow down", StatusSlowDown, CategoryTemporaryFailure},
		{"permanent failure", StatusPermanentFailure, CategoryPermanentFailure},
		{"not found", StatusNotFound, CategoryPermanentFailure},
		{"bad request", StatusBadRequest, CategoryPermanentFailure},
		{"client certificate required", StatusClientCertificateRequired, CategoryClientCertificateRequired},
		{"certificate not authorized", StatusCertificateNotAuthorized, CategoryClientCertificateRequired},
		{"certificate not valid", StatusCertificateNotValid, CategoryClientCertificateRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.Category(); got != tt.expected {
				t.Errorf("expected category %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestStatusIsSuccess(t *testing.T) {
	if !StatusSuccess.IsSuccess() {
		t.Errorf("expected StatusSuccess to be a success status")
	}
	if StatusNotFound.IsSuccess() {
		t.Errorf("expected StatusNotFound not to be a success status")
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status   Status
		expected string
	}{
		{StatusInput, "10"},
		{StatusSuccess, "20"},
		{StatusNotFound, "51"},
		{StatusCertificateNotValid, "62"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, got)
		}
	}
}

func TestValid(t *testing.T) {
	for code := range allStatuses {
		if !Valid(code) {
			t.Errorf("expected code %d to be valid", code)
		}
	}
	invalid := []uint8{0, 1, 9, 21, 45, 54, 63, 99}
	for _, code := range invalid {
		if Valid(code) {
			t.Errorf("expected code %d to be invalid", code)
		}
	}
}
