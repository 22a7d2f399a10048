package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMediaValidateReportsPerFileResults(t *testing.T) {
	handler := MediaValidate(nil, nil)

	body := `{"files":[
		{"name":"front.jpg","size_bytes":1024},
		{"name":"clip.mov","size_bytes":2048},
		{"name":"notes.txt","size_bytes":10},
		{"name":"huge.png","size_bytes":20971521}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/media/validate", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data []fileValidationResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 4 {
		t.Fatalf("expected 4 results got %d", len(envelope.Data))
	}

	if !envelope.Data[0].Valid || envelope.Data[0].MediaType != "image" {
		t.Fatalf("expected front.jpg to validate as image: %+v", envelope.Data[0])
	}
	if !envelope.Data[1].Valid || envelope.Data[1].MediaType != "video" {
		t.Fatalf("expected clip.mov to validate as video: %+v", envelope.Data[1])
	}
	if envelope.Data[2].Valid || envelope.Data[2].Reason == "" {
		t.Fatalf("expected notes.txt to be rejected with a reason: %+v", envelope.Data[2])
	}
	if envelope.Data[3].Valid {
		t.Fatalf("expected oversized png to be rejected: %+v", envelope.Data[3])
	}
}

func TestMediaValidateRequiresFiles(t *testing.T) {
	handler := MediaValidate(nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/media/validate", strings.NewReader(`{"files":[]}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
