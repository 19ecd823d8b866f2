package integration

import (
	"bytes"
	"net/http"
	"testing"
)

func TestIntegration_WebhookValidation(t *testing.T) {
	waitReady(t)
	u := baseURL()

	cases := []struct {
		name, body, ctype string
		want              int
	}{
		{"malformed_json", `{"update_id":`, "application/json", http.StatusBadRequest},
		{"wrong_content_type", `{}`, "text/plain", http.StatusUnsupportedMediaType},
		{"no_message", `{"update_id": 5}`, "application/json", http.StatusOK},
		{"empty_text", `{"update_id": 6, "message": {"message_id": 1, "from": {"id": 1}, "chat": {"id": 1}, "date": 1, "text": ""}}`, "application/json", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := http.NewRequest(http.MethodPost, u+"/webhook/telegram", bytes.NewBufferString(tc.body))
			r.Header.Set("Content-Type", tc.ctype)
			resp, err := http.DefaultClient.Do(r)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tc.want {
				t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, resp.StatusCode)
			}
		})
	}
}

func TestIntegration_WebhookGetRejected(t *testing.T) {
	waitReady(t)
	resp, err := http.Get(baseURL() + "/webhook/telegram")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}
