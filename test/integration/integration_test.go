package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

func baseURL() string {
	if v := os.Getenv("BASE_URL"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

func waitReady(t *testing.T) {
	t.Helper()
	url := baseURL() + "/healthz"
	deadline := time.Now().Add(20 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			return
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("service not ready")
}

func webhookUpdate(chatID, userID int64, text string) []byte {
	return []byte(fmt.Sprintf(`{"update_id": 1, "message": {"message_id": 1, "from": {"id": %d}, "chat": {"id": %d}, "date": 1, "text": %q}}`, userID, chatID, text))
}

func postUpdate(t *testing.T, body []byte) *http.Response {
	t.Helper()
	r, err := http.NewRequest(http.MethodPost, baseURL()+"/webhook/telegram", bytes.NewBuffer(body))
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(r)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

type ack struct {
	Status      string `json:"status"`
	RequestID   string `json:"request_id"`
	Sequence    uint64 `json:"sequence"`
	ChatID      int64  `json:"chat_id"`
	ReceivedAt  string `json:"received_at"`
	QueueDepth  int    `json:"queue_depth"`
	BacklogSize int    `json:"backlog_size"`
	WorkerCount int    `json:"worker_count"`
}

func TestIntegration_HealthzOK(t *testing.T) {
	waitReady(t)
	resp, err := http.Get(baseURL() + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestIntegration_RootStatus(t *testing.T) {
	waitReady(t)
	resp, err := http.Get(baseURL() + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "healthy" {
		t.Fatalf("unexpected status body: %v", body)
	}
}

func TestIntegration_OpenAPIServed(t *testing.T) {
	waitReady(t)
	resp, err := http.Get(baseURL() + "/openapi.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestIntegration_DocsServed(t *testing.T) {
	waitReady(t)
	resp, err := http.Get(baseURL() + "/docs")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	buf := make([]byte, 1024)
	n, _ := resp.Body.Read(buf)
	if !strings.Contains(string(buf[:n]), "swagger-ui") {
		t.Fatalf("expected swagger-ui in docs page")
	}
}

func TestIntegration_WebhookAccepted(t *testing.T) {
	waitReady(t)
	resp := postUpdate(t, webhookUpdate(1001, 1001, "cari indomie"))
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}
	var ac ack
	if err := json.NewDecoder(resp.Body).Decode(&ac); err != nil {
		t.Fatal(err)
	}
	if ac.Status != "accepted" || ac.ChatID != 1001 || ac.Sequence == 0 || ac.RequestID == "" {
		t.Fatalf("unexpected ack: %+v", ac)
	}
}

func TestIntegration_NonMessageUpdateDropped(t *testing.T) {
	waitReady(t)
	resp := postUpdate(t, []byte(`{"update_id": 99}`))
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestIntegration_MetricsProgress(t *testing.T) {
	waitReady(t)
	for i := 0; i < 10; i++ {
		resp := postUpdate(t, webhookUpdate(1002, 1002, fmt.Sprintf("cari produk-%d", i)))
		if resp.StatusCode != http.StatusAccepted {
			t.Fatalf("expected 202, got %d", resp.StatusCode)
		}
		_ = resp.Body.Close()
	}
	time.Sleep(2 * time.Second)

	resp, err := http.Get(baseURL() + "/debug/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var m map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatal(err)
	}
	enq, _ := m["messages_enqueued"].(float64)
	proc, _ := m["messages_processed"].(float64)
	if enq < 10 {
		t.Fatalf("expected at least 10 enqueued, got %v", enq)
	}
	if proc < enq {
		t.Fatalf("expected backlog drained, enqueued=%v processed=%v", enq, proc)
	}
}
