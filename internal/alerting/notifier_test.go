package alerting

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"portfolio-alerts/internal/alert"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testNotification(t *testing.T) Notification {
	t.Helper()
	a, err := alert.New("btc", alert.TypeAbove, decimal.NewFromInt(50000), "USD")
	if err != nil {
		t.Fatalf("构造告警失败: %v", err)
	}
	triggered := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a.Status = alert.StatusTriggered
	a.TriggeredAt = &triggered
	return Notification{Alert: a, Price: decimal.NewFromInt(50100), Currency: "USD"}
}

func TestTelegramNotifierSuccess(t *testing.T) {
	received := make(map[string]string)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "sendMessage") {
			t.Fatalf("路径应包含 sendMessage, 实际 %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("解析请求体失败: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer srv.Close()

	notifier := NewTelegramNotifier("token", "chat", srv.URL, time.Second, testLogger())
	if err := notifier.Notify(context.Background(), testNotification(t)); err != nil {
		t.Fatalf("Telegram Notify 应成功: %v", err)
	}

	if received["chat_id"] != "chat" {
		t.Fatalf("chat_id 不正确: %#v", received)
	}
	if !strings.Contains(received["text"], "BTC") {
		t.Fatalf("消息应包含币种符号: %q", received["text"])
	}
	if !strings.Contains(received["text"], "50100.00") {
		t.Fatalf("消息应包含观测价格: %q", received["text"])
	}
}

func TestTelegramNotifierOKFalse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false})
	}))
	defer srv.Close()

	notifier := NewTelegramNotifier("token", "chat", srv.URL, time.Second, testLogger())
	if err := notifier.Notify(context.Background(), testNotification(t)); err == nil {
		t.Fatal("ok=false 应报错")
	}
}

func TestTelegramNotifierHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	notifier := NewTelegramNotifier("token", "chat", srv.URL, time.Second, testLogger())
	if err := notifier.Notify(context.Background(), testNotification(t)); err == nil {
		t.Fatal("HTTP 403 应报错")
	}
}

func TestRenderMessageWithoutTriggerTime(t *testing.T) {
	a, err := alert.New("eth", alert.TypeBelow, decimal.NewFromInt(2000), "EUR")
	if err != nil {
		t.Fatalf("构造告警失败: %v", err)
	}

	text := renderMessage(Notification{Alert: a, Price: decimal.NewFromInt(1999), Currency: "EUR"})
	if strings.Contains(text, "Triggered:") {
		t.Fatalf("未触发的告警不应包含触发时间: %q", text)
	}
	if !strings.Contains(text, "Target: 2000.00 EUR") {
		t.Fatalf("消息缺少目标价: %q", text)
	}
}
