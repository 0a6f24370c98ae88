package auth

import (
	"testing"
	"time"
)

// rfcSecret 是 RFC 6238 附录 B 的测试密钥 "12345678901234567890" 的 base32 编码
const rfcSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

// TestGenerateOTP_RFC6238 对照 RFC 6238 附录 B 的 SHA-1 测试向量
// （8 位向量取后 6 位）
func TestGenerateOTP_RFC6238(t *testing.T) {
	tests := []struct {
		unix     int64
		expected string
	}{
		{59, "287082"},
		{1111111109, "081804"},
		{1111111111, "050471"},
		{1234567890, "005924"},
		{2000000000, "279037"},
	}

	for _, tt := range tests {
		code, err := GenerateOTP(rfcSecret, time.Unix(tt.unix, 0))
		if err != nil {
			t.Fatalf("GenerateOTP: %v", err)
		}
		if code != tt.expected {
			t.Errorf("GenerateOTP(t=%d) = %s, want %s", tt.unix, code, tt.expected)
		}
	}
}

func TestVerifyOTP_Window(t *testing.T) {
	now := time.Unix(1700000000, 0)
	code, err := GenerateOTP(rfcSecret, now)
	if err != nil {
		t.Fatalf("GenerateOTP: %v", err)
	}

	// 同一时间步
	if !VerifyOTP(rfcSecret, code, now, 0) {
		t.Error("code should verify in its own step")
	}
	// 5 个时间步之后仍在 ±5 窗口内
	if !VerifyOTP(rfcSecret, code, now.Add(5*totpPeriod*time.Second), 5) {
		t.Error("code should verify within the window")
	}
	// 超出窗口
	if VerifyOTP(rfcSecret, code, now.Add(6*totpPeriod*time.Second), 5) {
		t.Error("code must not verify outside the window")
	}
}

func TestVerifyOTP_Malformed(t *testing.T) {
	now := time.Now()
	if VerifyOTP(rfcSecret, "12345", now, 5) {
		t.Error("short code must not verify")
	}
	if VerifyOTP(rfcSecret, "", now, 5) {
		t.Error("empty code must not verify")
	}
	if VerifyOTP("not base32!!", "123456", now, 5) {
		t.Error("bad secret must not verify")
	}
}

func TestVerifyOTP_SecretNormalization(t *testing.T) {
	now := time.Unix(1700000000, 0)
	code, err := GenerateOTP(rfcSecret, now)
	if err != nil {
		t.Fatalf("GenerateOTP: %v", err)
	}
	// 小写、带空格的密钥等价
	if !VerifyOTP("gezd gnbv gy3t qojq gezd gnbv gy3t qojq", code, now, 0) {
		t.Error("normalized secret should produce the same codes")
	}
}
