package auth

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base32"
	"fmt"
	"strings"
	"time"
)

// TOTP 一次性验证码（RFC 4226 / 6238）
//
// 共享密钥为 base32 编码字符串，时间步长 30 秒，6 位数字码。
// 用于密码重置流程，校验窗口为 ±window 个时间步。

const totpPeriod = 30

// GenerateOTP 生成当前时间步的一次性验证码
func GenerateOTP(secretB32 string, t time.Time) (string, error) {
	secret, err := decodeTOTPSecret(secretB32)
	if err != nil {
		return "", err
	}
	return hotp(secret, t.Unix()/totpPeriod), nil
}

// VerifyOTP 在 ±window 个时间步内校验一次性验证码
func VerifyOTP(secretB32, code string, t time.Time, window int) bool {
	secret, err := decodeTOTPSecret(secretB32)
	if err != nil {
		return false
	}
	code = strings.TrimSpace(code)
	if len(code) != 6 {
		return false
	}
	counter := t.Unix() / totpPeriod
	for c := counter - int64(window); c <= counter+int64(window); c++ {
		if hmac.Equal([]byte(hotp(secret, c)), []byte(code)) {
			return true
		}
	}
	return false
}

func decodeTOTPSecret(secretB32 string) ([]byte, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(secretB32, " ", ""))
	secret, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(strings.TrimRight(normalized, "="))
	if err != nil {
		return nil, fmt.Errorf("invalid totp secret: %w", err)
	}
	return secret, nil
}

// hotp HOTP(K, C)，HMAC-SHA1 动态截断取 6 位十进制
func hotp(secret []byte, counter int64) string {
	var msg [8]byte
	for i := 7; i >= 0; i-- {
		msg[i] = byte(counter & 0xff)
		counter >>= 8
	}
	m := hmac.New(sha1.New, secret)
	m.Write(msg[:])
	sum := m.Sum(nil)
	offset := int(sum[len(sum)-1] & 0x0f)
	bin := (int(sum[offset])&0x7f)<<24 | int(sum[offset+1])<<16 | int(sum[offset+2])<<8 | int(sum[offset+3])
	return fmt.Sprintf("%06d", bin%1000000)
}
