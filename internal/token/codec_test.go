package token

import (
	"errors"
	"testing"
	"time"
)

func newTestConfig() *Config {
	return &Config{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
	}
}

func newTestCodec(t *testing.T) *Codec {
	t.Helper()

	codec, err := NewCodec(newTestConfig())
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}
	return codec
}

func TestCodecRoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	for _, kind := range []Kind{KindAccess, KindRefresh} {
		t.Run(kind.String(), func(t *testing.T) {
			tokenString, err := codec.Issue("user-42", kind)
			if err != nil {
				t.Fatalf("Issue failed: %v", err)
			}

			claims, err := codec.Decode(tokenString, kind)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if claims.Subject != "user-42" {
				t.Errorf("expected subject user-42, got %s", claims.Subject)
			}
			if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
				t.Error("expected expiry in the future")
			}
		})
	}
}

func TestCodecExpiredToken(t *testing.T) {
	codec := newTestCodec(t)

	tokenString, err := codec.issue("user-42", KindAccess, -time.Minute)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	_, err = codec.Decode(tokenString, KindAccess)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
	if errors.Is(err, ErrInvalidToken) {
		t.Error("expired token must not be classified as invalid")
	}
}

func TestCodecSecretIsolation(t *testing.T) {
	codec := newTestCodec(t)

	accessToken, err := codec.Issue("user-42", KindAccess)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	refreshToken, err := codec.Issue("user-42", KindRefresh)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// 跨密钥验证必须失败，且归类为签名非法而不是过期
	if _, err := codec.Decode(accessToken, KindRefresh); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("access token verified under refresh secret: %v", err)
	}
	if _, err := codec.Decode(refreshToken, KindAccess); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("refresh token verified under access secret: %v", err)
	}
}

func TestCodecMalformedToken(t *testing.T) {
	codec := newTestCodec(t)

	for _, tokenString := range []string{"", "garbage", "a.b.c"} {
		if _, err := codec.Decode(tokenString, KindAccess); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("token %q: expected ErrInvalidToken, got %v", tokenString, err)
		}
	}
}

func TestCodecDecodeUnverified(t *testing.T) {
	codec := newTestCodec(t)

	// 已过期的 token 也能提取 subject，用于缓存定位
	tokenString, err := codec.issue("user-42", KindAccess, -time.Minute)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := codec.DecodeUnverified(tokenString)
	if err != nil {
		t.Fatalf("DecodeUnverified failed: %v", err)
	}
	if claims.Subject != "user-42" {
		t.Errorf("expected subject user-42, got %s", claims.Subject)
	}
}

func TestNewCodecValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr error
	}{
		{
			name:    "nil config",
			config:  nil,
			wantErr: ErrEmptySecret,
		},
		{
			name:    "empty secrets",
			config:  &Config{},
			wantErr: ErrEmptySecret,
		},
		{
			name:    "equal secrets",
			config:  &Config{AccessSecret: "same", RefreshSecret: "same"},
			wantErr: ErrSecretsEqual,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCodec(tt.config)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	codec := newTestCodec(t)

	if got := codec.config.SigningMethod; got != "HS256" {
		t.Errorf("expected default signing method HS256, got %s", got)
	}
	if got := codec.config.GetAccessTTL(); got != 24*time.Hour {
		t.Errorf("expected default access ttl 24h, got %s", got)
	}
	if got := codec.config.GetRefreshTTL(); got != 30*24*time.Hour {
		t.Errorf("expected default refresh ttl 720h, got %s", got)
	}
}
