package configs

import (
	"slices"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORE_DRIVER", "ALLOWED_TERMS", "TELEGRAM_CHAT_ID", "SWEEP_CRON", "DB_MAX_CONNS", "DB_MAX_CONN_LIFETIME"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Store.Driver != DriverFile {
		t.Errorf("Driver = %q, want %q", cfg.Store.Driver, DriverFile)
	}
	if !slices.Equal(cfg.Ledger.AllowedTerms, []int{7, 15, 30, 60, 90, 180, 365}) {
		t.Errorf("AllowedTerms = %v", cfg.Ledger.AllowedTerms)
	}
	if cfg.Telegram.ChatID != 0 {
		t.Errorf("ChatID = %d, want 0", cfg.Telegram.ChatID)
	}
	if cfg.Database.MaxConns != 4 || cfg.Database.MaxConnLifetime != time.Hour {
		t.Errorf("Database = %+v, want 4 conns and 1h lifetime", cfg.Database)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Redis")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")
	t.Setenv("GO_ENV", "production")
	t.Setenv("DB_MAX_CONNS", "8")
	t.Setenv("DB_MAX_CONN_LIFETIME", "bogus")

	cfg := Load()
	if cfg.Store.Driver != DriverRedis {
		t.Errorf("Driver = %q, want %q", cfg.Store.Driver, DriverRedis)
	}
	if cfg.Telegram.ChatID != -100123 {
		t.Errorf("ChatID = %d, want -100123", cfg.Telegram.ChatID)
	}
	if cfg.Database.MaxConns != 8 {
		t.Errorf("MaxConns = %d, want 8", cfg.Database.MaxConns)
	}
	if cfg.Database.MaxConnLifetime != time.Hour {
		t.Errorf("MaxConnLifetime = %v, want fallback 1h", cfg.Database.MaxConnLifetime)
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false, want true")
	}
}

func TestParseTerms(t *testing.T) {
	testCases := []struct {
		raw  string
		want []int
	}{
		{raw: "7,30", want: []int{7, 30}},
		{raw: " 7 , 15 ,", want: []int{7, 15}},
		{raw: "7,abc,-3,0,90", want: []int{7, 90}},
		{raw: "", want: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			if got := parseTerms(tc.raw); !slices.Equal(got, tc.want) {
				t.Errorf("parseTerms(%q) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}
