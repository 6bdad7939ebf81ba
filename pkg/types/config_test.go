package types

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty backend returns ErrBackendEmpty",
			config:  Config{Backend: "", DataDir: "/tmp/data"},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend returns ErrBackendUnknown",
			config:  Config{Backend: "postgres", DataDir: "/tmp/data"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:    "valid sqlite config",
			config:  Config{Backend: "sqlite", DataDir: "/tmp/data"},
			wantErr: nil,
		},
		{
			name:    "memory backend needs no DataDir",
			config:  Config{Backend: "memory"},
			wantErr: nil,
		},
		{
			name:    "namespace with a dash is rejected",
			config:  Config{Backend: "sqlite", Namespace: "my-app"},
			wantErr: ErrInvalidScope,
		},
		{
			name:    "database starting with a digit is rejected",
			config:  Config{Backend: "sqlite", Database: "1st"},
			wantErr: ErrInvalidScope,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{Backend: "sqlite"}.WithDefaults()
	if cfg.Namespace != DefaultNamespace || cfg.Database != DefaultDatabase {
		t.Fatalf("expected defaults, got %+v", cfg)
	}

	cfg = Config{Backend: "sqlite", Namespace: "app", Database: "dev"}.WithDefaults()
	if cfg.Namespace != "app" || cfg.Database != "dev" {
		t.Fatalf("explicit scope overwritten: %+v", cfg)
	}
}
