package art

import (
	"errors"
	"testing"
)

func TestMetadataValidate(t *testing.T) {
	good := DefaultMetadata(256, 256)
	if err := good.Validate(); err != nil {
		t.Fatalf("default metadata should validate: %v", err)
	}

	bad := []Metadata{
		{Width: 0, Height: 10, Flag1: UnsetFlag, Flag2: UnsetFlag},
		{Width: 10, Height: -1, Flag1: UnsetFlag, Flag2: UnsetFlag},
		{Width: 10, Height: 10, Flag1: UnsetFlag, Flag2: UnsetFlag, Posterization: true, PosterizationLevel: 1},
		{Width: 10, Height: 10, Flag1: UnsetFlag, Flag2: UnsetFlag, Posterization: true, PosterizationLevel: 300},
		{Width: 10, Height: 10, Flag1: 999, Flag2: UnsetFlag},
	}
	for i, m := range bad {
		err := m.Validate()
		if err == nil {
			t.Errorf("case %d: expected validation error", i)
			continue
		}
		var ce *ConfigurationError
		if !errors.As(err, &ce) {
			t.Errorf("case %d: error type %T, want *ConfigurationError", i, err)
		}
	}
}

func TestDefaultMetadataDefaults(t *testing.T) {
	m := DefaultMetadata(100, 80)
	if !m.Dithering {
		t.Errorf("dithering should default on")
	}
	if m.Posterization {
		t.Errorf("posterization should default off")
	}
	if m.PosterizationLevel != 32 {
		t.Errorf("posterization level = %d, want 32", m.PosterizationLevel)
	}
	if m.Flag1 != UnsetFlag || m.Flag2 != UnsetFlag {
		t.Errorf("flags should default unset")
	}
}

func TestDefaultFlags(t *testing.T) {
	tests := []struct {
		transparent  bool
		w, h         int
		wantCategory byte
		wantType     byte
	}{
		{false, 32, 32, FlagCategoryLegacy, FlagTypeDefault},
		{true, 32, 32, FlagCategoryLegacy, FlagTypeTransparent},
		{false, 400, 32, FlagCategoryLegacy, FlagTypeLarge},
		{false, 32, 400, FlagCategoryLegacy, FlagTypeLarge},
		{true, 400, 400, FlagCategoryLegacy, FlagTypeTransparent},
	}
	for _, tt := range tests {
		f1, f2 := DefaultFlags(tt.transparent, tt.w, tt.h)
		if f1 != tt.wantCategory || f2 != tt.wantType {
			t.Errorf("DefaultFlags(%v,%d,%d) = 0x%02X,0x%02X, want 0x%02X,0x%02X",
				tt.transparent, tt.w, tt.h, f1, f2, tt.wantCategory, tt.wantType)
		}
	}
}

func TestResolveFlagsOverrides(t *testing.T) {
	m := DefaultMetadata(64, 64)
	m.Flag1 = 0x90
	m.Flag2 = 0x12
	f1, f2 := resolveFlags(m, 64, 64)
	if f1 != 0x90 || f2 != 0x12 {
		t.Errorf("resolveFlags = 0x%02X,0x%02X, want explicit overrides", f1, f2)
	}
}
