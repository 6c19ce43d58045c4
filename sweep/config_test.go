package sweep

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() (*Config, Dimensions) {
	return &Config{
		NblockZ:         2,
		NoctantPerBlock: 2,
		Nsemiblock:      2,
		NthreadE:        1,
		NProcX:          1,
		NProcY:          1,
	}, Dimensions{NX: 4, NY: 4, NZ: 4, NE: 1, NM: 4, NA: 4}
}

func TestConfigValidateAcceptsValidConfig(t *testing.T) {
	cfg, dims := validConfig()
	assert.NoError(t, cfg.Validate(dims))
}

func TestConfigValidateRejectsNonDivisibleNblockZ(t *testing.T) {
	cfg, dims := validConfig()
	cfg.NblockZ = 3
	if err := cfg.Validate(dims); err == nil {
		t.Errorf("expected error when nz is not divisible by nblock_z")
	}
}

func TestConfigValidateRejectsNonPowerOfTwoNsemiblock(t *testing.T) {
	cfg, dims := validConfig()
	cfg.Nsemiblock = 3
	if err := cfg.Validate(dims); err == nil {
		t.Errorf("expected error for non-power-of-two nsemiblock")
	}
}

func TestConfigValidateRejectsBadThreadE(t *testing.T) {
	cfg, dims := validConfig()
	cfg.NthreadE = 0
	if err := cfg.Validate(dims); err == nil {
		t.Errorf("expected error for nthread_e=0")
	}
	cfg.NthreadE = dims.NE + 1
	if err := cfg.Validate(dims); err == nil {
		t.Errorf("expected error for nthread_e > ne")
	}
}

func TestNeedsAtomicUpdate(t *testing.T) {
	cfg, _ := validConfig()
	cfg.Nsemiblock = 1
	cfg.NoctantPerBlock = 2
	assert.True(t, cfg.needsAtomicUpdate(), "nsemiblock < noctant_per_block requires atomic updates")

	cfg.Nsemiblock = 2
	assert.False(t, cfg.needsAtomicUpdate(), "nsemiblock == noctant_per_block needs no atomic updates")
}
