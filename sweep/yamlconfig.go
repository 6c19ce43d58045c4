package sweep

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML shape a sweep run is configured from: Dimensions
// and Config flattened into one document, plus the quantities model
// selection. KnownFields(true) below means a typo'd key fails loudly
// instead of silently using a default.
type FileConfig struct {
	NX int `yaml:"nx"`
	NY int `yaml:"ny"`
	NZ int `yaml:"nz"`
	NE int `yaml:"ne"`
	NM int `yaml:"nm"`
	NA int `yaml:"na"`

	NblockZ         int  `yaml:"nblock_z"`
	NoctantPerBlock int  `yaml:"noctant_per_block"`
	Nsemiblock      int  `yaml:"nsemiblock"`
	NthreadE        int  `yaml:"nthread_e"`
	AsyncComm       bool `yaml:"async_comm"`
	NProcX          int  `yaml:"nproc_x"`
	NProcY          int  `yaml:"nproc_y"`

	Quantities string  `yaml:"quantities"` // "stub" or "attenuation"
	SigmaT     float64 `yaml:"sigma_t"`
	Source     float64 `yaml:"source"`
}

// LoadConfigYAML reads and strictly decodes a sweep run definition from
// path.
func LoadConfigYAML(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sweep: reading config %s: %w", path, err)
	}

	var fc FileConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&fc); err != nil {
		return nil, fmt.Errorf("sweep: parsing config %s: %w", path, err)
	}
	return &fc, nil
}

// Dimensions extracts the problem Dimensions this file describes.
func (fc *FileConfig) Dimensions() Dimensions {
	return Dimensions{NX: fc.NX, NY: fc.NY, NZ: fc.NZ, NE: fc.NE, NM: fc.NM, NA: fc.NA}
}

// Config extracts the engine Config this file describes.
func (fc *FileConfig) Config() *Config {
	return &Config{
		NblockZ:         fc.NblockZ,
		NoctantPerBlock: fc.NoctantPerBlock,
		Nsemiblock:      fc.Nsemiblock,
		NthreadE:        fc.NthreadE,
		AsyncComm:       fc.AsyncComm,
		NProcX:          fc.NProcX,
		NProcY:          fc.NProcY,
	}
}
